// Package module wires the background task runner and exposes its ports
package module

import (
	"datapulse/internal/modkit"
	"datapulse/internal/modkit/httpkit"
	"datapulse/internal/services/tasks/service"
)

// Module defines the tasks module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the tasks module; non zero overrides win over config
func New(deps modkit.Deps, overrides Options) *Module {
	opts := FromConfig(deps.Cfg)
	if overrides.Concurrency != 0 {
		opts.Concurrency = overrides.Concurrency
	}
	if overrides.MaxDuration != 0 {
		opts.MaxDuration = overrides.MaxDuration
	}

	svc := service.New(service.Config{
		Concurrency: opts.Concurrency,
		MaxDuration: opts.MaxDuration,
	}, deps.Metrics)

	return &Module{deps: deps, ports: Ports{Runner: svc}}
}

// Ports returns the module ports (Runner)
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "tasks" }

// Prefix returns no route prefix, the runner is worker only
func (m *Module) Prefix() string { return "" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
