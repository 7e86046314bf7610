// Package module wires the intelligence pass
package module

import (
	"datapulse/internal/core/tagger"
	"datapulse/internal/modkit"
	"datapulse/internal/modkit/httpkit"
	"datapulse/internal/services/intel/repo"
	"datapulse/internal/services/intel/service"
)

// Module defines the intel module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the intel module; a nil classifier uses the embedded table
func New(deps modkit.Deps, c *tagger.Classifier) *Module {
	svc := service.New(deps.PG, repo.NewPG(), c)
	return &Module{deps: deps, ports: Ports{Processor: svc}}
}

// Ports returns the module ports (Processor)
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "intel" }

// Prefix returns no route prefix
func (m *Module) Prefix() string { return "" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
