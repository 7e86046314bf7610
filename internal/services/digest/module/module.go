// Package module wires up the digest service as a modkit.Module
package module

import (
	"context"

	"datapulse/internal/modkit"
	"datapulse/internal/modkit/httpkit"
	"datapulse/internal/platform/store"

	insights "datapulse/internal/services/api/insights/domain"
	dom "datapulse/internal/services/digest/domain"
	"datapulse/internal/services/digest/service"
	projects "datapulse/internal/services/projects/domain"
)

// LockName keys the advisory lock shared by every digest process
const LockName = "datapulse:digest"

// Ports exported by the digest module
type Ports struct {
	Runner dom.RunnerPort
}

// Module implements modkit.Module for the digest job
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the digest module; non zero overrides win over config
func New(deps modkit.Deps, lookup projects.LookupPort, digest insights.DigestPort, overrides Options) *Module {
	opts := FromConfig(deps.Cfg)
	if overrides.Workers != 0 {
		opts.Workers = overrides.Workers
	}

	var lease func(context.Context, func(context.Context) error) error
	if deps.PG != nil {
		key := store.LockKey(LockName)
		lease = func(ctx context.Context, do func(context.Context) error) error {
			return store.WithAdvisoryLock(ctx, deps.PG, key, func(ctx context.Context, _ store.RowQuerier) error {
				return do(ctx)
			})
		}
	}

	svc := service.New(lookup, digest, service.Config{
		Workers:      opts.Workers,
		EnableLeases: opts.EnableLeases,
	}, lease)
	return &Module{deps: deps, ports: Ports{Runner: svc}}
}

// Name returns the module name
func (m *Module) Name() string { return "digest" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Prefix returns the module config prefix (none)
func (m *Module) Prefix() string { return "" }

// MountRoutes is a no-op: the digest has no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
