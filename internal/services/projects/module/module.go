// Package module wires project lookups and exposes them to the API modules
package module

import (
	"datapulse/internal/modkit"
	"datapulse/internal/modkit/httpkit"
	"datapulse/internal/services/projects/repo"
	"datapulse/internal/services/projects/service"
)

// Module defines the projects module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the projects module; a negative TTL override disables the key cache
func New(deps modkit.Deps, overrides Options) *Module {
	opts := FromConfig(deps.Cfg)
	if overrides.KeyCacheTTL != 0 {
		opts.KeyCacheTTL = overrides.KeyCacheTTL
	}
	svc := service.New(deps.PG, repo.NewPG(), service.Config{KeyCacheTTL: opts.KeyCacheTTL})
	return &Module{deps: deps, ports: Ports{Lookup: svc}}
}

// Ports returns the module ports (Lookup)
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "projects" }

// Prefix returns no route prefix, project CRUD lives outside this service
func (m *Module) Prefix() string { return "" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
