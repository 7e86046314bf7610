// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	modkit "datapulse/internal/modkit"
	"datapulse/internal/modkit/httpkit"
	str "datapulse/internal/platform/strings"

	metahttp "datapulse/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	deps      modkit.Deps
	built     modkit.Built
	startedAt time.Time
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)
	return &Module{deps: deps, built: b, startedAt: time.Now()}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	var pg any
	if m.deps.PG != nil {
		pg = m.deps.PG
	}
	modkit.Mount(r, m.built, func(rr httpkit.Router) {
		metahttp.Register(rr, metahttp.Deps{
			ServiceName: "datapulse-api",
			StartedAt:   m.startedAt,
			PG:          pg,
		})
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.built.Name, "meta") }

// Prefix implements the modkit.Module interface
func (m *Module) Prefix() string { return str.MustPrefix(m.built.Prefix) }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
