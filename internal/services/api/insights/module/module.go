// Package module wires insights into the API using modkit
package module

import (
	modkit "datapulse/internal/modkit"
	"datapulse/internal/modkit/httpkit"
	str "datapulse/internal/platform/strings"
	"datapulse/internal/services/api/insights/domain"
	inshttp "datapulse/internal/services/api/insights/http"
	insrepo "datapulse/internal/services/api/insights/repo"
	inssvc "datapulse/internal/services/api/insights/service"
)

// Module implements the modkit.Module interface
type Module struct {
	deps  modkit.Deps
	built modkit.Built
	svc   inssvc.Service
}

// New constructs an insights module; Ports must arrive through modkit.WithPorts
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("insights"),
		modkit.WithPrefix("/insights"),
	}, opts...)...)

	ports, ok := b.Ports.(Ports)
	if !ok {
		panic("insights module requires modkit.WithPorts(insights.Ports{...})")
	}
	svc := inssvc.New(deps.PG, insrepo.NewPG(), ports.Projects)
	return &Module{deps: deps, built: b, svc: svc}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	modkit.Mount(r, m.built, func(rr httpkit.Router) {
		inshttp.Register(rr, m.svc)
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.built.Name, "insights") }

// Prefix implements the modkit.Module interface
func (m *Module) Prefix() string { return str.MustPrefix(m.built.Prefix) }

// Ports exposes the digest port for batch jobs
func (m *Module) Ports() any { return ExposedPorts{Digest: m.svc} }

// ExposedPorts are what the insights module offers other packages
type ExposedPorts struct {
	Digest domain.DigestPort
}
