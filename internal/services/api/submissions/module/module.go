// Package module wires submissions into the API using modkit
package module

import (
	modkit "datapulse/internal/modkit"
	"datapulse/internal/modkit/httpkit"
	str "datapulse/internal/platform/strings"
	subhttp "datapulse/internal/services/api/submissions/http"
	subrepo "datapulse/internal/services/api/submissions/repo"
	subsvc "datapulse/internal/services/api/submissions/service"
)

// Module implements the modkit.Module interface
// Ingest mounts under /submit with public CORS; listings mount under the module prefix
type Module struct {
	deps  modkit.Deps
	built modkit.Built
	opts  Options
	svc   subsvc.Service
}

// New constructs the submissions module; Ports must arrive through modkit.WithPorts
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("submissions"),
		modkit.WithPrefix("/submissions"),
	}, opts...)...)

	ports, ok := b.Ports.(Ports)
	if !ok {
		panic("submissions module requires modkit.WithPorts(submissions.Ports{...})")
	}
	o := FromConfig(deps.Cfg)
	svc := subsvc.New(deps.PG, subrepo.NewPG(), subsvc.Deps{
		Projects: ports.Projects,
		Runner:   ports.Runner,
		Webhooks: ports.Webhooks,
		Notifier: ports.Notifier,
		Intel:    ports.Intel,
		Metrics:  deps.Metrics,
	}, subsvc.Config{MaxPayload: o.MaxPayload})

	return &Module{deps: deps, built: b, opts: o, svc: svc}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route("/submit", func(rr httpkit.Router) {
		rr.Use(httpkit.PublicCORS())
		subhttp.RegisterIngest(rr, m.svc, m.opts.MaxBody)
	})
	modkit.Mount(r, m.built, func(rr httpkit.Router) {
		subhttp.Register(rr, m.svc)
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.built.Name, "submissions") }

// Prefix implements the modkit.Module interface
func (m *Module) Prefix() string { return str.MustPrefix(m.built.Prefix) }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return m.svc }
