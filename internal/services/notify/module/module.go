// Package module wires owner notifications
package module

import (
	"datapulse/internal/modkit"
	"datapulse/internal/modkit/httpkit"
	"datapulse/internal/platform/logger"
	dom "datapulse/internal/services/notify/domain"
	"datapulse/internal/services/notify/service"
)

// Module defines the notify module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the notify module
// mailer overrides the configured transport, mostly for tests
func New(deps modkit.Deps, mailer dom.Mailer) *Module {
	if mailer == nil {
		cfg := FromConfig(deps.Cfg)
		if cfg.Configured() {
			mailer = service.NewSMTPMailer(cfg)
		} else {
			logger.Named("notify").Warn().Msg("SMTP_HOST/USER/PASS not set, notification mail is logged only")
		}
	}
	return &Module{deps: deps, ports: Ports{Notifier: service.New(mailer, deps.Metrics)}}
}

// Ports returns the module ports (Notifier)
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "notify" }

// Prefix returns no route prefix
func (m *Module) Prefix() string { return "" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
