// Package module wires the webhook dispatcher
package module

import (
	"net/http"

	"datapulse/internal/modkit"
	"datapulse/internal/modkit/httpkit"
	"datapulse/internal/platform/logger"
	"datapulse/internal/services/webhook/service"
)

// Module defines the webhook module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the webhook module; client may be nil
func New(deps modkit.Deps, overrides Options, client *http.Client) *Module {
	opts := FromConfig(deps.Cfg)
	if overrides.Secret != "" {
		opts.Secret = overrides.Secret
	}
	if overrides.Timeout != 0 {
		opts.Timeout = overrides.Timeout
	}
	if opts.Secret == DefaultSecret {
		logger.Named("webhook").Warn().Msg("WEBHOOK_SECRET not set, signing with the development secret")
	}
	svc := service.New(service.Config{Secret: opts.Secret, Timeout: opts.Timeout}, client, deps.Metrics)
	return &Module{deps: deps, ports: Ports{Dispatcher: svc}}
}

// Ports returns the module ports (Dispatcher)
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "webhook" }

// Prefix returns no route prefix
func (m *Module) Prefix() string { return "" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
