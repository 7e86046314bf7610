// Package modkit provides module wiring and core deps
package modkit

import (
	"net/http"

	"datapulse/internal/modkit/repokit"
	"datapulse/internal/platform/config"
	"datapulse/internal/platform/logger"
	"datapulse/internal/platform/metrics"
	phttp "datapulse/internal/platform/net/http"
)

// Module is the common surface for API modules that can mount routes and expose ports
type Module interface {
	// MountRoutes mounts HTTP routes under the provided router seam
	MountRoutes(r phttp.Router)
	// Ports returns a module specific port set for cross wiring
	Ports() any
	// Name returns the module name
	Name() string
}

// Builder constructs a Module from shared deps and options
type Builder func(Deps, ...Option) Module

// Deps holds core dependencies passed to modules
// Metrics may be nil; every collector method is nil safe
type Deps struct {
	Log     logger.Logger
	Cfg     config.Conf
	PG      repokit.TxRunner
	Metrics *metrics.Metrics
}
