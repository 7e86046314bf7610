package modkit

import (
	"net/http"

	phttp "datapulse/internal/platform/net/http"
)

// Option mutates build configuration for a module
type Option func(*Built)

// Built is the resolved module configuration
type Built struct {
	Name     string
	Prefix   string
	Mw       []func(http.Handler) http.Handler
	Ports    any
	Register func(phttp.Router)
}

// Build applies options over zero values and fills hook defaults
func Build(opts ...Option) Built {
	var b Built
	for _, o := range opts {
		o(&b)
	}
	if b.Register == nil {
		b.Register = func(phttp.Router) {}
	}
	b.Mw = append([]func(http.Handler) http.Handler(nil), b.Mw...)
	return b
}

// WithName sets a module name used in logs
func WithName(name string) Option { return func(b *Built) { b.Name = name } }

// WithPrefix mounts a module under a path prefix
func WithPrefix(prefix string) Option { return func(b *Built) { b.Prefix = prefix } }

// WithMiddlewares attaches per module middleware in order
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Built) { b.Mw = append(b.Mw, mw...) }
}

// WithPorts injects ports another module exposes; the concrete type is owned by the importing module
func WithPorts[T any](p T) Option { return func(b *Built) { b.Ports = p } }

// WithRegister adds extra endpoints next to the module's own
func WithRegister(fn func(phttp.Router)) Option { return func(b *Built) { b.Register = fn } }

// Mount mounts register under prefix with the module middlewares applied
func Mount(r phttp.Router, b Built, register func(phttp.Router)) {
	r.Route(b.Prefix, func(rr phttp.Router) {
		if len(b.Mw) > 0 {
			rr.Use(b.Mw...)
		}
		register(rr)
		b.Register(rr)
	})
}
