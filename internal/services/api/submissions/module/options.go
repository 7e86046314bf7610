package module

import (
	"datapulse/internal/platform/config"
	"datapulse/internal/services/api/submissions/service"
)

// Options controls ingest limits
type Options struct {
	// MaxPayload caps the serialized payload
	MaxPayload int
	// MaxBody caps the raw request body read before decoding
	MaxBody int64
}

// FromConfig reads with CORE_INGEST_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_INGEST_")
	return Options{
		MaxPayload: c.MayInt("MAX_PAYLOAD", service.DefaultMaxPayload),
		MaxBody:    c.MayInt64("MAX_BODY", 1<<20),
	}
}
