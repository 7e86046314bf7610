package module

import (
	"time"

	"datapulse/internal/platform/config"
)

// Options controls project lookups
type Options struct {
	KeyCacheTTL time.Duration
}

// FromConfig reads with CORE_INGEST_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_INGEST_")
	return Options{KeyCacheTTL: c.MayDuration("KEY_CACHE_TTL", time.Minute)}
}
