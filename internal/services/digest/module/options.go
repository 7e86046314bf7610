package module

import "datapulse/internal/platform/config"

// Options for the digest module
type Options struct {
	Workers      int
	EnableLeases bool
}

// FromConfig fills options from environment
// CORE_DIGEST_WORKERS (default 4) bounds concurrent project summaries
// CORE_DIGEST_LEASES (default true) takes the advisory lock around a pass
func FromConfig(cfg config.Conf) Options {
	d := cfg.Prefix("CORE_DIGEST_")
	return Options{
		Workers:      d.MayInt("WORKERS", 4),
		EnableLeases: d.MayBool("LEASES", true),
	}
}
