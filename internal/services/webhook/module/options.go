package module

import (
	"time"

	"datapulse/internal/platform/config"
	"datapulse/internal/services/webhook/service"
)

// DefaultSecret is the development signing secret
const DefaultSecret = "datapulse_default_secret_32chars_min"

// Options controls webhook delivery
type Options struct {
	Secret  string
	Timeout time.Duration
}

// FromConfig reads with WEBHOOK_ prefix; TIMEOUT may only lower the 10s ceiling
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("WEBHOOK_")
	return Options{
		Secret:  c.MayString("SECRET", DefaultSecret),
		Timeout: c.MayDuration("TIMEOUT", service.MaxTimeout),
	}
}
