package module

import (
	"time"

	"datapulse/internal/platform/config"
)

// Options controls the task runner
type Options struct {
	Concurrency int
	MaxDuration time.Duration
}

// FromConfig reads with CORE_TASKS_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_TASKS_")
	return Options{
		Concurrency: c.MayInt("CONCURRENCY", 16),
		MaxDuration: c.MayDuration("MAX_DURATION", 2*time.Minute),
	}
}
