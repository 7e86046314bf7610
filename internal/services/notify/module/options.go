package module

import (
	"time"

	"datapulse/internal/platform/config"
	"datapulse/internal/services/notify/service"
)

// FromConfig reads the smtp transport with SMTP_ prefix
func FromConfig(cfg config.Conf) service.SMTPConfig {
	c := cfg.Prefix("SMTP_")
	return service.SMTPConfig{
		Host:     c.MayString("HOST", ""),
		Port:     c.MayInt("PORT", 587),
		User:     c.MayString("USER", ""),
		Pass:     c.MayString("PASS", ""),
		From:     c.MayString("FROM", "notifications@datapulse.io"),
		FromName: c.MayString("FROM_NAME", "DataPulse"),
		HTML:     c.MayBool("HTML", true),
		Timeout:  c.MayDuration("TIMEOUT", 30*time.Second),
	}
}
