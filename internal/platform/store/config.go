package store

import (
	"time"

	"datapulse/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string
	PG      PGConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	ConnectRetries int           // default 20
	PingTimeout    time.Duration // default 3s
}

// PGFromConf reads DBURL, MAX_CONNS, LOG_SQL, SLOW_MS, CONNECT_RETRIES, PING_TIMEOUT
// c is usually config.New().Prefix("SERVICE_PGSQL_")
func PGFromConf(c config.Conf) PGConfig {
	return PGConfig{
		Enabled:        true,
		URL:            c.MustString("DBURL"),
		MaxConns:       int32(c.MayInt("MAX_CONNS", 16)),
		LogSQL:         c.MayBool("LOG_SQL", false),
		SlowQueryMs:    c.MayInt("SLOW_MS", 200),
		ConnectRetries: c.MayInt("CONNECT_RETRIES", 20),
		PingTimeout:    c.MayDuration("PING_TIMEOUT", 3*time.Second),
	}
}
