package httpkit

import (
	"compress/flate"
	"net/http"
	"strings"
	"time"

	"datapulse/internal/platform/net/middleware"
)

// CommonStack returns the baseline middleware for the versioned API
// CORS is applied per module: public ingest is permissive, the dashboard follows config
func CommonStack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.AccessLogZerolog(middleware.AccessLogOptions{
			Slow: time.Second,
			Skip: func(p string) bool { return strings.HasSuffix(p, "/meta/health") },
		}),
		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(30 * time.Second),
	}
}

// DashboardCORS is the CORS policy for bearer-authenticated routes
func DashboardCORS(origins []string) func(http.Handler) http.Handler {
	return middleware.CORS(middleware.CORSOptions{
		AllowedOrigins:   origins,
		AllowCredentials: len(origins) > 0 && origins[0] != "*",
		MaxAge:           300,
	})
}

// PublicCORS is the permissive policy for routes embedded in third party pages
func PublicCORS() func(http.Handler) http.Handler { return middleware.PublicCORS() }
