// Package swaggerkit provides OpenAPI swagger UI integration for HTTP services
package swaggerkit

import (
	"encoding/json"
	"net/http"

	"datapulse/internal/core/version"
)

// paths lists the documented operations; handlers carry the matching @Router annotations
var paths = map[string]map[string]string{
	"/submit/{apiKey}":                  {"post": "Ingest a form submission"},
	"/submissions":                      {"get": "List submissions across the caller's projects"},
	"/submissions/{projectId}":          {"get": "List submissions for one project"},
	"/insights/summary/{projectId}":     {"get": "Daily summary for a project"},
	"/insights/trends/{projectId}":      {"get": "Volume and keyword trends"},
	"/insights/suggestions/{projectId}": {"get": "Smart filter suggestions"},
	"/meta/health":                      {"get": "Health check"},
	"/meta/ready":                       {"get": "Readiness check"},
	"/meta/version":                     {"get": "Build and version info"},
	"/meta/service":                     {"get": "Service identity and uptime"},
}

// document builds a minimal OAS3 skeleton served when generated docs are absent
func document() map[string]any {
	ps := map[string]any{}
	for p, ops := range paths {
		node := map[string]any{}
		for method, summary := range ops {
			node[method] = map[string]any{
				"summary":   summary,
				"responses": map[string]any{"200": map[string]any{"description": "OK"}},
			}
		}
		ps[p] = node
	}
	return map[string]any{
		"openapi": "3.0.3",
		"info":    map[string]any{"title": "DataPulse API", "version": version.Info().Version},
		"servers": []any{map[string]any{"url": "/api/v1"}},
		"paths":   ps,
	}
}

func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(document())
	}
}
