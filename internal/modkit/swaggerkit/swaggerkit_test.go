package swaggerkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"datapulse/internal/platform/config"
	phttp "datapulse/internal/platform/net/http"
)

func TestMountServesSkeleton(t *testing.T) {
	srv := phttp.NewServer(config.New().Prefix("SWAGTEST_"))
	Mount(srv.Router(), true)

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var doc map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	ps, _ := doc["paths"].(map[string]any)
	if _, ok := ps["/submit/{apiKey}"]; !ok {
		t.Fatalf("submit path missing: %v", ps)
	}

	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/docs", nil))
	if rr.Code != http.StatusPermanentRedirect {
		t.Fatalf("redirect status = %d", rr.Code)
	}
}

func TestMountDisabled(t *testing.T) {
	srv := phttp.NewServer(config.New().Prefix("SWAGTEST_"))
	Mount(srv.Router(), false)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
}
