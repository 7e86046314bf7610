package http

import (
	"context"
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	phttp "datapulse/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func serve(t *testing.T, d Deps, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	mux := chi.NewRouter()
	Register(phttp.AdaptChi(mux), d)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(stdhttp.MethodGet, path, nil))
	var env struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v (%s)", err, rr.Body.String())
	}
	return rr, env.Data
}

func TestHealth(t *testing.T) {
	rr, data := serve(t, Deps{ServiceName: "datapulse-api", StartedAt: time.Now()}, "/health")
	if rr.Code != 200 || data["ok"] != true || data["service"] != "datapulse-api" {
		t.Fatalf("health = %d %v", rr.Code, data)
	}
}

func TestReady(t *testing.T) {
	rr, data := serve(t, Deps{PG: fakePinger{}}, "/ready")
	if rr.Code != 200 || data["status"] != "ok" {
		t.Fatalf("ready ok = %d %v", rr.Code, data)
	}

	rr, data = serve(t, Deps{PG: fakePinger{err: errors.New("refused")}}, "/ready")
	if rr.Code != stdhttp.StatusServiceUnavailable || data["status"] != "fail" {
		t.Fatalf("ready fail = %d %v", rr.Code, data)
	}
	checks := data["checks"].([]any)
	if c := checks[0].(map[string]any); c["error"] != "refused" {
		t.Fatalf("check = %v", c)
	}

	rr, data = serve(t, Deps{}, "/ready")
	if rr.Code != stdhttp.StatusServiceUnavailable || data["checks"].([]any)[0].(map[string]any)["status"] != "skipped" {
		t.Fatalf("ready without pg = %d %v", rr.Code, data)
	}
}

func TestVersionAndService(t *testing.T) {
	rr, data := serve(t, Deps{}, "/version")
	if rr.Code != 200 || data["service"] != "datapulse-api" {
		t.Fatalf("version = %d %v", rr.Code, data)
	}
	rr, data = serve(t, Deps{ServiceName: "x", StartedAt: time.Now().Add(-time.Minute)}, "/service")
	if rr.Code != 200 || data["uptime"].(float64) < 59 {
		t.Fatalf("service = %d %v", rr.Code, data)
	}
}
