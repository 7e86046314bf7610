package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"datapulse/internal/modkit/httpkit"
	"datapulse/internal/platform/config"
	"datapulse/internal/platform/metrics"
	phttp "datapulse/internal/platform/net/http"
	"datapulse/internal/platform/store"
	kit "datapulse/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
)

type fakePG struct{}

func (fakePG) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (fakePG) Query(context.Context, string, ...any) (store.Rows, error)       { return nil, nil }
func (fakePG) QueryRow(context.Context, string, ...any) store.Row             { return nil }
func (fakePG) Tx(ctx context.Context, fn func(store.RowQuerier) error) error  { return fn(fakePG{}) }
func (fakePG) Ping(context.Context) error                                      { return nil }

func mount(t *testing.T) (*chi.Mux, *API) {
	t.Helper()
	m, err := metrics.New()
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	mux := chi.NewRouter()
	a := Mount(phttp.AdaptChi(mux), Options{
		Config:  config.New(),
		Store:   &store.Store{PG: fakePG{}},
		Metrics: m,
		Auth: httpkit.NewPortFunc(func(string) (string, error) {
			return "", errors.New("no tokens in this test")
		}),
	})
	return mux, a
}

func TestMountWiresModules(t *testing.T) {
	mux, a := mount(t)

	names := map[string]bool{}
	for _, m := range a.Modules() {
		names[m.Name()] = true
	}
	for _, want := range []string{"tasks", "projects", "webhook", "notify", "intel", "meta", "submissions", "insights"} {
		if !names[want] {
			t.Fatalf("module %q not mounted (%v)", want, names)
		}
	}

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/meta/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("health = %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("metrics = %d", rr.Code)
	}
	kit.MustContain(t, rr.Body.String(), "go_goroutines")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := a.Drain(ctx); err != nil {
		t.Fatalf("Drain: %v", err)
	}
}

func TestDashboardRoutesNeedToken(t *testing.T) {
	mux, _ := mount(t)
	for _, path := range []string{"/api/v1/submissions", "/api/v1/submissions/1", "/api/v1/insights/summary/1"} {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s = %d", path, rr.Code)
		}
	}
}

func TestSubmitIsPublicWithPermissiveCORS(t *testing.T) {
	mux, _ := mount(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/submit/whatever", nil)
	req.Header.Set("Origin", "https://forms.example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow origin = %q (status %d)", got, rr.Code)
	}

	// a key that is not a uuid is refused before any database work
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/submit/not-a-key", strings.NewReader(`{"a":1}`)))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unknown key = %d %s", rr.Code, rr.Body.String())
	}
}
