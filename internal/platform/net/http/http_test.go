package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"datapulse/internal/platform/config"
	perr "datapulse/internal/platform/errors"
	pnet "datapulse/internal/platform/net"
)

func decode(t *testing.T, rr *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rr.Body.String())
	}
	return env
}

func TestHandleOKEnvelope(t *testing.T) {
	h := Handle(func(*stdhttp.Request) Response { return OK(map[string]int{"n": 1}) })
	req := httptest.NewRequest(stdhttp.MethodGet, "/", nil)
	req = req.WithContext(pnet.WithRequestID(req.Context(), "rid-1"))
	rr := httptest.NewRecorder()
	h(rr, req)

	if rr.Code != 200 {
		t.Fatalf("status = %d", rr.Code)
	}
	env := decode(t, rr)
	if env.RequestID != "rid-1" || env.Status != "OK" {
		t.Fatalf("env = %+v", env)
	}
	if m, ok := env.Data.(map[string]any); !ok || m["n"] != float64(1) {
		t.Fatalf("data = %#v", env.Data)
	}
}

func TestHandleErrorEnvelope(t *testing.T) {
	h := Handle(func(*stdhttp.Request) Response {
		return Error(perr.TooLargef("Payload too large. Max 50KB allowed."))
	})
	rr := httptest.NewRecorder()
	h(rr, httptest.NewRequest(stdhttp.MethodPost, "/", nil))

	if rr.Code != stdhttp.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d", rr.Code)
	}
	env := decode(t, rr)
	if env.Code != perr.ErrorCodeTooLarge || env.Error != "Payload too large. Max 50KB allowed." {
		t.Fatalf("env = %+v", env)
	}
	if env.Field != "" {
		t.Fatalf("field should be omitted, got %q", env.Field)
	}
}

func TestHandleErrorEnvelopeField(t *testing.T) {
	h := Handle(func(*stdhttp.Request) Response {
		return Error(perr.WithField(perr.Validationf("limit must be an integer"), "limit"))
	})
	rr := httptest.NewRecorder()
	h(rr, httptest.NewRequest(stdhttp.MethodGet, "/?limit=x", nil))

	if rr.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
	if env := decode(t, rr); env.Field != "limit" || env.Code != perr.ErrorCodeValidation {
		t.Fatalf("env = %+v", env)
	}
}

func TestHandleNoContentAndHeaders(t *testing.T) {
	h := Handle(func(*stdhttp.Request) Response {
		r := NoContent()
		r.Header = stdhttp.Header{"X-Test": {"a"}}
		return r
	})
	rr := httptest.NewRecorder()
	h(rr, httptest.NewRequest(stdhttp.MethodDelete, "/", nil))
	if rr.Code != stdhttp.StatusNoContent || rr.Body.Len() != 0 || rr.Header().Get("X-Test") != "a" {
		t.Fatalf("code=%d body=%q hdr=%v", rr.Code, rr.Body.String(), rr.Header())
	}
}

func TestHandleBareBody(t *testing.T) {
	h := NoBodyHandler(func(*stdhttp.Request) (any, error) {
		return Bare(stdhttp.StatusCreated, map[string]string{"message": "Submission received", "id": "abc"}), nil
	})
	rr := httptest.NewRecorder()
	h(rr, httptest.NewRequest(stdhttp.MethodPost, "/", nil))
	if rr.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d", rr.Code)
	}
	var got map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["id"] != "abc" || got["message"] != "Submission received" {
		t.Fatalf("body = %v", got)
	}
	if _, wrapped := got["data"]; wrapped {
		t.Fatalf("bare body should not be wrapped: %s", rr.Body.String())
	}

	// errors keep the envelope even on bare routes
	h = NoBodyHandler(func(*stdhttp.Request) (any, error) { return nil, perr.Forbiddenf("Unauthorized origin") })
	rr = httptest.NewRecorder()
	h(rr, httptest.NewRequest(stdhttp.MethodPost, "/", nil))
	if env := decode(t, rr); rr.Code != stdhttp.StatusForbidden || env.Error != "Unauthorized origin" {
		t.Fatalf("code=%d env=%+v", rr.Code, env)
	}
}

func TestJSONHandlerAndResultPassthrough(t *testing.T) {
	type in struct {
		Name string `json:"name" validate:"required"`
	}
	h := JSONHandler(func(_ *stdhttp.Request, v in) (any, error) {
		return Created(map[string]string{"hello": v.Name}), nil
	})

	rr := httptest.NewRecorder()
	h(rr, httptest.NewRequest(stdhttp.MethodPost, "/", strings.NewReader(`{"name":"pulse"}`)))
	if rr.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d body=%s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	h(rr, httptest.NewRequest(stdhttp.MethodPost, "/", strings.NewReader(`{}`)))
	if rr.Code != stdhttp.StatusBadRequest {
		t.Fatalf("validation status = %d", rr.Code)
	}
}

func TestQueryHandler(t *testing.T) {
	type q struct {
		Limit int `query:"limit" validate:"max=200"`
	}
	h := QueryHandler(func(_ *stdhttp.Request, v q) (any, error) { return v.Limit, nil })

	rr := httptest.NewRecorder()
	h(rr, httptest.NewRequest(stdhttp.MethodGet, "/?limit=7", nil))
	if env := decode(t, rr); env.Data != float64(7) {
		t.Fatalf("data = %#v", env.Data)
	}

	rr = httptest.NewRecorder()
	h(rr, httptest.NewRequest(stdhttp.MethodGet, "/?limit=900", nil))
	if rr.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestRouterGroupsAndRoutes(t *testing.T) {
	srv := NewServer(config.New().Prefix("HTTPTEST_"))
	r := srv.Router()

	var hits []string
	r.Route("/api", func(api Router) {
		api.Use(func(next stdhttp.Handler) stdhttp.Handler {
			return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
				hits = append(hits, "mw")
				next.ServeHTTP(w, r)
			})
		})
		api.Group(func(g Router) {
			g.Get("/ping", NoBodyHandler(func(*stdhttp.Request) (any, error) { return "pong", nil }))
			g.Delete("/thing", NoBodyHandler(func(*stdhttp.Request) (any, error) { return NoContent(), nil }))
		})
	})

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(stdhttp.MethodGet, "/api/ping", nil))
	if rr.Code != 200 || decode(t, rr).Data != "pong" {
		t.Fatalf("ping: %d %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(stdhttp.MethodDelete, "/api/thing", nil))
	if rr.Code != stdhttp.StatusNoContent {
		t.Fatalf("delete: %d", rr.Code)
	}
	if len(hits) != 2 {
		t.Fatalf("middleware hits = %v", hits)
	}
}

func TestServerAddrNormalizes(t *testing.T) {
	t.Setenv("ADDRTEST_PORT", "8088")
	if got := NewServer(config.New().Prefix("ADDRTEST_")).Addr(); got != ":8088" {
		t.Fatalf("addr = %q", got)
	}
	t.Setenv("ADDRTEST_PORT", "127.0.0.1:9")
	if got := NewServer(config.New().Prefix("ADDRTEST_")).Addr(); got != "127.0.0.1:9" {
		t.Fatalf("addr = %q", got)
	}
}

func TestServerRunStopsOnCancel(t *testing.T) {
	t.Setenv("RUNTEST_PORT", "127.0.0.1:0")
	t.Setenv("RUNTEST_SHUTDOWN_GRACE", "1s")
	srv := NewServer(config.New().Prefix("RUNTEST_"))

	drained := make(chan struct{})
	srv.OnShutdown(func(context.Context) { close(drained) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
	select {
	case <-drained:
	default:
		t.Fatalf("shutdown hook not called")
	}
}

func TestProfilerDisabledMountsNothing(t *testing.T) {
	srv := NewServer(config.New().Prefix("PROFTEST_"))
	MountProfiler(srv.Router(), "/debug", false)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(stdhttp.MethodGet, "/debug/pprof/", nil))
	if rr.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
}
