package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"datapulse/internal/core/trend"
	pnet "datapulse/internal/platform/net"
	phttp "datapulse/internal/platform/net/http"
	"datapulse/internal/services/api/insights/domain"

	"github.com/go-chi/chi/v5"
)

type fakeSvc struct {
	uid string
	pid int64
}

func (f *fakeSvc) Summary(_ context.Context, uid string, pid int64) (domain.Summary, error) {
	f.uid, f.pid = uid, pid
	return domain.Summary{TotalSubmissions: 3, Insights: []string{"You received 3 submissions today"}}, nil
}

func (f *fakeSvc) Trends(_ context.Context, uid string, pid int64) ([]trend.Trend, error) {
	f.uid, f.pid = uid, pid
	return []trend.Trend{{Type: trend.TypeInactivity, Message: "quiet", Severity: trend.SeverityMedium}}, nil
}

func (f *fakeSvc) Suggestions(_ context.Context, uid string, pid int64) ([]domain.Suggestion, error) {
	f.uid, f.pid = uid, pid
	return []domain.Suggestion{{Label: "Last 24 hours", Filter: map[string]string{"time": "24h"}}}, nil
}

func get(t *testing.T, f *fakeSvc, path, uid string) (int, map[string]json.RawMessage) {
	t.Helper()
	mux := chi.NewRouter()
	Register(phttp.AdaptChi(mux), f)
	req := httptest.NewRequest(stdhttp.MethodGet, path, nil)
	if uid != "" {
		req = req.WithContext(pnet.WithUser(req.Context(), uid))
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	var body map[string]json.RawMessage
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v (%s)", err, rr.Body.String())
	}
	return rr.Code, body
}

func TestTopLevelBodies(t *testing.T) {
	for path, key := range map[string]string{
		"/summary/7":     "summary",
		"/trends/7":      "trends",
		"/suggestions/7": "suggestions",
	} {
		f := &fakeSvc{}
		code, data := get(t, f, path, "u1")
		if code != stdhttp.StatusOK {
			t.Fatalf("%s: status %d", path, code)
		}
		if _, ok := data[key]; !ok {
			t.Fatalf("%s: body has no %q: %v", path, key, data)
		}
		if _, wrapped := data["status_code"]; wrapped {
			t.Fatalf("%s: body should not carry the envelope: %v", path, data)
		}
		if f.uid != "u1" || f.pid != 7 {
			t.Fatalf("%s: called with %q %d", path, f.uid, f.pid)
		}
	}
}

func TestRejections(t *testing.T) {
	if code, _ := get(t, &fakeSvc{}, "/summary/7", ""); code != stdhttp.StatusUnauthorized {
		t.Fatalf("anonymous status = %d", code)
	}
	if code, _ := get(t, &fakeSvc{}, "/trends/nope", "u1"); code != stdhttp.StatusNotFound {
		t.Fatalf("bad id status = %d", code)
	}
}
