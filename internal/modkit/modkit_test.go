package modkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"datapulse/internal/platform/config"
	phttp "datapulse/internal/platform/net/http"
)

func TestBuildDefaultsAndOptions(t *testing.T) {
	b := Build()
	if b.Register == nil || b.Name != "" || b.Ports != nil {
		t.Fatalf("defaults = %+v", b)
	}

	type ports struct{ N int }
	b = Build(WithName("submissions"), WithPrefix("/submissions"), WithPorts(ports{N: 2}))
	if b.Name != "submissions" || b.Prefix != "/submissions" {
		t.Fatalf("built = %+v", b)
	}
	if p, ok := b.Ports.(ports); !ok || p.N != 2 {
		t.Fatalf("ports = %#v", b.Ports)
	}
}

func TestMountAppliesMiddlewareAndExtras(t *testing.T) {
	var order []string
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "mw")
			next.ServeHTTP(w, r)
		})
	}
	b := Build(
		WithPrefix("/things"),
		WithMiddlewares(mw),
		WithRegister(func(r phttp.Router) {
			r.Get("/extra", func(w http.ResponseWriter, _ *http.Request) { order = append(order, "extra") })
		}),
	)

	srv := phttp.NewServer(config.New().Prefix("MODKITTEST_"))
	Mount(srv.Router(), b, func(r phttp.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) { order = append(order, "own") })
	})

	for _, p := range []string{"/things", "/things/extra"} {
		rr := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, p, nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: status %d", p, rr.Code)
		}
	}
	want := []string{"mw", "own", "mw", "extra"}
	if len(order) != len(want) {
		t.Fatalf("order = %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v", order)
		}
	}
}
