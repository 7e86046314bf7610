package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"time"

	"datapulse/internal/platform/config"
	"datapulse/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// Server is a thin wrapper over chi + stdlib http.Server
type Server struct {
	addr    string
	mux     *chi.Mux
	srv     *stdhttp.Server
	drain   time.Duration
	onDrain []func(context.Context)
}

// NewServer creates the http server from cfg (PORT, SHUTDOWN_GRACE)
// opts receive the *chi.Mux so callers can install root middleware
func NewServer(cfg config.Conf, opts ...func(*chi.Mux)) *Server {
	addr := cfg.MayString("PORT", ":4000")
	if addr != "" && addr[0] != ':' && !containsColon(addr) {
		addr = ":" + addr
	}
	m := chi.NewRouter()
	for _, o := range opts {
		o(m)
	}
	return &Server{
		addr:  addr,
		mux:   m,
		drain: cfg.MayDuration("SHUTDOWN_GRACE", 15*time.Second),
		srv: &stdhttp.Server{
			Addr:              addr,
			Handler:           m,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func containsColon(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			return true
		}
	}
	return false
}

// Router returns a Router facade over the internal chi mux
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Handler exposes the root handler (tests use it with httptest)
func (s *Server) Handler() stdhttp.Handler { return s.mux }

// Addr returns the listening address
func (s *Server) Addr() string { return s.addr }

// OnShutdown registers fn to run after the listener stops accepting requests
func (s *Server) OnShutdown(fn func(context.Context)) { s.onDrain = append(s.onDrain, fn) }

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.addr).Msg("http listening")
		errc <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, stdhttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), s.drain)
	defer cancel()
	err := s.srv.Shutdown(sctx)
	for _, fn := range s.onDrain {
		fn(sctx)
	}
	log.Info().Msg("http stopped")
	return err
}
