// Package service implements the bounded background task runner
package service

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"datapulse/internal/platform/logger"
	"datapulse/internal/platform/metrics"
	dom "datapulse/internal/services/tasks/domain"
)

// Config controls the runner
type Config struct {
	Concurrency int
	MaxDuration time.Duration
}

// Svc runs detached tasks behind a semaphore
type Svc struct {
	cfg     Config
	sem     chan struct{}
	wg      sync.WaitGroup
	closing atomic.Bool
	metrics *metrics.Metrics
}

var _ dom.RunnerPort = (*Svc)(nil)

// New constructs the runner; m may be nil
func New(cfg Config, m *metrics.Metrics) *Svc {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 16
	}
	if cfg.MaxDuration <= 0 {
		cfg.MaxDuration = 2 * time.Minute
	}
	return &Svc{cfg: cfg, sem: make(chan struct{}, cfg.Concurrency), metrics: m}
}

// Submit schedules fn on its own goroutine
// When all slots are busy the goroutine waits for one, the caller never does
func (s *Svc) Submit(ctx context.Context, name string, fn dom.Func) {
	if fn == nil {
		return
	}
	if s.closing.Load() {
		logger.C(ctx).Warn().Str("task", name).Msg("task runner draining, task dropped")
		s.metrics.TaskDropped(name)
		return
	}
	detached := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.sem <- struct{}{}
		defer func() { <-s.sem }()
		s.run(detached, name, fn)
	}()
}

func (s *Svc) run(ctx context.Context, name string, fn dom.Func) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.MaxDuration)
	defer cancel()

	log := logger.C(ctx).With().Str("component", "tasks").Str("task", name).Logger()
	start := time.Now()
	s.metrics.TaskStarted()

	status := "ok"
	defer func() {
		if rec := recover(); rec != nil {
			status = "panic"
			log.Error().
				Str("panic", fmt.Sprint(rec)).
				Bytes("stack", debug.Stack()).
				Msg("task panicked")
		}
		s.metrics.TaskDone(name, status, time.Since(start))
	}()

	if err := fn(ctx); err != nil {
		status = "error"
		if ctx.Err() == context.DeadlineExceeded {
			status = "timeout"
		}
		log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("task failed")
		return
	}
	log.Debug().Dur("elapsed", time.Since(start)).Msg("task done")
}

// Wait stops accepting tasks and blocks until in flight ones finish
func (s *Svc) Wait(ctx context.Context) error {
	s.closing.Store(true)
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
