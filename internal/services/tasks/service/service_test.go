package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"datapulse/internal/platform/metrics"
	kit "datapulse/internal/platform/testkit"

	"go.uber.org/goleak"
)

func TestSubmitRunsDetachedFromCaller(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := New(Config{Concurrency: 2, MaxDuration: time.Second}, nil)
	ctx, cancel := context.WithCancel(context.Background())

	var ran atomic.Bool
	s.Submit(ctx, "detached", func(ctx context.Context) error {
		time.Sleep(20 * time.Millisecond)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		ran.Store(true)
		return nil
	})
	// the request finishing must not cancel the task
	cancel()

	if err := s.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if !ran.Load() {
		t.Fatalf("task did not complete after caller cancel")
	}
}

func TestSubmitNeverBlocksAndBoundsConcurrency(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := New(Config{Concurrency: 2, MaxDuration: time.Second}, nil)
	release := make(chan struct{})
	var cur, peak atomic.Int32

	start := time.Now()
	for i := 0; i < 8; i++ {
		s.Submit(context.Background(), "bounded", func(context.Context) error {
			n := cur.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			<-release
			cur.Add(-1)
			return nil
		})
	}
	if time.Since(start) > 100*time.Millisecond {
		t.Fatalf("Submit blocked the caller")
	}
	kit.Eventually(t, time.Second, func() bool { return cur.Load() == 2 })
	close(release)

	if err := s.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if peak.Load() != 2 {
		t.Fatalf("peak concurrency = %d, want 2", peak.Load())
	}
}

func TestPanicAndErrorAreIsolated(t *testing.T) {
	defer goleak.VerifyNone(t)

	m, err := metrics.New()
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	s := New(Config{Concurrency: 4}, m)

	var ok atomic.Bool
	s.Submit(context.Background(), "boom", func(context.Context) error { panic("kaboom") })
	s.Submit(context.Background(), "fails", func(context.Context) error { return errors.New("nope") })
	s.Submit(context.Background(), "fine", func(context.Context) error { ok.Store(true); return nil })

	if err := s.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if !ok.Load() {
		t.Fatalf("healthy task should still run")
	}
}

func TestMaxDurationCancelsTask(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := New(Config{Concurrency: 1, MaxDuration: 20 * time.Millisecond}, nil)
	var got error
	var mu sync.Mutex
	s.Submit(context.Background(), "slow", func(ctx context.Context) error {
		<-ctx.Done()
		mu.Lock()
		got = ctx.Err()
		mu.Unlock()
		return ctx.Err()
	})
	if err := s.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if !errors.Is(got, context.DeadlineExceeded) {
		t.Fatalf("task ctx err = %v", got)
	}
}

func TestWaitHonorsContextAndDropsLateTasks(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := New(Config{Concurrency: 1, MaxDuration: time.Second}, nil)
	release := make(chan struct{})
	s.Submit(context.Background(), "held", func(context.Context) error { <-release; return nil })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := s.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Wait = %v, want deadline exceeded", err)
	}

	var late atomic.Bool
	s.Submit(context.Background(), "late", func(context.Context) error { late.Store(true); return nil })

	close(release)
	if err := s.Wait(context.Background()); err != nil {
		t.Fatalf("second Wait: %v", err)
	}
	if late.Load() {
		t.Fatalf("task submitted during drain should be dropped")
	}
}

func TestNilFuncIgnored(t *testing.T) {
	s := New(Config{}, nil)
	s.Submit(context.Background(), "nil", nil)
	if err := s.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if cap(s.sem) != 16 || s.cfg.MaxDuration != 2*time.Minute {
		t.Fatalf("defaults not applied: %+v", s.cfg)
	}
}
