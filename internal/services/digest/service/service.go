// Package service runs the daily summary digest across projects
package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"datapulse/internal/platform/logger"
	"datapulse/internal/platform/store"
	insights "datapulse/internal/services/api/insights/domain"
	dom "datapulse/internal/services/digest/domain"
	projects "datapulse/internal/services/projects/domain"

	"golang.org/x/sync/errgroup"
)

// Config controls fan out and locking
type Config struct {
	Workers int

	// EnableLeases serializes passes across processes
	EnableLeases bool
}

// Service computes summaries for many projects at once
type Service struct {
	Projects projects.LookupPort
	Digest   insights.DigestPort
	Cfg      Config

	// Lease runs do while holding the cross process digest lock
	// It returns store.ErrLockHeld when another process has it
	Lease func(ctx context.Context, do func(context.Context) error) error
}

var _ dom.RunnerPort = (*Service)(nil)

// New constructs the digest service
func New(lookup projects.LookupPort, digest insights.DigestPort, cfg Config, lease func(context.Context, func(context.Context) error) error) *Service {
	if lookup == nil || digest == nil {
		panic("digest.Service requires project lookup and digest ports")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &Service{Projects: lookup, Digest: digest, Cfg: cfg, Lease: lease}
}

// RunOnce writes today's summary for one project or all of them
// A failing project is logged and counted; the others still run
func (s *Service) RunOnce(ctx context.Context, project int64) (dom.Report, error) {
	l := logger.C(ctx).With().Str("component", "digest").Logger()
	var rep dom.Report

	run := func(ctx context.Context) error {
		ids := []int64{project}
		if project <= 0 {
			all, err := s.Projects.All(ctx)
			if err != nil {
				return err
			}
			ids = all
		}
		rep.Projects = len(ids)

		var failed atomic.Int64
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.Cfg.Workers)
		for _, id := range ids {
			g.Go(func() error {
				if _, err := s.Digest.GenerateDaily(gctx, id); err != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					failed.Add(1)
					l.Error().Err(err).Int64("project_id", id).Msg("daily summary failed")
				}
				return nil
			})
		}
		err := g.Wait()
		rep.Failed = int(failed.Load())
		return err
	}

	start := time.Now()
	var err error
	if s.Lease != nil && s.Cfg.EnableLeases {
		err = s.Lease(ctx, run)
	} else {
		err = run(ctx)
	}
	if errors.Is(err, store.ErrLockHeld) {
		l.Info().Msg("digest lock held elsewhere, clean skip")
		return dom.Report{Skipped: true}, nil
	}
	if err != nil {
		return rep, err
	}
	l.Info().
		Int("projects", rep.Projects).
		Int("failed", rep.Failed).
		Dur("took", time.Since(start)).
		Msg("daily summaries written")
	return rep, nil
}

// Every runs a pass now and then once per interval until ctx is done
func (s *Service) Every(ctx context.Context, every time.Duration, project int64) error {
	if every <= 0 {
		return errors.New("digest: interval must be positive")
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		if _, err := s.RunOnce(ctx, project); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.C(ctx).Error().Err(err).Str("component", "digest").Msg("digest pass failed")
		}
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}
