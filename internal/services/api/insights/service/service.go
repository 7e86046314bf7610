// Package service computes dashboard summaries, trends and filter suggestions
package service

import (
	"context"
	"encoding/json"
	"time"

	"datapulse/internal/core/trend"
	"datapulse/internal/modkit/repokit"
	perr "datapulse/internal/platform/errors"
	"datapulse/internal/platform/logger"
	ptime "datapulse/internal/platform/time"
	"datapulse/internal/services/api/insights/domain"
	"datapulse/internal/services/api/insights/repo"
	projects "datapulse/internal/services/projects/domain"
)

// Service defines the insights service contract
type Service interface {
	domain.ServicePort
	domain.DigestPort
}

// Svc implements the insights service
type Svc struct {
	Repo     repo.Repo
	binder   repokit.Binder[repo.Repo]
	db       repokit.TxRunner
	projects projects.LookupPort
	now      func() time.Time
}

var _ Service = (*Svc)(nil)

// New constructs an insights service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], lookup projects.LookupPort) *Svc {
	if db == nil {
		panic("insights.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("insights.Service requires a non nil Repo binder")
	}
	if lookup == nil {
		panic("insights.Service requires a project lookup port")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db, projects: lookup, now: time.Now}
}

// Summary returns today's stored summary, computing one without saving it when none exists
func (s *Svc) Summary(ctx context.Context, userID string, projectID int64) (domain.Summary, error) {
	if _, err := s.projects.Owned(ctx, userID, projectID); err != nil {
		return domain.Summary{}, err
	}
	now := s.now()
	raw, err := s.Repo.Saved(ctx, projectID, domain.PeriodDaily, ptime.StartOfDay(now))
	switch {
	case err == nil:
		var sum domain.Summary
		uerr := json.Unmarshal(raw, &sum)
		if uerr == nil {
			return sum, nil
		}
		logger.C(ctx).Warn().Err(uerr).Int64("project_id", projectID).Msg("stored summary unreadable, recomputing")
	case !perr.IsCode(err, perr.ErrorCodeNotFound):
		return domain.Summary{}, perr.FromPostgres(err, "read summary")
	}
	return s.compute(ctx, projectID, now)
}

// Trends computes volume and keyword trends fresh
func (s *Svc) Trends(ctx context.Context, userID string, projectID int64) ([]trend.Trend, error) {
	if _, err := s.projects.Owned(ctx, userID, projectID); err != nil {
		return nil, err
	}
	trends, _, err := s.trends(ctx, projectID, s.now())
	return trends, err
}

// Suggestions returns the fixed time chips plus one chip per tag seen in the last day
func (s *Svc) Suggestions(ctx context.Context, userID string, projectID int64) ([]domain.Suggestion, error) {
	if _, err := s.projects.Owned(ctx, userID, projectID); err != nil {
		return nil, err
	}
	since, _ := ptime.Window(s.now(), ptime.Day)
	counts, err := s.Repo.TagCounts(ctx, projectID, since)
	if err != nil {
		return nil, perr.FromPostgres(err, "count tags")
	}
	return Suggestions(counts), nil
}

// GenerateDaily computes the summary and overwrites today's row
func (s *Svc) GenerateDaily(ctx context.Context, projectID int64) (domain.Summary, error) {
	now := s.now()
	sum, err := s.compute(ctx, projectID, now)
	if err != nil {
		return sum, err
	}
	raw, err := json.Marshal(sum)
	if err != nil {
		return sum, perr.Wrapf(err, perr.ErrorCodeUnknown, "encode summary")
	}
	if err := s.Repo.Upsert(ctx, projectID, domain.PeriodDaily, ptime.StartOfDay(now), raw); err != nil {
		return sum, perr.FromPostgres(err, "save summary")
	}
	return sum, nil
}

func (s *Svc) compute(ctx context.Context, projectID int64, now time.Time) (domain.Summary, error) {
	total, err := s.Repo.Total(ctx, projectID)
	if err != nil {
		return domain.Summary{}, perr.FromPostgres(err, "count submissions")
	}
	trends, vol, err := s.trends(ctx, projectID, now)
	if err != nil {
		return domain.Summary{}, err
	}
	return Compose(total, vol.recent, vol.tags, trends), nil
}

type volume struct {
	recent int64
	tags   []domain.TagCount
}

// trends reads the two trailing day windows and the recent tag counts
func (s *Svc) trends(ctx context.Context, projectID int64, now time.Time) ([]trend.Trend, volume, error) {
	mid, to := ptime.Window(now, ptime.Day)
	from := mid.Add(-ptime.Day)

	recent, previous, err := s.Repo.Volume(ctx, projectID, from, mid, to)
	if err != nil {
		return nil, volume{}, perr.FromPostgres(err, "count volume")
	}
	tags, err := s.Repo.TagCounts(ctx, projectID, mid)
	if err != nil {
		return nil, volume{}, perr.FromPostgres(err, "count tags")
	}
	counts := make(map[string]int64, len(tags))
	for _, tc := range tags {
		counts[tc.Tag] = tc.Count
	}

	out := append([]trend.Trend{}, trend.Volume(recent, previous)...)
	out = append(out, trend.Keywords(counts)...)
	return out, volume{recent: recent, tags: tags}, nil
}
