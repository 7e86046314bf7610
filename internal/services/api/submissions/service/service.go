// Package service stores public submissions and serves the dashboard listing
package service

import (
	"context"
	"time"

	"datapulse/internal/modkit/repokit"
	perr "datapulse/internal/platform/errors"
	"datapulse/internal/platform/metrics"
	"datapulse/internal/services/api/submissions/domain"
	"datapulse/internal/services/api/submissions/repo"
	intel "datapulse/internal/services/intel/domain"
	notify "datapulse/internal/services/notify/domain"
	projects "datapulse/internal/services/projects/domain"
	tasks "datapulse/internal/services/tasks/domain"
	webhook "datapulse/internal/services/webhook/domain"
)

// Service defines the submissions service contract
type Service interface {
	domain.ServicePort
}

// DefaultMaxPayload is the largest serialized payload ingest accepts
const DefaultMaxPayload = 50000

// Config controls ingest
type Config struct {
	MaxPayload int
}

// Deps are the ports ingest fans out to; Webhooks, Notifier and Intel may be nil
type Deps struct {
	Projects projects.LookupPort
	Runner   tasks.RunnerPort
	Webhooks webhook.DispatchPort
	Notifier notify.NotifyPort
	Intel    intel.ProcessPort
	Metrics  *metrics.Metrics
}

// Svc implements the submissions service
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	deps   Deps
	cfg    Config
	now    func() time.Time
}

var _ Service = (*Svc)(nil)

// New constructs a submissions service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], deps Deps, cfg Config) *Svc {
	if db == nil {
		panic("submissions.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("submissions.Service requires a non nil Repo binder")
	}
	if deps.Projects == nil || deps.Runner == nil {
		panic("submissions.Service requires project lookup and task runner ports")
	}
	if cfg.MaxPayload <= 0 {
		cfg.MaxPayload = DefaultMaxPayload
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db, deps: deps, cfg: cfg, now: time.Now}
}

// ForProject lists one project the caller owns, newest first
func (s *Svc) ForProject(ctx context.Context, userID string, projectID int64, q domain.PageQuery) (domain.Page, error) {
	p, err := s.deps.Projects.Owned(ctx, userID, projectID)
	if err != nil {
		return domain.Page{}, err
	}
	return s.page(ctx, []int64{p.ID}, nil, q.Normalize())
}

// ForUser lists across every project the caller owns, naming the project on each item
func (s *Svc) ForUser(ctx context.Context, userID string, q domain.PageQuery) (domain.Page, error) {
	ps, err := s.deps.Projects.ListOwned(ctx, userID)
	if err != nil {
		return domain.Page{}, err
	}
	q = q.Normalize()
	if len(ps) == 0 {
		return domain.Page{Data: []domain.Submission{}, Limit: q.Limit, Offset: q.Offset}, nil
	}
	ids := make([]int64, 0, len(ps))
	names := make(map[int64]string, len(ps))
	for _, p := range ps {
		ids = append(ids, p.ID)
		names[p.ID] = p.Name
	}
	return s.page(ctx, ids, names, q)
}

func (s *Svc) page(ctx context.Context, ids []int64, names map[int64]string, q domain.PageQuery) (domain.Page, error) {
	rows, err := s.Repo.List(ctx, ids, q.Limit, q.Offset)
	if err != nil {
		return domain.Page{}, perr.FromPostgres(err, "list submissions")
	}
	total, err := s.Repo.Count(ctx, ids)
	if err != nil {
		return domain.Page{}, perr.FromPostgres(err, "count submissions")
	}
	if rows == nil {
		rows = []domain.Submission{}
	}
	if names != nil {
		for i := range rows {
			rows[i].ProjectName = names[rows[i].ProjectID]
		}
	}
	return domain.Page{Data: rows, Total: total, Limit: q.Limit, Offset: q.Offset}, nil
}
