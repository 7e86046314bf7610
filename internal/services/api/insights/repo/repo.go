// Package repo provides postgres reads for insights and summary persistence
package repo

import (
	"context"
	"time"

	"datapulse/internal/modkit/repokit"
	"datapulse/internal/platform/store"
	"datapulse/internal/services/api/insights/domain"
)

// dateLayout renders summary dates so the session time zone never shifts them
const dateLayout = "2006-01-02"

// Repo is the persistence surface for insights
type Repo interface {
	// Total counts every submission of the project
	Total(ctx context.Context, projectID int64) (int64, error)
	// Volume counts submissions in [mid, to) and [from, mid)
	Volume(ctx context.Context, projectID int64, from, mid, to time.Time) (recent, previous int64, err error)
	// TagCounts counts submissions per tag created at or after since, busiest first then by tag
	TagCounts(ctx context.Context, projectID int64, since time.Time) ([]domain.TagCount, error)
	// Saved returns the raw stored summary, perr.ErrNotFound when absent
	Saved(ctx context.Context, projectID int64, period string, day time.Time) ([]byte, error)
	// Upsert writes the summary, replacing any row for the same day
	Upsert(ctx context.Context, projectID int64, period string, day time.Time, summary []byte) error
}

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements the Repo interface
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func (r *queries) Total(ctx context.Context, projectID int64) (int64, error) {
	return store.Scalar[int64](ctx, r.q, `select count(*) from submissions where project_id = $1`, projectID)
}

func (r *queries) Volume(ctx context.Context, projectID int64, from, mid, to time.Time) (int64, int64, error) {
	const sql = `
select count(*) filter (where created_at >= $3),
       count(*) filter (where created_at < $3)
from submissions
where project_id = $1
  and created_at >= $2
  and created_at < $4
`
	var recent, previous int64
	err := r.q.QueryRow(ctx, sql, projectID, from, mid, to).Scan(&recent, &previous)
	return recent, previous, err
}

func (r *queries) TagCounts(ctx context.Context, projectID int64, since time.Time) ([]domain.TagCount, error) {
	const sql = `
select t.tag, count(distinct t.submission_id)
from submission_tags t
join submissions s on s.id = t.submission_id
where s.project_id = $1
  and s.created_at >= $2
group by t.tag
order by 2 desc, 1 asc
`
	return store.Many(ctx, r.q, func(row store.Row) (domain.TagCount, error) {
		var tc domain.TagCount
		err := row.Scan(&tc.Tag, &tc.Count)
		return tc, err
	}, sql, projectID, since)
}

func (r *queries) Saved(ctx context.Context, projectID int64, period string, day time.Time) ([]byte, error) {
	const sql = `select summary::text from project_summaries where project_id = $1 and period = $2 and date = $3::date`
	return store.One(ctx, r.q, func(row store.Row) ([]byte, error) {
		var s string
		err := row.Scan(&s)
		return []byte(s), err
	}, sql, projectID, period, day.UTC().Format(dateLayout))
}

func (r *queries) Upsert(ctx context.Context, projectID int64, period string, day time.Time, summary []byte) error {
	const sql = `
insert into project_summaries (project_id, period, date, summary)
values ($1, $2, $3::date, $4::jsonb)
on conflict (project_id, period, date)
do update set summary = excluded.summary, updated_at = now()
`
	return store.ExecOne(ctx, r.q, sql, projectID, period, day.UTC().Format(dateLayout), string(summary))
}
