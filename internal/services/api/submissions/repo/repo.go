// Package repo provides postgres access for stored submissions
package repo

import (
	"context"
	"encoding/json"
	"time"

	"datapulse/internal/modkit/repokit"
	"datapulse/internal/platform/store"
	"datapulse/internal/services/api/submissions/domain"
)

// NewSubmission is the row ingest writes
type NewSubmission struct {
	ID        string
	ProjectID int64
	Data      []byte
	Metadata  []byte
}

// Repo is the persistence surface for submissions
type Repo interface {
	// Insert stores an unprocessed submission and returns its created_at
	Insert(ctx context.Context, s NewSubmission) (time.Time, error)
	// List returns submissions of projectIDs newest first with tags and insights
	List(ctx context.Context, projectIDs []int64, limit, offset int) ([]domain.Submission, error)
	// Count returns how many submissions projectIDs hold
	Count(ctx context.Context, projectIDs []int64) (int64, error)
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

func (r *queries) Insert(ctx context.Context, s NewSubmission) (time.Time, error) {
	const sql = `
insert into submissions (id, project_id, data, metadata, processed, is_duplicate)
values ($1::uuid, $2, $3::jsonb, $4::jsonb, false, false)
returning created_at
`
	return store.Scalar[time.Time](ctx, r.q, sql, s.ID, s.ProjectID, string(s.Data), string(s.Metadata))
}

func (r *queries) List(ctx context.Context, projectIDs []int64, limit, offset int) ([]domain.Submission, error) {
	const sql = `
select s.id::text, s.project_id, s.data::text, s.metadata::text, s.created_at,
       s.processed, s.is_duplicate, s.duplicate_of::text,
       coalesce((select json_agg(json_build_object('tag', t.tag, 'confidence', t.confidence) order by t.id)
                 from submission_tags t where t.submission_id = s.id), '[]')::text,
       coalesce((select json_agg(json_build_object('type', i.type, 'message', i.message, 'metadata', i.metadata) order by i.id)
                 from submission_insights i where i.submission_id = s.id), '[]')::text
from submissions s
where s.project_id = any($1)
order by s.created_at desc, s.id desc
limit $2 offset $3
`
	return store.Many(ctx, r.q, scanSubmission, sql, projectIDs, limit, offset)
}

func scanSubmission(row store.Row) (domain.Submission, error) {
	var (
		s                          domain.Submission
		data, meta, tags, insights string
	)
	if err := row.Scan(&s.ID, &s.ProjectID, &data, &meta, &s.CreatedAt,
		&s.Processed, &s.IsDuplicate, &s.DuplicateOf, &tags, &insights); err != nil {
		return s, err
	}
	s.Data = json.RawMessage(data)
	if err := json.Unmarshal([]byte(meta), &s.Metadata); err != nil {
		return s, err
	}
	if err := json.Unmarshal([]byte(tags), &s.Tags); err != nil {
		return s, err
	}
	if err := json.Unmarshal([]byte(insights), &s.Insights); err != nil {
		return s, err
	}
	return s, nil
}

func (r *queries) Count(ctx context.Context, projectIDs []int64) (int64, error) {
	return store.Scalar[int64](ctx, r.q, `select count(*) from submissions where project_id = any($1)`, projectIDs)
}
