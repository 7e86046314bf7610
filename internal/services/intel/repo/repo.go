// Package repo provides postgres access for the intelligence pass
package repo

import (
	"context"
	"encoding/json"
	"time"

	"datapulse/internal/core/tagger"
	"datapulse/internal/modkit/repokit"
	"datapulse/internal/platform/store"
)

// Repo is the persistence surface for the intelligence pass
type Repo interface {
	// FirstMatch returns the oldest submission of the project in [since, before)
	// whose stored payload equals the stored payload of id, or "" when none
	FirstMatch(ctx context.Context, projectID int64, id string, since, before time.Time) (string, error)
	MarkDuplicate(ctx context.Context, id, duplicateOf string) error
	InsertTags(ctx context.Context, id string, tags []tagger.Tag) error
	InsertInsights(ctx context.Context, id string, insights []tagger.Insight) error
	MarkProcessed(ctx context.Context, id string) error
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

// FirstMatch compares jsonb values, so key order, whitespace and number
// spelling (1e2 vs 100, -0 vs 0) do not matter
func (r *queries) FirstMatch(ctx context.Context, projectID int64, id string, since, before time.Time) (string, error) {
	const sql = `
select s.id::text
from submissions s
join submissions cur on cur.id = $2::uuid
where s.project_id = $1
  and s.id <> cur.id
  and s.created_at >= $3
  and s.created_at < $4
  and s.data = cur.data
order by s.created_at asc, s.id asc
limit 1
`
	ids, err := store.Many(ctx, r.q, func(row store.Row) (string, error) {
		var id string
		err := row.Scan(&id)
		return id, err
	}, sql, projectID, id, since, before)
	if err != nil || len(ids) == 0 {
		return "", err
	}
	return ids[0], nil
}

func (r *queries) MarkDuplicate(ctx context.Context, id, duplicateOf string) error {
	return store.ExecOne(ctx, r.q,
		`update submissions set is_duplicate = true, duplicate_of = $2::uuid where id = $1::uuid`,
		id, duplicateOf)
}

func (r *queries) InsertTags(ctx context.Context, id string, tags []tagger.Tag) error {
	for _, t := range tags {
		if _, err := r.q.Exec(ctx,
			`insert into submission_tags (submission_id, tag, confidence) values ($1::uuid, $2, $3)`,
			id, t.Tag, t.Confidence); err != nil {
			return err
		}
	}
	return nil
}

func (r *queries) InsertInsights(ctx context.Context, id string, insights []tagger.Insight) error {
	for _, in := range insights {
		var meta []byte
		if len(in.Metadata) > 0 {
			b, err := json.Marshal(in.Metadata)
			if err != nil {
				return err
			}
			meta = b
		}
		if _, err := r.q.Exec(ctx,
			`insert into submission_insights (submission_id, type, message, metadata) values ($1::uuid, $2, $3, $4::jsonb)`,
			id, in.Type, in.Message, meta); err != nil {
			return err
		}
	}
	return nil
}

func (r *queries) MarkProcessed(ctx context.Context, id string) error {
	return store.ExecOne(ctx, r.q, `update submissions set processed = true where id = $1::uuid`, id)
}
