// Package repo provides postgres access for projects and their owners
package repo

import (
	"context"
	"encoding/json"

	"datapulse/internal/modkit/repokit"
	"datapulse/internal/platform/store"
	"datapulse/internal/services/projects/domain"
)

// Repo is the persistence surface for projects
type Repo interface {
	ByAPIKey(ctx context.Context, apiKey string) (domain.Project, error)
	ByID(ctx context.Context, id int64) (domain.Project, error)
	ByOwner(ctx context.Context, userID string) ([]domain.Project, error)
	OwnerOf(ctx context.Context, projectID int64) (domain.Owner, error)
	IDs(ctx context.Context) ([]int64, error)
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

const projectCols = `id, user_id, name, api_key::text, allowed_origins, coalesce(webhook_url, '')`

func scanProject(r store.Row) (domain.Project, error) {
	var (
		p       domain.Project
		origins []byte
	)
	if err := r.Scan(&p.ID, &p.OwnerID, &p.Name, &p.APIKey, &origins, &p.WebhookURL); err != nil {
		return p, err
	}
	if len(origins) > 0 {
		if err := json.Unmarshal(origins, &p.AllowedOrigins); err != nil {
			return p, err
		}
	}
	return p, nil
}

func (r *queries) ByAPIKey(ctx context.Context, apiKey string) (domain.Project, error) {
	return store.One(ctx, r.q, scanProject, `select `+projectCols+` from projects where api_key = $1::uuid`, apiKey)
}

func (r *queries) ByID(ctx context.Context, id int64) (domain.Project, error) {
	return store.One(ctx, r.q, scanProject, `select `+projectCols+` from projects where id = $1`, id)
}

func (r *queries) ByOwner(ctx context.Context, userID string) ([]domain.Project, error) {
	return store.Many(ctx, r.q, scanProject, `select `+projectCols+` from projects where user_id = $1 order by id`, userID)
}

func (r *queries) OwnerOf(ctx context.Context, projectID int64) (domain.Owner, error) {
	const sql = `
select u.id, u.email, coalesce(u.name, ''), coalesce(u.organization, ''),
       u.notify_new_submissions, u.notify_monthly_analytics, u.unsubscribe_all
from projects p
join users u on u.id = p.user_id
where p.id = $1
`
	return store.One(ctx, r.q, func(row store.Row) (domain.Owner, error) {
		var o domain.Owner
		err := row.Scan(&o.ID, &o.Email, &o.Name, &o.Organization,
			&o.NotifyNewSubmissions, &o.NotifyMonthlyAnalytics, &o.UnsubscribeAll)
		return o, err
	}, sql, projectID)
}

func (r *queries) IDs(ctx context.Context) ([]int64, error) {
	return store.Many(ctx, r.q, func(row store.Row) (int64, error) {
		var id int64
		err := row.Scan(&id)
		return id, err
	}, `select id from projects order by id`)
}
