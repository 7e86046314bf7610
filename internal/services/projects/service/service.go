// Package service resolves projects and owners with a short lived api key cache
package service

import (
	"context"
	"strings"
	"time"

	"datapulse/internal/modkit/repokit"
	perr "datapulse/internal/platform/errors"
	"datapulse/internal/services/projects/domain"
	"datapulse/internal/services/projects/repo"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Service defines the projects service contract
type Service interface {
	domain.LookupPort
}

// Config controls lookups
type Config struct {
	// KeyCacheTTL is how long an api key resolution is reused, 0 disables the cache
	KeyCacheTTL time.Duration
}

// Svc implements the projects service
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	keys   *cache.Cache
}

var _ Service = (*Svc)(nil)

// New constructs a projects service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], cfg Config) *Svc {
	if db == nil {
		panic("projects.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("projects.Service requires a non nil Repo binder")
	}
	s := &Svc{Repo: binder.Bind(db), binder: binder, db: db}
	if cfg.KeyCacheTTL > 0 {
		s.keys = cache.New(cfg.KeyCacheTTL, 2*cfg.KeyCacheTTL)
	}
	return s
}

// ByAPIKey resolves a project by its public api key
// Keys that are not UUIDs never reach the database
func (s *Svc) ByAPIKey(ctx context.Context, apiKey string) (domain.Project, error) {
	key, err := uuid.Parse(strings.TrimSpace(apiKey))
	if err != nil {
		return domain.Project{}, perr.NotFoundf("Invalid API Key")
	}
	norm := key.String()
	if s.keys != nil {
		if v, ok := s.keys.Get(norm); ok {
			return v.(domain.Project), nil
		}
	}
	p, err := s.Repo.ByAPIKey(ctx, norm)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return domain.Project{}, perr.NotFoundf("Invalid API Key")
		}
		return domain.Project{}, perr.FromPostgres(err, "lookup project")
	}
	if s.keys != nil {
		s.keys.SetDefault(norm, p)
	}
	return p, nil
}

// Forget drops the cached resolution of apiKey
// Writers call it when the project behind a cached key has gone away
func (s *Svc) Forget(apiKey string) {
	if s.keys == nil {
		return
	}
	if key, err := uuid.Parse(strings.TrimSpace(apiKey)); err == nil {
		s.keys.Delete(key.String())
	}
}

// Owned returns the project when userID owns it
// Missing and foreign projects yield the same not found error
func (s *Svc) Owned(ctx context.Context, userID string, projectID int64) (domain.Project, error) {
	if userID == "" {
		return domain.Project{}, perr.Unauthorizedf("Unauthorized")
	}
	p, err := s.Repo.ByID(ctx, projectID)
	if err != nil && !perr.IsCode(err, perr.ErrorCodeNotFound) {
		return domain.Project{}, perr.FromPostgres(err, "lookup project")
	}
	if err != nil || p.OwnerID != userID {
		return domain.Project{}, perr.NotFoundf("Project not found or access denied")
	}
	return p, nil
}

// ListOwned returns the projects userID owns
func (s *Svc) ListOwned(ctx context.Context, userID string) ([]domain.Project, error) {
	if userID == "" {
		return nil, perr.Unauthorizedf("Unauthorized")
	}
	ps, err := s.Repo.ByOwner(ctx, userID)
	if err != nil {
		return nil, perr.FromPostgres(err, "list projects")
	}
	return ps, nil
}

// Owner returns the owner of projectID
func (s *Svc) Owner(ctx context.Context, projectID int64) (domain.Owner, error) {
	o, err := s.Repo.OwnerOf(ctx, projectID)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return o, err
		}
		return o, perr.FromPostgres(err, "lookup owner")
	}
	return o, nil
}

// All returns every project id
func (s *Svc) All(ctx context.Context) ([]int64, error) {
	ids, err := s.Repo.IDs(ctx)
	if err != nil {
		return nil, perr.FromPostgres(err, "list project ids")
	}
	return ids, nil
}
