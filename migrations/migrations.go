// Package migrations embeds the postgres schema and applies it in order
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"datapulse/internal/platform/logger"
	"datapulse/internal/platform/store"
)

//go:embed *.sql
var files embed.FS

const ledger = `
create table if not exists schema_migrations (
	version    text primary key,
	applied_at timestamptz not null default now()
)`

// Versions lists the embedded migration files in apply order
func Versions() ([]string, error) {
	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// Apply runs every embedded migration not yet recorded in schema_migrations
// Each file runs in its own transaction under an advisory lock so concurrent
// boots apply it once
func Apply(ctx context.Context, db store.TxRunner) error {
	if _, err := db.Exec(ctx, ledger); err != nil {
		return fmt.Errorf("migrations: ledger: %w", err)
	}
	names, err := Versions()
	if err != nil {
		return fmt.Errorf("migrations: list: %w", err)
	}
	log := logger.Named("migrations")
	key := store.LockKey("datapulse:migrations")

	for _, name := range names {
		body, err := files.ReadFile(name)
		if err != nil {
			return fmt.Errorf("migrations: read %s: %w", name, err)
		}
		version := strings.TrimSuffix(name, ".sql")
		applied := false
		err = db.Tx(ctx, func(q store.RowQuerier) error {
			if _, err := q.Exec(ctx, `select pg_advisory_xact_lock($1)`, key); err != nil {
				return err
			}
			done, err := store.Scalar[bool](ctx, q, `select exists(select 1 from schema_migrations where version = $1)`, version)
			if err != nil || done {
				return err
			}
			if _, err := q.Exec(ctx, string(body)); err != nil {
				return err
			}
			if _, err := q.Exec(ctx, `insert into schema_migrations (version) values ($1)`, version); err != nil {
				return err
			}
			applied = true
			return nil
		})
		if err != nil {
			return fmt.Errorf("migrations: apply %s: %w", name, err)
		}
		if applied {
			log.Info().Str("version", version).Msg("migration applied")
		}
	}
	return nil
}
