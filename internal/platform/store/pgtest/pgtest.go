//go:build integration_pg

// Package pgtest starts a disposable postgres with the schema applied
package pgtest

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"datapulse/internal/platform/store"
	"datapulse/migrations"

	"github.com/rs/zerolog"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Start launches postgres:16-alpine, applies migrations and returns the open store
// The container and pool are released by t.Cleanup
func Start(t *testing.T) *store.Store {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	t.Cleanup(cancel)

	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "datapulse",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	mp, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to get mapped port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://postgres:postgres@%s:%s/datapulse?sslmode=disable", host, mp.Port())

	st, err := store.Open(ctx, store.Config{
		AppName: "datapulse-test",
		PG:      store.PGConfig{Enabled: true, URL: dsn, MaxConns: 8, ConnectRetries: 30, PingTimeout: 3 * time.Second},
	}, store.WithLogger(zerolog.New(io.Discard)))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	if err := migrations.Apply(ctx, st.PG); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return st
}

// SeedOwner inserts a user with notification flags and returns its id
func SeedOwner(t *testing.T, db store.TxRunner, id, email string, notify, unsubscribed bool) string {
	t.Helper()
	_, err := db.Exec(context.Background(),
		`insert into users (id, email, name, notify_new_submissions, unsubscribe_all) values ($1, $2, $3, $4, $5)`,
		id, email, "Owner "+id, notify, unsubscribed)
	if err != nil {
		t.Fatalf("seed owner: %v", err)
	}
	return id
}

// SeedProject inserts a project and returns its id
func SeedProject(t *testing.T, db store.TxRunner, ownerID, name, apiKey string, origins []string, webhook string) int64 {
	t.Helper()
	if origins == nil {
		origins = []string{}
	}
	id, err := store.Scalar[int64](context.Background(), db,
		`insert into projects (user_id, name, api_key, allowed_origins, webhook_url)
		 values ($1, $2, $3, to_jsonb($4::text[]), nullif($5, '')) returning id`,
		ownerID, name, apiKey, origins, webhook)
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return id
}
