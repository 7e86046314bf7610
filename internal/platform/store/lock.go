package store

import (
	"context"
	"hash/fnv"

	perr "datapulse/internal/platform/errors"
)

// ErrLockHeld is returned when another session owns the advisory lock
var ErrLockHeld = perr.New(perr.ErrorCodeConflict, "advisory lock held by another session")

// LockKey maps a job name onto the bigint keyspace of pg advisory locks
func LockKey(name string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return int64(h.Sum64())
}

// WithAdvisoryLock runs fn inside a transaction holding pg_try_advisory_xact_lock(key)
// The lock is released when the transaction ends; contention yields ErrLockHeld without running fn
func WithAdvisoryLock(ctx context.Context, tx TxRunner, key int64, fn func(ctx context.Context, q RowQuerier) error) error {
	return tx.Tx(ctx, func(q RowQuerier) error {
		var ok bool
		if err := q.QueryRow(ctx, "SELECT pg_try_advisory_xact_lock($1)", key).Scan(&ok); err != nil {
			return perr.FromPostgres(err, "advisory lock")
		}
		if !ok {
			return ErrLockHeld
		}
		return fn(ctx, q)
	})
}
