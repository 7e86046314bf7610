// Package domain defines the daily digest batch job
package domain

import (
	"context"
	"time"
)

// Report summarizes one digest pass
type Report struct {
	Projects int
	Failed   int
	// Skipped is true when another process held the digest lock
	Skipped bool
}

// RunnerPort drives digest passes
type RunnerPort interface {
	// RunOnce writes today's summary for project, or for every project when project is 0
	RunOnce(ctx context.Context, project int64) (Report, error)
	// Every repeats RunOnce on an interval until ctx is done
	Every(ctx context.Context, every time.Duration, project int64) error
}
