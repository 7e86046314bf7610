package domain

import (
	"context"

	"datapulse/internal/core/trend"
)

// ServicePort is the insights surface used by the HTTP layer
// Every call checks that userID owns projectID
type ServicePort interface {
	Summary(ctx context.Context, userID string, projectID int64) (Summary, error)
	Trends(ctx context.Context, userID string, projectID int64) ([]trend.Trend, error)
	Suggestions(ctx context.Context, userID string, projectID int64) ([]Suggestion, error)
}

// DigestPort computes and persists daily summaries for batch jobs
type DigestPort interface {
	// GenerateDaily overwrites today's summary row for projectID
	GenerateDaily(ctx context.Context, projectID int64) (Summary, error)
}
