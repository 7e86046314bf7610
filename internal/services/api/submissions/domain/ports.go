package domain

import "context"

// ServicePort is the submissions surface used by the HTTP layer
type ServicePort interface {
	// Ingest validates, stores and fans out one public submission
	Ingest(ctx context.Context, in IngestRequest) (Receipt, error)
	// ForProject lists a project the caller owns
	ForProject(ctx context.Context, userID string, projectID int64, q PageQuery) (Page, error)
	// ForUser lists across every project the caller owns
	ForUser(ctx context.Context, userID string, q PageQuery) (Page, error)
}
