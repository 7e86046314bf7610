// Package domain defines the per submission intelligence pass
package domain

import (
	"context"
	"encoding/json"
	"time"
)

// Subject is the freshly stored submission to analyze
type Subject struct {
	ID        string
	ProjectID int64
	Data      json.RawMessage
	CreatedAt time.Time
}

// ProcessPort runs duplicate detection, tagging and insights for one submission
type ProcessPort interface {
	Process(ctx context.Context, sub Subject) error
}
