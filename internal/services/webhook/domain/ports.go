// Package domain defines outbound webhook delivery
package domain

import (
	"context"
	"encoding/json"
	"time"
)

// EventSubmissionCreated is the only event the core emits
const EventSubmissionCreated = "submission.created"

// Event is one submission to announce to a project webhook
type Event struct {
	URL         string
	ProjectID   int64
	ProjectName string
	Data        json.RawMessage
	At          time.Time
}

// DispatchPort delivers events, best effort and without retries
type DispatchPort interface {
	Dispatch(ctx context.Context, ev Event) error
}
