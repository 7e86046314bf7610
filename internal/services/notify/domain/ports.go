// Package domain defines owner notifications
package domain

import (
	"context"
	"encoding/json"

	projects "datapulse/internal/services/projects/domain"
)

// Message is one outbound email
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers a composed message
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// NotifyPort tells project owners about new submissions
type NotifyPort interface {
	// SubmissionReceived mails owner unless their preferences opt out
	SubmissionReceived(ctx context.Context, owner projects.Owner, projectName string, data json.RawMessage) error
}
