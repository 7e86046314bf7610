// Package service composes and sends owner notifications
package service

import (
	"context"
	"encoding/json"

	"datapulse/internal/platform/logger"
	"datapulse/internal/platform/metrics"
	dom "datapulse/internal/services/notify/domain"
	projects "datapulse/internal/services/projects/domain"
)

// Svc implements NotifyPort over a Mailer
type Svc struct {
	mailer  dom.Mailer
	metrics *metrics.Metrics
}

var _ dom.NotifyPort = (*Svc)(nil)

// New constructs the notifier; a nil mailer logs instead of sending
func New(mailer dom.Mailer, m *metrics.Metrics) *Svc {
	if mailer == nil {
		mailer = LogMailer{}
	}
	return &Svc{mailer: mailer, metrics: m}
}

// SubmissionReceived mails the owner about a new submission
func (s *Svc) SubmissionReceived(ctx context.Context, owner projects.Owner, projectName string, data json.RawMessage) error {
	if !owner.WantsSubmissionMail() {
		return nil
	}
	msg := ComposeSubmission(owner.Email, projectName, data)
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.metrics.Delivery("email", "error")
		return err
	}
	s.metrics.Delivery("email", "ok")
	return nil
}

// LogMailer stands in when no SMTP transport is configured
type LogMailer struct{}

// Send logs the would be message
func (LogMailer) Send(ctx context.Context, m dom.Message) error {
	logger.C(ctx).Info().
		Str("component", "notify").
		Str("to", m.To).
		Str("subject", m.Subject).
		Msg("email transport not configured, message not sent")
	return nil
}
