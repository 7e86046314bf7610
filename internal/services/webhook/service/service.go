// Package service signs and posts submission events to project webhooks
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"datapulse/internal/platform/logger"
	"datapulse/internal/platform/metrics"
	dom "datapulse/internal/services/webhook/domain"
)

// UserAgent identifies deliveries to receivers
const UserAgent = "DataPulse-Webhook/1.0"

// tsLayout is RFC3339 with milliseconds, always rendered in UTC
const tsLayout = "2006-01-02T15:04:05.000Z07:00"

// MaxTimeout bounds a single delivery attempt; longer settings are clamped
const MaxTimeout = 10 * time.Second

// Config controls deliveries
type Config struct {
	Secret  string
	Timeout time.Duration
}

// Svc posts signed envelopes
type Svc struct {
	cfg     Config
	client  *http.Client
	metrics *metrics.Metrics
}

var _ dom.DispatchPort = (*Svc)(nil)

// New constructs the dispatcher; client and m may be nil
func New(cfg Config, client *http.Client, m *metrics.Metrics) *Svc {
	if cfg.Timeout <= 0 || cfg.Timeout > MaxTimeout {
		cfg.Timeout = MaxTimeout
	}
	if client == nil {
		client = &http.Client{}
	}
	return &Svc{cfg: cfg, client: client, metrics: m}
}

type envelope struct {
	Event     string          `json:"event"`
	Project   projectRef      `json:"project"`
	Data      json.RawMessage `json:"data"`
	Timestamp string          `json:"timestamp"`
}

type projectRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Body renders the signed envelope for ev
func Body(ev dom.Event) ([]byte, error) {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	data := ev.Data
	if len(data) == 0 {
		data = json.RawMessage("null")
	}
	return json.Marshal(envelope{
		Event:     dom.EventSubmissionCreated,
		Project:   projectRef{ID: ev.ProjectID, Name: ev.ProjectName},
		Data:      data,
		Timestamp: at.UTC().Format(tsLayout),
	})
}

// Dispatch posts ev to its URL; an empty URL is a no-op
// Non 2xx answers and timeouts are returned for the caller to log
func (s *Svc) Dispatch(ctx context.Context, ev dom.Event) error {
	if ev.URL == "" {
		return nil
	}
	log := logger.C(ctx).With().
		Str("component", "webhook").
		Int64("project_id", ev.ProjectID).
		Str("url", ev.URL).
		Logger()

	body, err := Body(ev)
	if err != nil {
		return fmt.Errorf("webhook: encode: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ev.URL, bytes.NewReader(body))
	if err != nil {
		s.metrics.Delivery("webhook", "error")
		return fmt.Errorf("webhook: request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set(SignatureHeader, Sign([]byte(s.cfg.Secret), body))

	log.Debug().Msg("webhook dispatch")
	resp, err := s.client.Do(req)
	if err != nil {
		status := "error"
		if ctx.Err() == context.DeadlineExceeded {
			status = "timeout"
		}
		s.metrics.Delivery("webhook", status)
		return fmt.Errorf("webhook: post: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.metrics.Delivery("webhook", "rejected")
		return fmt.Errorf("webhook: receiver answered %d", resp.StatusCode)
	}
	s.metrics.Delivery("webhook", "ok")
	log.Info().Int("status", resp.StatusCode).Msg("webhook delivered")
	return nil
}
