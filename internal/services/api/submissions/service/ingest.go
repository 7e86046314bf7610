package service

import (
	"context"
	"encoding/json"
	"strconv"

	"datapulse/internal/core/origin"
	"datapulse/internal/core/tagger"
	perr "datapulse/internal/platform/errors"
	"datapulse/internal/platform/logger"
	"datapulse/internal/services/api/submissions/domain"
	"datapulse/internal/services/api/submissions/repo"
	intel "datapulse/internal/services/intel/domain"
	projects "datapulse/internal/services/projects/domain"
	webhook "datapulse/internal/services/webhook/domain"

	"github.com/google/uuid"
)

// submission outcomes as counted by metrics
const (
	outcomeStored     = "stored"
	outcomeEmpty      = "empty"
	outcomeTooLarge   = "too_large"
	outcomeInvalidKey = "invalid_key"
	outcomeOrigin     = "rejected_origin"
	outcomeError      = "error"
)

// Ingest checks the payload, the api key and the origin, stores the
// submission and schedules its background work without waiting for it
func (s *Svc) Ingest(ctx context.Context, in domain.IngestRequest) (domain.Receipt, error) {
	if len(in.Payload) == 0 {
		s.deps.Metrics.Submission(outcomeEmpty)
		return domain.Receipt{}, perr.Validationf("Empty payload")
	}
	data, err := tagger.CanonicalValue(in.Payload)
	if err != nil {
		s.deps.Metrics.Submission(outcomeError)
		return domain.Receipt{}, perr.Wrapf(err, perr.ErrorCodeJSON, "payload is not encodable")
	}
	if len(data) > s.cfg.MaxPayload {
		s.deps.Metrics.Submission(outcomeTooLarge)
		return domain.Receipt{}, perr.TooLargef("Payload too large. Max 50KB allowed.")
	}

	p, err := s.deps.Projects.ByAPIKey(ctx, in.APIKey)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			s.deps.Metrics.Submission(outcomeInvalidKey)
		} else {
			s.deps.Metrics.Submission(outcomeError)
		}
		return domain.Receipt{}, err
	}
	ctx = logger.WithProject(ctx, strconv.FormatInt(p.ID, 10))

	if !origin.Allowed(p.AllowedOrigins, in.Origin, in.Referer) {
		s.deps.Metrics.Submission(outcomeOrigin)
		logger.C(ctx).Warn().
			Str("event", "auth_blocked").
			Str("origin", in.Origin).
			Str("referer", in.Referer).
			Msg("submission from unauthorized origin")
		return domain.Receipt{}, perr.Forbiddenf("Unauthorized origin")
	}

	meta, err := json.Marshal(in.Meta)
	if err != nil {
		s.deps.Metrics.Submission(outcomeError)
		return domain.Receipt{}, perr.Wrapf(err, perr.ErrorCodeUnknown, "encode metadata")
	}
	id := uuid.NewString()
	createdAt, err := s.Repo.Insert(ctx, repo.NewSubmission{
		ID:        id,
		ProjectID: p.ID,
		Data:      []byte(data),
		Metadata:  meta,
	})
	if perr.IsForeignKeyViolation(err) {
		// project deleted while its key was still cached
		s.deps.Projects.Forget(in.APIKey)
		s.deps.Metrics.Submission(outcomeInvalidKey)
		return domain.Receipt{}, perr.NotFoundf("Invalid API Key")
	}
	if err != nil {
		s.deps.Metrics.Submission(outcomeError)
		return domain.Receipt{}, perr.FromPostgres(err, "store submission")
	}
	s.deps.Metrics.Submission(outcomeStored)

	s.fanOut(ctx, p, intel.Subject{
		ID:        id,
		ProjectID: p.ID,
		Data:      json.RawMessage(data),
		CreatedAt: createdAt,
	})
	return domain.Receipt{Message: "Submission received", ID: id}, nil
}

// fanOut schedules webhook delivery, owner mail and the intelligence pass
// The three tasks are independent and unordered
func (s *Svc) fanOut(ctx context.Context, p projects.Project, sub intel.Subject) {
	if s.deps.Webhooks != nil && p.WebhookURL != "" {
		ev := webhook.Event{
			URL:         p.WebhookURL,
			ProjectID:   p.ID,
			ProjectName: p.Name,
			Data:        sub.Data,
			At:          s.now(),
		}
		s.deps.Runner.Submit(ctx, "webhook", func(ctx context.Context) error {
			return s.deps.Webhooks.Dispatch(ctx, ev)
		})
	}
	if s.deps.Notifier != nil {
		s.deps.Runner.Submit(ctx, "notify", func(ctx context.Context) error {
			owner, err := s.deps.Projects.Owner(ctx, p.ID)
			if err != nil {
				return err
			}
			return s.deps.Notifier.SubmissionReceived(ctx, owner, p.Name, sub.Data)
		})
	}
	if s.deps.Intel != nil {
		s.deps.Runner.Submit(ctx, "intel", func(ctx context.Context) error {
			return s.deps.Intel.Process(ctx, sub)
		})
	}
}
