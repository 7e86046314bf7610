// Package service runs the intelligence pass over a stored submission
package service

import (
	"context"
	"time"

	"datapulse/internal/core/tagger"
	"datapulse/internal/modkit/repokit"
	"datapulse/internal/platform/logger"
	ptime "datapulse/internal/platform/time"
	dom "datapulse/internal/services/intel/domain"
	"datapulse/internal/services/intel/repo"
)

// Svc implements ProcessPort
type Svc struct {
	Repo       repo.Repo
	binder     repokit.Binder[repo.Repo]
	db         repokit.TxRunner
	classifier *tagger.Classifier
	now        func() time.Time
}

var _ dom.ProcessPort = (*Svc)(nil)

// New constructs the service; a nil classifier uses the embedded keyword table
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], c *tagger.Classifier) *Svc {
	if db == nil {
		panic("intel.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("intel.Service requires a non nil Repo binder")
	}
	if c == nil {
		c = tagger.Default()
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db, classifier: c, now: time.Now}
}

// Process flags duplicates, stores tags and insights, then marks the submission processed
// Step failures are logged and do not stop later steps
func (s *Svc) Process(ctx context.Context, sub dom.Subject) error {
	log := logger.C(ctx).With().
		Str("component", "intel").
		Str("submission_id", sub.ID).
		Int64("project_id", sub.ProjectID).
		Logger()

	if dup, err := s.duplicateOf(ctx, sub); err != nil {
		log.Error().Err(err).Msg("duplicate detection failed")
	} else if dup != "" {
		log.Info().Str("duplicate_of", dup).Msg("duplicate submission")
	}

	canon, err := tagger.Canonical(sub.Data)
	if err != nil {
		log.Error().Err(err).Msg("payload not canonicalizable, skipping classification")
	} else {
		res := s.classifier.Classify(canon)
		if err := s.store(ctx, sub.ID, res); err != nil {
			log.Error().Err(err).Msg("storing tags and insights failed")
		} else if len(res.Tags) > 0 || len(res.Insights) > 0 {
			log.Debug().Int("tags", len(res.Tags)).Int("insights", len(res.Insights)).Msg("submission classified")
		}
	}

	if err := s.Repo.MarkProcessed(ctx, sub.ID); err != nil {
		log.Error().Err(err).Msg("mark processed failed")
		return err
	}
	return nil
}

// duplicateOf flags sub when an earlier submission in the trailing day has
// an equal stored payload; the oldest match wins
func (s *Svc) duplicateOf(ctx context.Context, sub dom.Subject) (string, error) {
	since, _ := ptime.Window(s.now(), ptime.Day)
	before := sub.CreatedAt
	if before.IsZero() {
		before = s.now()
	}
	match, err := s.Repo.FirstMatch(ctx, sub.ProjectID, sub.ID, since, before)
	if err != nil || match == "" {
		return "", err
	}
	if err := s.Repo.MarkDuplicate(ctx, sub.ID, match); err != nil {
		return "", err
	}
	return match, nil
}

func (s *Svc) store(ctx context.Context, id string, res tagger.Result) error {
	if len(res.Tags) == 0 && len(res.Insights) == 0 {
		return nil
	}
	return repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		if err := r.InsertTags(ctx, id, res.Tags); err != nil {
			return err
		}
		return r.InsertInsights(ctx, id, res.Insights)
	})
}
