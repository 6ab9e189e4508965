// Package score wraps the external semantic-judgment collaborator with error
// containment: one item's failure never aborts the batch, and failed items
// fall back to their deterministic score so they still rank and report.
package score

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/kgrajski/neurotech-newshound/internal/record"
)

// AlertThreshold is the score at or above which an item enters the alert set.
const AlertThreshold = 9

// Judgment is the structured output of one semantic assessment.
type Judgment struct {
	Score      int
	Category   string
	Assessment string
	Flagged    bool
}

// Assessor is the collaborator boundary: text in, structured judgment out.
// Any per-item failure surfaces as a single opaque error.
type Assessor interface {
	Assess(ctx context.Context, item record.ScopedRecord) (Judgment, error)
}

// Deterministic is the assessor used when no semantic collaborator is
// configured: it passes the pattern score through unchanged.
type Deterministic struct{}

func (Deterministic) Assess(_ context.Context, item record.ScopedRecord) (Judgment, error) {
	return Judgment{
		Score:      item.RegexScore,
		Category:   "unassessed",
		Assessment: "semantic scoring not configured, pattern score applied",
	}, nil
}

// Service fans the candidate set out to the assessor with bounded
// concurrency, then ranks the combined results.
type Service struct {
	assessor    Assessor
	concurrency int
	timeout     time.Duration
	logger      zerolog.Logger
}

func NewService(assessor Assessor, concurrency int, timeout time.Duration, logger zerolog.Logger) *Service {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Service{
		assessor:    assessor,
		concurrency: concurrency,
		timeout:     timeout,
		logger:      logger,
	}
}

// ScoreAll assesses every candidate and returns the full set sorted
// descending by score, plus one error string per failed item. Final order is
// by score, not completion order, so parallel calls need no coordination
// beyond waiting for all of them.
func (s *Service) ScoreAll(ctx context.Context, items []record.ScopedRecord) ([]record.ScoredRecord, []string) {
	if len(items) == 0 {
		return nil, nil
	}

	scored := make([]record.ScoredRecord, len(items))
	failures := make([]string, len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			scored[i], failures[i] = s.scoreOne(ctx, item)
			return nil
		})
	}
	// Workers never return errors; failures are contained per item.
	_ = g.Wait()

	var errs []string
	for _, msg := range failures {
		if msg != "" {
			errs = append(errs, msg)
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	s.logger.Info().
		Int("scored", len(scored)).
		Int("failures", len(errs)).
		Msg("semantic scoring completed")

	return scored, errs
}

func (s *Service) scoreOne(ctx context.Context, item record.ScopedRecord) (record.ScoredRecord, string) {
	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	judgment, err := s.assessor.Assess(callCtx, item)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("title", item.Title).
			Msg("semantic scoring failed, falling back to deterministic score")

		return record.ScoredRecord{
			ScopedRecord: item,
			Score:        item.RegexScore,
			Category:     record.ErrorCategory,
			Assessment:   "scoring failed: " + err.Error(),
		}, "score " + item.Hash + ": " + err.Error()
	}

	return record.ScoredRecord{
		ScopedRecord: item,
		Score:        clampScore(judgment.Score),
		Category:     judgment.Category,
		Assessment:   judgment.Assessment,
		Flagged:      judgment.Flagged,
	}, ""
}

// Alerts recomputes the alert subset from scratch. Never patched
// incrementally: any score change invalidates the previous set.
func Alerts(scored []record.ScoredRecord) []record.ScoredRecord {
	var alerts []record.ScoredRecord
	for _, item := range scored {
		if item.Score >= AlertThreshold {
			alerts = append(alerts, item)
		}
	}
	return alerts
}

func clampScore(score int) int {
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}
