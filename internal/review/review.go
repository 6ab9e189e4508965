// Package review applies reviewer-proposed score revisions and restores the
// ranking invariants afterward: full re-sort, alert set recomputed from
// scratch.
package review

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kgrajski/neurotech-newshound/internal/record"
	"github.com/kgrajski/neurotech-newshound/internal/score"
)

// Adjustment is one proposed score override, keyed by a title fragment.
type Adjustment struct {
	TitleSnippet  string
	AdjustedScore int
	Reason        string
}

// Critique is the reviewer collaborator's full output.
type Critique struct {
	Assessment    string
	QualityScore  int
	Adjustments   []Adjustment
	MissedSignals []string
	TopPicks      []string
	FlaggedItems  []string
	Notes         string
}

// Reviewer is the collaborator boundary for the reflection pass.
type Reviewer interface {
	Review(ctx context.Context, scored []record.ScoredRecord) (Critique, error)
}

// Outcome reports what the stage did.
type Outcome struct {
	Critique Critique
	Applied  int
	Skipped  bool
	Err      string
}

// Stage runs the review pass with its failure policy: a reviewer error makes
// the stage a no-op and the original ranking stands.
type Stage struct {
	reviewer Reviewer
	logger   zerolog.Logger
}

func NewStage(reviewer Reviewer, logger zerolog.Logger) *Stage {
	return &Stage{reviewer: reviewer, logger: logger}
}

// Run asks the reviewer for a critique and applies its adjustments in place.
// It returns the re-sorted item set and the recomputed alert set.
func (s *Stage) Run(ctx context.Context, scored []record.ScoredRecord) ([]record.ScoredRecord, []record.ScoredRecord, Outcome) {
	if s.reviewer == nil || len(scored) == 0 {
		return scored, score.Alerts(scored), Outcome{Skipped: true}
	}

	critique, err := s.reviewer.Review(ctx, scored)
	if err != nil {
		s.logger.Warn().Err(err).Msg("review failed, keeping original ranking")
		return scored, score.Alerts(scored), Outcome{Skipped: true, Err: "review: " + err.Error()}
	}

	applied := Apply(scored, critique.Adjustments, s.logger)

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	s.logger.Info().
		Str("assessment", critique.Assessment).
		Int("quality", critique.QualityScore).
		Int("adjusted", applied).
		Msg("review completed")

	return scored, score.Alerts(scored), Outcome{Critique: critique, Applied: applied}
}

// Apply overwrites scores for adjustment matches, preserving provenance.
//
// Matching is first-match-wins on a case-insensitive title substring, and an
// item is adjusted at most once. When a fragment matches several items only
// the first in current order is touched; fragments are expected to be
// near-unique, and the test suite pins this behavior explicitly.
func Apply(scored []record.ScoredRecord, adjustments []Adjustment, logger zerolog.Logger) int {
	applied := 0
	for _, adj := range adjustments {
		snippet := strings.ToLower(strings.TrimSpace(adj.TitleSnippet))
		if snippet == "" {
			continue
		}

		for i := range scored {
			item := &scored[i]
			if item.Adjusted {
				continue
			}
			if !strings.Contains(strings.ToLower(item.Title), snippet) {
				continue
			}

			original := item.Score
			item.OriginalScore = &original
			item.Score = clampScore(adj.AdjustedScore)
			item.Adjusted = true
			item.AdjustmentReason = adj.Reason
			applied++

			logger.Info().
				Str("title", item.Title).
				Int("from", original).
				Int("to", item.Score).
				Str("reason", adj.Reason).
				Msg("score adjusted by reviewer")
			break
		}
	}
	return applied
}

func clampScore(s int) int {
	if s < 1 {
		return 1
	}
	if s > 10 {
		return 10
	}
	return s
}
