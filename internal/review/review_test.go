package review

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kgrajski/neurotech-newshound/internal/record"
)

type stubReviewer struct {
	critique Critique
	err      error
}

func (s *stubReviewer) Review(context.Context, []record.ScoredRecord) (Critique, error) {
	return s.critique, s.err
}

func scoredItem(title string, score int) record.ScoredRecord {
	return record.ScoredRecord{
		ScopedRecord: record.ScopedRecord{
			Record: record.Record{Title: title, URL: "https://x/" + title},
		},
		Score: score,
	}
}

func TestApply_OverridesWithProvenance(t *testing.T) {
	t.Parallel()

	scored := []record.ScoredRecord{
		scoredItem("Implanted BCI restores speech", 7),
	}

	applied := Apply(scored, []Adjustment{
		{TitleSnippet: "restores speech", AdjustedScore: 9, Reason: "understated clinical significance"},
	}, zerolog.Nop())

	if applied != 1 {
		t.Fatalf("expected 1 adjustment applied, got %d", applied)
	}
	item := scored[0]
	if item.Score != 9 {
		t.Fatalf("score not overridden, got %d", item.Score)
	}
	if item.OriginalScore == nil || *item.OriginalScore != 7 {
		t.Fatalf("original score must be preserved, got %v", item.OriginalScore)
	}
	if !item.Adjusted || item.AdjustmentReason != "understated clinical significance" {
		t.Fatalf("provenance missing: %+v", item)
	}
}

func TestApply_CaseInsensitiveFragmentMatch(t *testing.T) {
	t.Parallel()

	scored := []record.ScoredRecord{scoredItem("ECoG Decoding Milestone", 6)}
	applied := Apply(scored, []Adjustment{{TitleSnippet: "ecog decoding", AdjustedScore: 8}}, zerolog.Nop())
	if applied != 1 {
		t.Fatalf("fragment matching must be case-insensitive")
	}
}

// Pins the documented ambiguity: when a fragment matches several items, only
// the first in current order is adjusted and the rest are left alone.
func TestApply_FirstMatchWins(t *testing.T) {
	t.Parallel()

	scored := []record.ScoredRecord{
		scoredItem("BCI trial update from site A", 8),
		scoredItem("BCI trial update from site B", 7),
	}

	applied := Apply(scored, []Adjustment{{TitleSnippet: "bci trial update", AdjustedScore: 5, Reason: "duplicate coverage"}}, zerolog.Nop())

	if applied != 1 {
		t.Fatalf("expected exactly one item adjusted, got %d", applied)
	}
	if scored[0].Score != 5 || scored[0].OriginalScore == nil {
		t.Fatalf("first match must be adjusted: %+v", scored[0])
	}
	if scored[1].Score != 7 || scored[1].Adjusted {
		t.Fatalf("second match must be untouched: %+v", scored[1])
	}
}

func TestApply_AlreadyAdjustedItemSkipped(t *testing.T) {
	t.Parallel()

	scored := []record.ScoredRecord{
		scoredItem("Shared fragment item one", 8),
		scoredItem("Shared fragment item two", 7),
	}

	Apply(scored, []Adjustment{{TitleSnippet: "shared fragment", AdjustedScore: 5}}, zerolog.Nop())
	applied := Apply(scored, []Adjustment{{TitleSnippet: "shared fragment", AdjustedScore: 3}}, zerolog.Nop())

	if applied != 1 {
		t.Fatalf("second adjustment must land on the not-yet-adjusted item")
	}
	if scored[0].Score != 5 {
		t.Fatalf("already-adjusted item must not be adjusted twice: %+v", scored[0])
	}
	if scored[1].Score != 3 {
		t.Fatalf("second item must receive the second adjustment: %+v", scored[1])
	}
}

func TestRun_AdjustmentMovesItemIntoAlerts(t *testing.T) {
	t.Parallel()

	stage := NewStage(&stubReviewer{critique: Critique{
		Assessment: "NEEDS_REVISION",
		Adjustments: []Adjustment{
			{TitleSnippet: "underrated", AdjustedScore: 9, Reason: "major milestone"},
		},
	}}, zerolog.Nop())

	scored := []record.ScoredRecord{
		scoredItem("Top item", 10),
		scoredItem("An underrated trial result", 7),
	}

	ranked, alerts, outcome := stage.Run(context.Background(), scored)
	if outcome.Applied != 1 {
		t.Fatalf("expected 1 adjustment, got %+v", outcome)
	}
	if len(alerts) != 2 {
		t.Fatalf("raised item must enter the recomputed alert set, got %d alerts", len(alerts))
	}
	if ranked[1].Title != "An underrated trial result" || ranked[1].Score != 9 {
		t.Fatalf("ranking must reflect the adjusted score: %+v", ranked)
	}
}

func TestRun_AdjustmentRemovesItemFromAlerts(t *testing.T) {
	t.Parallel()

	stage := NewStage(&stubReviewer{critique: Critique{
		Adjustments: []Adjustment{
			{TitleSnippet: "overhyped", AdjustedScore: 7, Reason: "press-release science"},
		},
	}}, zerolog.Nop())

	scored := []record.ScoredRecord{
		scoredItem("Overhyped vaporware claim", 9),
		scoredItem("Solid ECoG study", 8),
	}

	ranked, alerts, _ := stage.Run(context.Background(), scored)
	if len(alerts) != 0 {
		t.Fatalf("lowered item must leave the alert set, got %d alerts", len(alerts))
	}
	if ranked[0].Title != "Solid ECoG study" {
		t.Fatalf("re-sort must demote the lowered item: %+v", ranked)
	}
}

func TestRun_ReviewerFailureIsNoOp(t *testing.T) {
	t.Parallel()

	stage := NewStage(&stubReviewer{err: errors.New("reviewer unavailable")}, zerolog.Nop())

	scored := []record.ScoredRecord{
		scoredItem("Alert item", 9),
		scoredItem("Ordinary item", 5),
	}

	ranked, alerts, outcome := stage.Run(context.Background(), scored)
	if !outcome.Skipped || outcome.Err == "" {
		t.Fatalf("reviewer failure must be a recorded no-op, got %+v", outcome)
	}
	if ranked[0].Score != 9 || ranked[1].Score != 5 {
		t.Fatalf("original scores must stand: %+v", ranked)
	}
	if len(alerts) != 1 {
		t.Fatalf("original alert set must stand, got %d", len(alerts))
	}
}

func TestRun_StableResortOnTies(t *testing.T) {
	t.Parallel()

	stage := NewStage(&stubReviewer{critique: Critique{}}, zerolog.Nop())

	scored := []record.ScoredRecord{
		scoredItem("First eight", 8),
		scoredItem("Second eight", 8),
	}
	ranked, _, _ := stage.Run(context.Background(), scored)
	if ranked[0].Title != "First eight" {
		t.Fatalf("stable sort must preserve order on ties: %+v", ranked)
	}
}
