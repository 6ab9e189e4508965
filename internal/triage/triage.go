// Package triage narrows the raw fetched stream to the candidate set worth
// spending semantic-scoring budget on: scope filter, deterministic score,
// dedup partition, then a best-first sort.
package triage

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/kgrajski/neurotech-newshound/internal/dedup"
	"github.com/kgrajski/neurotech-newshound/internal/record"
	"github.com/kgrajski/neurotech-newshound/internal/scope"
)

// Result is the triage output plus the counts reported for observability.
type Result struct {
	ToScore []record.ScopedRecord
	Skipped []record.SkippedRecord

	RawCount     int
	InScopeCount int
	ToScoreCount int
	SkippedCount int
}

// Pipeline runs the deterministic cost-control funnel.
type Pipeline struct {
	filter *scope.Filter
	scorer *scope.Scorer
	logger zerolog.Logger
}

func NewPipeline(filter *scope.Filter, scorer *scope.Scorer, logger zerolog.Logger) *Pipeline {
	if filter == nil {
		filter = scope.NewFilter(nil)
	}
	if scorer == nil {
		scorer = scope.NewScorer(filter)
	}
	return &Pipeline{
		filter: filter,
		scorer: scorer,
		logger: logger,
	}
}

// Triage filters raw items to in-scope, attaches deterministic scores,
// partitions against history, and sorts candidates best-first. The sort is
// stable: ties keep their original fetch order so reruns rank identically.
func (p *Pipeline) Triage(raw []record.Record, history dedup.History) Result {
	result := Result{RawCount: len(raw)}

	var inScope []record.ScopedRecord
	for _, item := range raw {
		if !p.filter.InScope(item.Title, item.Summary, item.SourceID) {
			continue
		}
		inScope = append(inScope, record.ScopedRecord{
			Record:     item,
			RegexScore: p.scorer.Score(item.Title, item.Summary, item.SourceID),
		})
	}
	result.InScopeCount = len(inScope)

	result.ToScore, result.Skipped = dedup.Partition(inScope, history)
	result.ToScoreCount = len(result.ToScore)
	result.SkippedCount = len(result.Skipped)

	// Highest-probability-value items go to the rate-limited semantic stage
	// first, so a capped run still covers the best candidates.
	sort.SliceStable(result.ToScore, func(i, j int) bool {
		return result.ToScore[i].RegexScore > result.ToScore[j].RegexScore
	})

	p.logger.Info().
		Int("raw", result.RawCount).
		Int("in_scope", result.InScopeCount).
		Int("to_score", result.ToScoreCount).
		Int("skipped", result.SkippedCount).
		Msg("triage completed")

	return result
}
