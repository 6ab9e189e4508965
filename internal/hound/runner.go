// Package hound wires the full pipeline: fetch, triage, semantic scoring,
// review, persistence, and the audit ledger. One Execute call is one run.
package hound

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kgrajski/neurotech-newshound/internal/audit"
	"github.com/kgrajski/neurotech-newshound/internal/dedup"
	"github.com/kgrajski/neurotech-newshound/internal/fetch"
	"github.com/kgrajski/neurotech-newshound/internal/globaltime"
	"github.com/kgrajski/neurotech-newshound/internal/record"
	"github.com/kgrajski/neurotech-newshound/internal/review"
	"github.com/kgrajski/neurotech-newshound/internal/scope"
	"github.com/kgrajski/neurotech-newshound/internal/score"
	"github.com/kgrajski/neurotech-newshound/internal/sources"
	"github.com/kgrajski/neurotech-newshound/internal/triage"
	"github.com/kgrajski/neurotech-newshound/internal/vocab"
)

// Deps carries everything a Runner needs. HistoryStore and RegistryStore are
// required; the rest degrade gracefully when absent (no fetchers means an
// empty run, no assessor means deterministic-score fallback, no reviewer
// skips the review stage, no ledger skips auditing).
type Deps struct {
	HistoryStore  *dedup.Store
	RegistryStore *sources.Store
	Vocabulary    *vocab.Vocabulary
	Fetchers      []fetch.Fetcher
	Assessor      score.Assessor
	Reviewer      review.Reviewer
	Ledger        *audit.Ledger

	LookbackDays      int
	MaxItemsPerSource int
	ScoreConcurrency  int
	FetchTimeout      time.Duration
	ScoreTimeout      time.Duration

	Logger zerolog.Logger
}

// Outcome is the best-effort result of one run. It is always populated as far
// as the run got; Errors collects every soft failure along the way.
type Outcome struct {
	StartedAt  time.Time              `json:"started_at"`
	FinishedAt time.Time              `json:"finished_at"`
	Ranked     []record.ScoredRecord  `json:"ranked"`
	Alerts     []record.ScoredRecord  `json:"alerts"`
	Skipped    []record.SkippedRecord `json:"skipped"`

	RawCount     int `json:"raw_count"`
	InScopeCount int `json:"in_scope_count"`
	ScoredCount  int `json:"scored_count"`
	SkippedCount int `json:"skipped_count"`
	AlertCount   int `json:"alert_count"`

	Review        review.Outcome   `json:"review"`
	Sources       []sources.Source `json:"sources"`
	SourceSummary string           `json:"source_summary"`
	Errors        []string         `json:"errors,omitempty"`
}

type Runner struct {
	deps Deps
}

func NewRunner(deps Deps) *Runner {
	if deps.LookbackDays <= 0 {
		deps.LookbackDays = 7
	}
	if deps.MaxItemsPerSource <= 0 {
		deps.MaxItemsPerSource = 100
	}
	if deps.ScoreConcurrency <= 0 {
		deps.ScoreConcurrency = 4
	}
	if deps.FetchTimeout <= 0 {
		deps.FetchTimeout = 30 * time.Second
	}
	if deps.ScoreTimeout <= 0 {
		deps.ScoreTimeout = 60 * time.Second
	}
	if deps.Assessor == nil {
		deps.Assessor = score.Deterministic{}
	}
	return &Runner{deps: deps}
}

// Execute performs one full run. It returns an error only when the run cannot
// proceed or its results cannot be persisted: unreadable or unsaveable history
// and registry stores are fatal, everything else degrades into Outcome.Errors.
func (r *Runner) Execute(ctx context.Context) (*Outcome, error) {
	d := r.deps
	outcome := &Outcome{StartedAt: globaltime.UTC()}

	history, err := d.HistoryStore.Load()
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	registry, err := d.RegistryStore.Load()
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}

	var extraTerms []string
	if d.Vocabulary != nil {
		extraTerms = d.Vocabulary.RegexTerms()
	}
	filter := scope.NewFilter(extraTerms)
	scorer := scope.NewScorer(filter)

	pool := fetch.NewPool(filter, d.FetchTimeout, d.Logger)
	window := fetch.Window{Days: d.LookbackDays, MaxItems: d.MaxItemsPerSource}
	fetched := pool.FetchAll(ctx, d.Fetchers, registry, window)
	outcome.Errors = append(outcome.Errors, fetched.Errors...)

	triaged := triage.NewPipeline(filter, scorer, d.Logger).Triage(fetched.Records, history)
	outcome.RawCount = triaged.RawCount
	outcome.InScopeCount = triaged.InScopeCount
	outcome.Skipped = triaged.Skipped
	outcome.SkippedCount = triaged.SkippedCount

	scorerSvc := score.NewService(d.Assessor, d.ScoreConcurrency, d.ScoreTimeout, d.Logger)
	scored, scoreErrs := scorerSvc.ScoreAll(ctx, triaged.ToScore)
	outcome.Errors = append(outcome.Errors, scoreErrs...)

	ranked, alerts, reviewOutcome := review.NewStage(d.Reviewer, d.Logger).Run(ctx, scored)
	if reviewOutcome.Err != "" {
		outcome.Errors = append(outcome.Errors, reviewOutcome.Err)
	}
	outcome.Ranked = ranked
	outcome.Alerts = alerts
	outcome.Review = reviewOutcome
	outcome.ScoredCount = len(ranked)
	outcome.AlertCount = len(alerts)

	registry.AddHighScores(alertsBySource(alerts))

	dedup.Update(history, ranked)
	if err := d.HistoryStore.Save(history); err != nil {
		return outcome, fmt.Errorf("save history: %w", err)
	}
	if err := d.RegistryStore.Save(registry); err != nil {
		return outcome, fmt.Errorf("save registry: %w", err)
	}
	outcome.Sources = registry.Sources
	outcome.SourceSummary = registry.Summary()
	outcome.FinishedAt = globaltime.UTC()

	r.appendAudit(outcome)

	d.Logger.Info().
		Int("raw", outcome.RawCount).
		Int("scored", outcome.ScoredCount).
		Int("skipped", outcome.SkippedCount).
		Int("alerts", outcome.AlertCount).
		Int("errors", len(outcome.Errors)).
		Msg("run completed")

	return outcome, nil
}

// appendAudit writes the run to the ledger. Ledger failures are soft.
func (r *Runner) appendAudit(outcome *Outcome) {
	if r.deps.Ledger == nil {
		return
	}

	status := "completed"
	if len(outcome.Errors) > 0 {
		status = "completed_with_errors"
	}
	runID, err := r.deps.Ledger.AppendRun(&audit.RunRecord{
		StartedAt:    outcome.StartedAt,
		FinishedAt:   outcome.FinishedAt,
		Status:       status,
		RawCount:     outcome.RawCount,
		InScopeCount: outcome.InScopeCount,
		ScoredCount:  outcome.ScoredCount,
		SkippedCount: outcome.SkippedCount,
		AlertCount:   outcome.AlertCount,
		Errors:       strings.Join(outcome.Errors, "; "),
	})
	if err != nil {
		outcome.Errors = append(outcome.Errors, "audit: "+err.Error())
		return
	}
	if err := r.deps.Ledger.AppendAdjustments(runID, outcome.Ranked); err != nil {
		outcome.Errors = append(outcome.Errors, "audit: "+err.Error())
	}
}

func alertsBySource(alerts []record.ScoredRecord) map[string]int {
	counts := make(map[string]int, len(alerts))
	for _, item := range alerts {
		if item.SourceID != "" {
			counts[item.SourceID]++
		}
	}
	return counts
}
