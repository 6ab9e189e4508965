// Package record defines the item types flowing through the pipeline.
//
// A raw Record is immutable once fetched. Each stage produces a wider type
// embedding the previous one, so a field written by an earlier stage is never
// dropped: Record -> ScopedRecord -> ScoredRecord, with SkippedRecord as the
// dedup-store side exit.
package record

// SourceCategory classifies where a record came from.
type SourceCategory string

const (
	CategoryDatabase   SourceCategory = "database"
	CategoryJournal    SourceCategory = "journal"
	CategoryPreprint   SourceCategory = "preprint"
	CategoryPress      SourceCategory = "press"
	CategoryRegulatory SourceCategory = "regulatory"
	CategorySearch     SourceCategory = "search"
	CategoryDiscovered SourceCategory = "discovered"
)

// Record is one raw item as produced by a fetch collaborator.
type Record struct {
	Title          string         `json:"title"`
	Summary        string         `json:"summary"`
	SourceID       string         `json:"source_id"`
	SourceCategory SourceCategory `json:"source_category"`
	URL            string         `json:"url"`
	Meta           string         `json:"meta"`
}

// ScopedRecord is a Record that passed the scope filter: it carries the
// deterministic regex score, its content hash, and any prior-run annotations
// attached by the dedup partition step.
type ScopedRecord struct {
	Record

	RegexScore int    `json:"regex_score"`
	Hash       string `json:"hash"`

	// Set only when the hash was already in history and the item is being
	// re-evaluated (prior score at or above the re-evaluation threshold).
	PriorScore    *int   `json:"prior_score,omitempty"`
	PriorCategory string `json:"prior_category,omitempty"`
}

// SkippedRecord is a ScopedRecord the dedup store decided not to re-score.
type SkippedRecord struct {
	ScopedRecord

	SkipReason string `json:"skip_reason"`
}

// ScoredRecord is a ScopedRecord after the semantic scoring stage, and the
// final shape items keep through review, ranking, and reporting.
type ScoredRecord struct {
	ScopedRecord

	Score      int    `json:"score"`
	Category   string `json:"category"`
	Assessment string `json:"assessment"`
	Flagged    bool   `json:"flagged"`

	// Review-stage provenance. OriginalScore is set exactly once, when a
	// reviewer adjustment overwrites Score.
	Adjusted         bool   `json:"adjusted,omitempty"`
	OriginalScore    *int   `json:"original_score,omitempty"`
	AdjustmentReason string `json:"adjustment_reason,omitempty"`
}

// ErrorCategory is the sentinel category assigned when semantic scoring
// failed for an item and the deterministic score was used as fallback.
const ErrorCategory = "error"
