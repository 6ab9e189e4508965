// Package dedup persists cross-run scoring history keyed by a stable content
// hash, and decides which fetched items are worth spending semantic-scoring
// budget on.
//
// The partition policy is asymmetric on purpose:
//
//   - never seen            -> score it
//   - prior score < 7       -> skip (confirmed low value)
//   - prior score >= 7      -> score it again (high-value topics evolve)
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/kgrajski/neurotech-newshound/internal/globaltime"
	"github.com/kgrajski/neurotech-newshound/internal/record"
)

// ReevaluateThreshold is the prior score at or above which an already-seen
// item is sent back through semantic scoring.
const ReevaluateThreshold = 7

const historyTitleLimit = 100

// Entry is the persisted state for one distinct content hash.
type Entry struct {
	Title     string `json:"title"`
	Score     int    `json:"score"`
	Category  string `json:"category"`
	FirstSeen string `json:"first_seen"`
	LastSeen  string `json:"last_seen"`
	RunCount  int    `json:"run_count"`
}

// History maps content hash to its entry. Owned exclusively by this package;
// other components only read the annotations Partition attaches to items.
type History map[string]Entry

// Hash derives the stable content identity from normalized title and URL.
// Identical (title, url) pairs hash identically across runs and restarts.
func Hash(title, url string) string {
	key := strings.ToLower(strings.TrimSpace(title)) + "|" + strings.ToLower(strings.TrimSpace(url))
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:16]
}

// Partition splits items into (toScore, skipped) against history. Every item
// gets its hash attached; re-evaluated items additionally carry their prior
// score and category, and skipped items carry a reason naming the prior score
// and when it was last seen.
func Partition(items []record.ScopedRecord, history History) (toScore []record.ScopedRecord, skipped []record.SkippedRecord) {
	for _, item := range items {
		item.Hash = Hash(item.Title, item.URL)

		prior, seen := history[item.Hash]
		switch {
		case !seen:
			toScore = append(toScore, item)
		case prior.Score >= ReevaluateThreshold:
			priorScore := prior.Score
			item.PriorScore = &priorScore
			item.PriorCategory = prior.Category
			toScore = append(toScore, item)
		default:
			skipped = append(skipped, record.SkippedRecord{
				ScopedRecord: item,
				SkipReason:   fmt.Sprintf("previously scored %d on %s", prior.Score, prior.LastSeen),
			})
		}
	}
	return toScore, skipped
}

// Update upserts a history entry for every scored item. New entries start
// with first_seen = last_seen = today and run_count 1; existing entries get
// score, category, and last_seen overwritten and run_count incremented.
//
// Submitting the same items twice on the same day increments run_count twice.
// That is the documented behavior, not deduplicated here.
func Update(history History, scored []record.ScoredRecord) {
	today := globaltime.Today()
	for _, item := range scored {
		h := item.Hash
		if h == "" {
			h = Hash(item.Title, item.URL)
		}

		if existing, ok := history[h]; ok {
			existing.Score = item.Score
			existing.Category = item.Category
			existing.LastSeen = today
			existing.RunCount++
			history[h] = existing
			continue
		}

		history[h] = Entry{
			Title:     truncate(item.Title, historyTitleLimit),
			Score:     item.Score,
			Category:  item.Category,
			FirstSeen: today,
			LastSeen:  today,
			RunCount:  1,
		}
	}
}

// Summary renders a one-line description of the history for run logs.
func Summary(history History) string {
	if len(history) == 0 {
		return "dedup history: empty (first run)"
	}
	high, low := 0, 0
	for _, entry := range history {
		if entry.Score >= ReevaluateThreshold {
			high++
		} else {
			low++
		}
	}
	return fmt.Sprintf("dedup history: %d items tracked (%d high-value, %d low-value)", len(history), high, low)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
