package sources

import (
	"fmt"

	"github.com/kgrajski/neurotech-newshound/internal/globaltime"
	"github.com/kgrajski/neurotech-newshound/internal/record"
)

// Health is the derived classification of a source's recent yield.
type Health string

const (
	HealthHealthy   Health = "healthy"
	HealthCold      Health = "cold"
	HealthNoData    Health = "no data"
	HealthHighYield Health = "high yield"
)

// RecordStats updates the named source's counters after a run. last_hit_date
// moves only when the run actually produced in-scope items.
func (r *Registry) RecordStats(sourceID string, fetched, inScope, highScore int) {
	s := r.find(sourceID)
	if s == nil {
		return
	}

	today := globaltime.Today()
	s.Stats.Runs++
	s.Stats.TotalFetched += fetched
	s.Stats.InScopeCount += inScope
	s.Stats.HighScoreCount += highScore
	s.Stats.LastRunDate = today
	if inScope > 0 {
		s.Stats.LastHitDate = today
	}
}

// AddHighScores credits alert-tier items back to the sources that produced
// them, after semantic scoring has run.
func (r *Registry) AddHighScores(counts map[string]int) {
	for id, n := range counts {
		if s := r.find(id); s != nil {
			s.Stats.HighScoreCount += n
		}
	}
}

// Classify derives the health of one source from its cumulative stats.
func Classify(s Source) Health {
	cutoff := globaltime.UTC().AddDate(0, 0, -ColdDays).Format("2006-01-02")

	switch {
	case s.Stats.TotalFetched == 0 && s.Stats.Runs > 0:
		return HealthNoData
	case s.Stats.LastHitDate != "" && s.Stats.LastHitDate < cutoff:
		return HealthCold
	case s.Stats.Runs > 0 && s.Stats.LastHitDate == "":
		return HealthCold
	case s.Stats.InScopeCount > 0 && s.Stats.TotalFetched > 0 &&
		float64(s.Stats.InScopeCount)/float64(s.Stats.TotalFetched) > HighYieldRatio:
		return HealthHighYield
	default:
		return HealthHealthy
	}
}

// Prune disables enabled non-curated sources whose last in-scope hit is
// missing or older than the cold window. Curated sources are only flagged for
// human review, never disabled. Returns the count of newly disabled sources.
func (r *Registry) Prune() int {
	cutoff := globaltime.UTC().AddDate(0, 0, -ColdDays).Format("2006-01-02")
	pruned := 0

	for i := range r.Sources {
		s := &r.Sources[i]
		if !s.Enabled {
			continue
		}
		cold := s.Stats.LastHitDate == "" || s.Stats.LastHitDate < cutoff
		if !cold {
			continue
		}
		if s.Curated {
			s.Flagged = true
			continue
		}
		s.Enabled = false
		pruned++
	}

	if pruned > 0 {
		r.LastPruned = globaltime.Today()
	}
	return pruned
}

// AddDiscovered registers a search-discovered source. At the enabled-source
// cap it attempts a prune pass first and only adds if that freed capacity.
// Returns an error when the source already exists or capacity is exhausted.
func (r *Registry) AddDiscovered(id, name, url string, category, sourceType string) error {
	if r.find(id) != nil {
		return fmt.Errorf("source %q already registered", id)
	}

	maxSources := r.MaxSources
	if maxSources <= 0 {
		maxSources = MaxSources
	}

	enabled := len(r.Enabled(""))
	if enabled >= maxSources {
		enabled -= r.Prune()
		if enabled >= maxSources {
			return fmt.Errorf("source cap %d reached and prune freed no capacity", maxSources)
		}
	}

	if category == "" {
		category = "discovered"
	}
	if sourceType == "" {
		sourceType = "rss"
	}

	r.Sources = append(r.Sources, Source{
		ID:             id,
		Name:           name,
		Category:       categoryOf(category),
		Type:           sourceType,
		URL:            url,
		Enabled:        true,
		Curated:        false,
		DiscoveredDate: globaltime.Today(),
	})
	return nil
}

func categoryOf(category string) record.SourceCategory {
	switch record.SourceCategory(category) {
	case record.CategoryDatabase, record.CategoryJournal, record.CategoryPreprint,
		record.CategoryPress, record.CategoryRegulatory, record.CategorySearch:
		return record.SourceCategory(category)
	default:
		return record.CategoryDiscovered
	}
}
