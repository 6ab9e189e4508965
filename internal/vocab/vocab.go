// Package vocab manages the domain vocabulary that drives source queries and
// widens the regex pre-filter. The vocabulary is an explicitly constructed
// object owned by the orchestrator, not a package-level cache, with an
// explicit Reload for picking up external edits.
package vocab

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/kgrajski/neurotech-newshound/internal/globaltime"
)

// Settings tunes query construction and growth limits.
type Settings struct {
	PubMedField         string `yaml:"pubmed_field"`
	MaxTermsPerCategory int    `yaml:"max_terms_per_category"`
}

// ProvenanceEntry records where a batch of auto-added terms came from.
type ProvenanceEntry struct {
	Date       string   `yaml:"date"`
	Source     string   `yaml:"source"`
	TermsAdded []string `yaml:"terms_added"`
}

type document struct {
	Settings       Settings                   `yaml:"settings"`
	PrimaryTerms   map[string][]string        `yaml:"primary_terms"`
	QualifierTerms map[string][]string        `yaml:"qualifier_terms"`
	Provenance     map[string]ProvenanceEntry `yaml:"provenance"`
}

// TermEntry is a proposed vocabulary addition.
type TermEntry struct {
	Term     string
	Group    string // "primary" or "qualifier"
	Category string
}

// Stats reports term counts per category for convergence monitoring.
type Stats struct {
	Primary        map[string]int
	Qualifier      map[string]int
	PrimaryTotal   int
	QualifierTotal int
	GrandTotal     int
}

// Vocabulary is the loaded term store bound to its file path.
type Vocabulary struct {
	mu   sync.RWMutex
	path string
	doc  document
}

// Load reads the vocabulary file. A missing file yields an empty vocabulary,
// since scope filtering works from the built-in patterns alone.
func Load(path string) (*Vocabulary, error) {
	v := &Vocabulary{path: path}
	if err := v.Reload(); err != nil {
		return nil, err
	}
	return v, nil
}

// Reload re-reads the backing file, replacing the in-memory document.
func (v *Vocabulary) Reload() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	raw, err := os.ReadFile(v.path)
	if os.IsNotExist(err) {
		v.doc = document{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read vocabulary %s: %w", v.path, err)
	}

	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse vocabulary %s: %w", v.path, err)
	}
	v.doc = doc
	return nil
}

// PrimaryTerms returns all domain-defining terms, flattened and deduplicated.
func (v *Vocabulary) PrimaryTerms() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return flatten(v.doc.PrimaryTerms)
}

// QualifierTerms returns all relevance-filtering terms, flattened and
// deduplicated.
func (v *Vocabulary) QualifierTerms() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return flatten(v.doc.QualifierTerms)
}

// RegexTerms returns simplified terms (wildcards and quotes stripped) for the
// scope filter's extra-term extension.
func (v *Vocabulary) RegexTerms() []string {
	all := append(v.PrimaryTerms(), v.QualifierTerms()...)
	out := make([]string, 0, len(all))
	for _, term := range all {
		clean := strings.TrimSpace(strings.Trim(strings.TrimRight(term, "*"), `"`))
		if len(clean) >= 3 {
			out = append(out, clean)
		}
	}
	return out
}

// PubMedQuery builds the source query by OR-ing primary terms in clause 1 and
// qualifier terms in clause 2. Empty when no primary terms exist.
func (v *Vocabulary) PubMedQuery() string {
	v.mu.RLock()
	field := v.doc.Settings.PubMedField
	v.mu.RUnlock()
	if field == "" {
		field = "Title/Abstract"
	}

	primary := v.PrimaryTerms()
	if len(primary) == 0 {
		return ""
	}

	primaryClause := joinTerms(primary, field)
	qualifiers := v.QualifierTerms()
	if len(qualifiers) == 0 {
		return "(" + primaryClause + ")"
	}
	return "(" + primaryClause + ") AND (" + joinTerms(qualifiers, field) + ")"
}

// AddTerms appends new terms respecting the per-category limit, recording
// provenance, and persisting unless dryRun. Returns (added, skipped) where
// skipped entries carry the reason.
func (v *Vocabulary) AddTerms(entries []TermEntry, sourceLabel string, dryRun bool) (added, skipped []string, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	limit := v.doc.Settings.MaxTermsPerCategory

	for _, entry := range entries {
		term := strings.TrimSpace(entry.Term)
		if term == "" {
			continue
		}

		group := entry.Group
		if group != "qualifier" {
			group = "primary"
		}
		category := entry.Category
		if category == "" {
			category = "uncategorized"
		}

		target := v.termGroup(group)
		existing := target[category]

		if containsFold(existing, term) {
			skipped = append(skipped, fmt.Sprintf("%s (duplicate)", term))
			continue
		}
		if limit > 0 && len(existing) >= limit {
			skipped = append(skipped, fmt.Sprintf("%s (category %q at limit %d)", term, category, limit))
			continue
		}

		target[category] = append(existing, term)
		added = append(added, term)
	}

	if len(added) == 0 || dryRun {
		return added, skipped, nil
	}

	today := globaltime.Today()
	if v.doc.Provenance == nil {
		v.doc.Provenance = map[string]ProvenanceEntry{}
	}
	key := "auto_" + today
	prov, ok := v.doc.Provenance[key]
	if !ok {
		prov = ProvenanceEntry{Date: today, Source: sourceLabel}
	}
	prov.TermsAdded = append(prov.TermsAdded, added...)
	v.doc.Provenance[key] = prov

	if err := v.save(); err != nil {
		return added, skipped, err
	}
	return added, skipped, nil
}

// Stats counts terms per category.
func (v *Vocabulary) Stats() Stats {
	v.mu.RLock()
	defer v.mu.RUnlock()

	stats := Stats{Primary: map[string]int{}, Qualifier: map[string]int{}}
	for category, terms := range v.doc.PrimaryTerms {
		stats.Primary[category] = len(terms)
		stats.PrimaryTotal += len(terms)
	}
	for category, terms := range v.doc.QualifierTerms {
		stats.Qualifier[category] = len(terms)
		stats.QualifierTotal += len(terms)
	}
	stats.GrandTotal = stats.PrimaryTotal + stats.QualifierTotal
	return stats
}

func (v *Vocabulary) termGroup(group string) map[string][]string {
	if group == "qualifier" {
		if v.doc.QualifierTerms == nil {
			v.doc.QualifierTerms = map[string][]string{}
		}
		return v.doc.QualifierTerms
	}
	if v.doc.PrimaryTerms == nil {
		v.doc.PrimaryTerms = map[string][]string{}
	}
	return v.doc.PrimaryTerms
}

func (v *Vocabulary) save() error {
	data, err := yaml.Marshal(v.doc)
	if err != nil {
		return fmt.Errorf("marshal vocabulary: %w", err)
	}
	if err := os.WriteFile(v.path, data, 0o644); err != nil {
		return fmt.Errorf("write vocabulary %s: %w", v.path, err)
	}
	return nil
}

func flatten(group map[string][]string) []string {
	seen := map[string]struct{}{}
	var terms []string
	for _, categoryTerms := range group {
		for _, term := range categoryTerms {
			key := strings.ToLower(strings.TrimSpace(term))
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			terms = append(terms, strings.TrimSpace(term))
		}
	}
	sort.Strings(terms)
	return terms
}

func joinTerms(terms []string, field string) string {
	formatted := make([]string, 0, len(terms))
	for _, term := range terms {
		formatted = append(formatted, formatTerm(term, field))
	}
	return strings.Join(formatted, " OR ")
}

// formatTerm handles wildcards (no quotes) and multi-word phrases (quoted).
func formatTerm(term, field string) string {
	if strings.HasSuffix(term, "*") {
		return fmt.Sprintf("%s[%s]", term, field)
	}
	if strings.ContainsAny(term, " -") {
		return fmt.Sprintf("%q[%s]", term, field)
	}
	return fmt.Sprintf("%s[%s]", term, field)
}

func containsFold(terms []string, term string) bool {
	for _, t := range terms {
		if strings.EqualFold(strings.TrimSpace(t), term) {
			return true
		}
	}
	return false
}
