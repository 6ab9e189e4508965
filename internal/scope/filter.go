// Package scope implements the deterministic relevance layer: a regex scope
// filter and a 1-10 pattern scorer. Everything here is a pure function of the
// input text, so the same record always filters and scores identically.
package scope

import (
	"regexp"
	"strings"
)

// Broad scope, the pre-filter gate.
var inScopeBroad = regexp.MustCompile(`(?i)\b(` +
	`brain[- ]computer interface|bci|neuroprosthe|intracortical|` +
	`ecog|seeg|stereo-?eeg|ieeg|intracranial eeg|` +
	`microstimulation|cortical stimulation|neural implant|implantable|` +
	`speech decoding|handwriting decoding|neural decoder|spike(s|d)?|single[- ]unit` +
	`)\b`)

// Strict scope, required before the top score tier is reachable.
var inScopeStrict = regexp.MustCompile(`(?i)\b(` +
	`brain[- ]computer interface|bci|neuroprosthe|` +
	`ecog|seeg|stereo-?eeg|ieeg|intracranial eeg|` +
	`microelectrode|microelectrode array|utah array|` +
	`implanted|implantable|neural implant|` +
	`single[- ]unit|spike(s|d)?|intracortical (recording|array|electrode)` +
	`)\b`)

// Non-invasive stimulation modalities are the most common false positives.
var disqualifying = regexp.MustCompile(`(?i)\b(` +
	`transcranial magnetic stimulation|tms|` +
	`transcranial direct current|tdcs|` +
	`transcranial alternating current|tacs` +
	`)\b`)

// Filter answers scope questions for record text. An optional extra-terms
// pattern, built from the vocabulary store, widens the broad scope only; the
// strict gate stays fixed so vocabulary growth cannot unlock the alert tier.
type Filter struct {
	extra *regexp.Regexp
}

// NewFilter builds a Filter. extraTerms come from the injected vocabulary and
// may be empty; terms shorter than three characters are dropped to avoid
// matching noise.
func NewFilter(extraTerms []string) *Filter {
	f := &Filter{}

	cleaned := make([]string, 0, len(extraTerms))
	for _, term := range extraTerms {
		term = strings.TrimSpace(term)
		if len(term) < 3 {
			continue
		}
		cleaned = append(cleaned, regexp.QuoteMeta(term))
	}
	if len(cleaned) > 0 {
		f.extra = regexp.MustCompile(`(?i)\b(` + strings.Join(cleaned, "|") + `)\b`)
	}

	return f
}

func joinText(parts ...string) string {
	return strings.Join(parts, "\n")
}

// InScope reports whether the record text plausibly concerns the tracked
// domain (broad match).
func (f *Filter) InScope(title, summary, source string) bool {
	text := joinText(title, summary, source)
	if inScopeBroad.MatchString(text) {
		return true
	}
	return f != nil && f.extra != nil && f.extra.MatchString(text)
}

// StrictlyInScope reports whether the narrower pattern set holds. Required
// for scores of 9 or above.
func (f *Filter) StrictlyInScope(title, summary, source string) bool {
	return inScopeStrict.MatchString(joinText(title, summary, source))
}

// HasDisqualifying reports whether a known false-positive modality appears.
func (f *Filter) HasDisqualifying(title, summary string) bool {
	return disqualifying.MatchString(joinText(title, summary))
}
