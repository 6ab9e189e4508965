package scope

import "regexp"

const (
	baselineScore = 4
	gateCapScore  = 6

	// MinScore and MaxScore bound every deterministic score.
	MinScore = 1
	MaxScore = 10
)

type scoreRule struct {
	weight  int
	pattern *regexp.Regexp
}

// Ordered most to least significant. A match raises the score to at least the
// rule's weight; later, weaker matches never lower it.
var highSignalRules = []scoreRule{
	{10, regexp.MustCompile(`(?i)\bfirst[- ]in[- ]human\b|\bFIH\b`)},
	{10, regexp.MustCompile(`(?i)\bpivotal\b|\bPMA\b|\bDe\s?Novo\b|\b510\(k\)\b`)},
	{10, regexp.MustCompile(`(?i)\bFDA\b.*\bIDE\b|\bIDE\b.*\bFDA\b`)},
	{9, regexp.MustCompile(`(?i)\bhuman(s)?\b.*\bimplant\b|\bimplanted\b.*\bhuman\b|\bclinical trial\b`)},
	{8, regexp.MustCompile(`(?i)\bECoG\b|\bsEEG\b|\bstereo-?EEG\b|\bintracranial EEG\b|\biEEG\b`)},
	{8, regexp.MustCompile(`(?i)\bsingle[- ]unit\b|\bspike(s|d)?\b`)},
	{7, regexp.MustCompile(`(?i)\bmicrostimulation\b|\bclosed[- ]loop\b`)},
	{6, regexp.MustCompile(`(?i)\bhermetic\b|\bencapsulation\b|\bcoating\b|\bmaterials?\b|\bbiocompatib`)},
}

// Each match clamps the score down to at most the rule's ceiling.
var negativeRules = []scoreRule{
	{2, regexp.MustCompile(`(?i)\bEEG headset\b|\bheadband\b`)},
	{2, regexp.MustCompile(`(?i)\bmarketing\b|\bpress release\b|\bannounces\b`)},
}

var (
	wearablePattern = regexp.MustCompile(`(?i)\bwearable\b`)
	bciContext      = regexp.MustCompile(`(?i)\bBCI\b|\bbrain[- ]computer\b|\bneural interface\b`)
)

// Scorer computes the deterministic 1-10 score used both as the pre-filter
// ranking signal and as the fallback when semantic scoring fails.
type Scorer struct {
	filter *Filter
}

func NewScorer(filter *Filter) *Scorer {
	if filter == nil {
		filter = NewFilter(nil)
	}
	return &Scorer{filter: filter}
}

// Score evaluates the two-phase ratchet-then-clamp-then-gate sequence. The
// order is load-bearing: high-signal ratchet first, negative clamps second,
// hard gates last, so mixed-signal text resolves the same way every run.
func (s *Scorer) Score(title, summary, source string) int {
	text := joinText(title, summary, source)
	score := baselineScore

	for _, rule := range highSignalRules {
		if rule.pattern.MatchString(text) && rule.weight > score {
			score = rule.weight
		}
	}
	for _, rule := range negativeRules {
		if rule.pattern.MatchString(text) && rule.weight < score {
			score = rule.weight
		}
	}

	// "wearable" alone suppresses, but not when combined with BCI terms.
	if wearablePattern.MatchString(text) && !bciContext.MatchString(text) && score > 2 {
		score = 2
	}

	// Gate 1: a disqualifying modality without strict scope caps at 6.
	if score >= 7 && s.filter.HasDisqualifying(title, summary) &&
		!s.filter.StrictlyInScope(title, summary, source) {
		score = gateCapScore
	}

	// Gate 2: the top tier is unreachable without a strict-scope match.
	if score >= 9 && !s.filter.StrictlyInScope(title, summary, source) {
		score = gateCapScore
	}

	if score < MinScore {
		score = MinScore
	}
	if score > MaxScore {
		score = MaxScore
	}
	return score
}
