package antipattern

import (
	"sort"
	"strings"

	"github.com/danavoss/northstar/internal/conversation"
)

// Scoring constants. Empirically tuned as a set — the regex weight, the
// keyword weight, the contextual bonus/floor, and the detection
// threshold balance each other. Retuning any one is a deliberate,
// separate change.
const (
	regexWeight   = 0.25
	regexCap      = 0.7
	keywordWeight = 0.18
	keywordCap    = 0.45
	contextBonus  = 0.4
	contextFloor  = 0.6

	// DetectionThreshold is the minimum confidence for a pattern to
	// count as detected.
	DetectionThreshold = 0.3
)

// DetectedPattern is the per-message, ephemeral view of a catalogue
// entry with its computed confidence.
type DetectedPattern struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	Severity         Severity           `json:"severity"`
	InterventionType InterventionType   `json:"intervention_type"`
	Confidence       float64            `json:"confidence"`
	Strategy         *ReframingStrategy `json:"-"`
}

// DetectionResult is the outcome of scoring one message against the
// whole catalogue.
type DetectionResult struct {
	// Patterns holds every detected pattern, sorted by severity first
	// and confidence second, both descending.
	Patterns []DetectedPattern `json:"patterns"`

	// ActiveStrategy is the reframing strategy of the top pattern, or
	// nil when nothing was detected.
	ActiveStrategy *ReframingStrategy `json:"-"`

	// Interventions is the set of detected intervention types,
	// deduplicated, in sorted-pattern order.
	Interventions []InterventionType `json:"interventions"`
}

// Detected reports whether at least one pattern crossed the threshold.
func (r DetectionResult) Detected() bool {
	return len(r.Patterns) > 0
}

// Top returns the highest-priority detected pattern, or nil.
func (r DetectionResult) Top() *DetectedPattern {
	if len(r.Patterns) == 0 {
		return nil
	}
	return &r.Patterns[0]
}

// Detect scores the message against every catalogue entry. It is a
// total function: empty input, or an unavailable catalogue, yields an
// empty result, never an error.
func Detect(text string, uc *conversation.UserContext) DetectionResult {
	var result DetectionResult
	if strings.TrimSpace(text) == "" {
		return result
	}

	patterns := Catalogue()
	for i := range patterns {
		p := &patterns[i]
		confidence := scorePattern(p, text, uc)
		if confidence <= DetectionThreshold {
			continue
		}
		result.Patterns = append(result.Patterns, DetectedPattern{
			ID:               p.ID,
			Name:             p.Name,
			Severity:         p.Severity,
			InterventionType: p.InterventionType,
			Confidence:       confidence,
			Strategy:         &p.Strategy,
		})
	}

	sort.SliceStable(result.Patterns, func(i, j int) bool {
		a, b := result.Patterns[i], result.Patterns[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() > b.Severity.Rank()
		}
		return a.Confidence > b.Confidence
	})

	if top := result.Top(); top != nil {
		result.ActiveStrategy = top.Strategy
	}

	seen := make(map[InterventionType]bool)
	for _, p := range result.Patterns {
		if seen[p.InterventionType] {
			continue
		}
		seen[p.InterventionType] = true
		result.Interventions = append(result.Interventions, p.InterventionType)
	}

	return result
}

// scorePattern computes the confidence for one catalogue entry:
// lexical evidence (regex + keyword matches, individually capped), a
// contextual bonus that dominates weak lexical evidence, and a
// severity bonus, clamped to [0,1].
func scorePattern(p *Pattern, text string, uc *conversation.UserContext) float64 {
	lower := strings.ToLower(text)

	regexMatches := 0
	for _, re := range p.Regexes {
		if re.MatchString(text) {
			regexMatches++
		}
	}
	keywordMatches := 0
	for _, kw := range p.Keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			keywordMatches++
		}
	}

	score := regexWeight * float64(regexMatches)
	if score > regexCap {
		score = regexCap
	}
	kwScore := keywordWeight * float64(keywordMatches)
	if kwScore > keywordCap {
		kwScore = keywordCap
	}
	score += kwScore

	// Contextual agreement is the strongest signal: it adds a flat
	// bonus and floors the score, but only when lexical evidence
	// exists at all.
	if (regexMatches > 0 || keywordMatches > 0) && p.contextPredicate(text, uc) {
		score += contextBonus
		if score < contextFloor {
			score = contextFloor
		}
	}

	score += severityBonuses[p.Severity]

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score
}
