package antipattern

import (
	"regexp"
	"strings"

	"github.com/danavoss/northstar/internal/conversation"
)

// ContextualRule is a pluggable predicate over (text, user context).
// Rules live in code and are referenced from the catalogue by name, so
// the serialized configuration never embeds executable logic.
type ContextualRule func(text string, uc *conversation.UserContext) bool

var (
	digitRe      = regexp.MustCompile(`\d`)
	gradationRe  = regexp.MustCompile(`(?i)\b(?:\d+\s*%|from\s+\d|between\b|range\b|at\s+least\s+\d)`)
	stretchRe    = regexp.MustCompile(`(?i)\b(?:increase|grow|double|improve|accelerate|expand|raise)\b`)
	dependencyRe = regexp.MustCompile(`(?i)\b(?:depends?\s+on|waiting\s+(?:on|for)|out\s+of\s+(?:my|our)\s+(?:hands|control)|blocked\s+by)\b`)
	deadlineRe   = regexp.MustCompile(`(?i)\b(?:q[1-4]|by\s+(?:end\s+of|eoy|eoq|december|june)|this\s+quarter|deadline)\b`)
	hedgeRe      = regexp.MustCompile(`(?i)\b(?:hopefully|ideally|maybe|might|try\s+to|aim\s+to|if\s+possible|with\s+any\s+luck)\b`)
	niceToHaveRe = regexp.MustCompile(`(?i)\b(?:nice\s+to\s+have|side\s+project|when\s+there'?s\s+time|low\s+priority)\b`)
	lowBarRe     = regexp.MustCompile(`(?i)\b(?:at\s+least|easily|already\s+(?:on\s+track|doing|there)|safe\s+bet|comfortable)\b`)
	numberRe     = regexp.MustCompile(`\d+(?:\.\d+)?\s*%?`)
)

// outcomeNouns signal result-oriented language; their absence alongside
// activity verbs is what makes activity-focused goals suspicious.
var outcomeNouns = []string{
	"retention", "revenue", "conversion", "adoption", "satisfaction",
	"churn", "nps", "margin", "engagement", "renewal", "win rate",
}

// predicateRegistry maps catalogue predicate names to their rules.
// Adding a rule here and referencing it from catalogue.yaml is the
// whole extension surface.
var predicateRegistry = map[string]ContextualRule{
	// The message names activities but no measurable result at all.
	"no_measurable_outcome": func(text string, _ *conversation.UserContext) bool {
		if digitRe.MatchString(text) {
			return false
		}
		lower := strings.ToLower(text)
		for _, noun := range outcomeNouns {
			if strings.Contains(lower, noun) {
				return false
			}
		}
		return true
	},

	// No percentages, ranges, or progressions: pure done/not-done.
	"no_gradation": func(text string, _ *conversation.UserContext) bool {
		return !gradationRe.MatchString(text)
	},

	// Vanity metrics bite hardest in growth-oriented functions where
	// volume numbers are always at hand.
	"growth_function": func(_ string, uc *conversation.UserContext) bool {
		if uc == nil {
			return false
		}
		fn := strings.ToLower(uc.Function)
		return fn == "marketing" || fn == "growth" || fn == "sales"
	},

	// Maintenance framing with no stretch language anywhere.
	"no_stretch_language": func(text string, _ *conversation.UserContext) bool {
		return !stretchRe.MatchString(text)
	},

	// Too many distinct numbers reads as a metric dump, not key results.
	"metric_overload": func(text string, _ *conversation.UserContext) bool {
		return len(numberRe.FindAllString(text, -1)) >= 4
	},

	// No digit anywhere in the statement.
	"no_metric_present": func(text string, _ *conversation.UserContext) bool {
		return !digitRe.MatchString(text)
	},

	// The user has pushed back on scope elevation before.
	"resists_scope_elevation": func(_ string, uc *conversation.UserContext) bool {
		return uc.HasResistance("scope_elevation_resistance")
	},

	// The outcome hinges on actors the user does not influence.
	"external_dependency": func(text string, _ *conversation.UserContext) bool {
		return dependencyRe.MatchString(text)
	},

	// Date-bound delivery language marks a commitment, not an OKR.
	"deadline_language": func(text string, _ *conversation.UserContext) bool {
		return deadlineRe.MatchString(text)
	},

	// Two or more hedges turn an objective into a wish.
	"hedging_density": func(text string, _ *conversation.UserContext) bool {
		return len(hedgeRe.FindAllString(text, -1)) >= 2
	},

	// Explicitly framed as optional or peripheral work.
	"nice_to_have_language": func(text string, _ *conversation.UserContext) bool {
		return niceToHaveRe.MatchString(text)
	},

	// Comfortable-target framing alongside concrete numbers.
	"low_ambition": func(text string, _ *conversation.UserContext) bool {
		return lowBarRe.MatchString(text) && digitRe.MatchString(text)
	},
}
