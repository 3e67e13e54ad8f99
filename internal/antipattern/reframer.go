package antipattern

import (
	"regexp"
	"strings"

	"github.com/danavoss/northstar/internal/conversation"
)

// genericOutcomeQuestion is the fallback once a strategy's scripted
// questions are exhausted.
const genericOutcomeQuestion = "Let's come at it from a different angle: " +
	"what outcome, stated as a change someone could observe, would make this quarter a success?"

// maxExamplesShown caps how many before/after examples accompany one
// reframing question.
const maxExamplesShown = 2

// activityRe extracts the activity phrase a user is fixated on, used to
// fill the {activity} placeholder in scripted questions.
var activityRe = regexp.MustCompile(`(?i)\b(?:build|launch|implement|create|ship|deliver|migrate|deploy|develop|write|finish|complete)(?:ing)?\b(?:\s+\S+){0,4}`)

// followUpsByIntervention maps each intervention type to its follow-up
// question candidates, surfaced to the orchestrator for later turns.
var followUpsByIntervention = map[InterventionType][]string{
	InterventionSocraticReframe: {
		"What would your users notice first if this succeeded?",
		"How would you know it worked without asking anyone on your team?",
	},
	InterventionMetricProbe: {
		"What's the current baseline for that number?",
		"Who looks at this metric today, and how often?",
	},
	InterventionAmbitionCalibration: {
		"What target would make the team nervous but proud?",
		"What's the version of this goal you'd set with double the resources?",
	},
	InterventionFocusNarrowing: {
		"Which single metric would you defend in a board meeting?",
		"What would you cut if you could only keep three key results?",
	},
	InterventionScopeElevation: {
		"Who above you cares about this outcome, and how do they phrase it?",
		"What changes outside your team when this lands?",
	},
	InterventionInfluenceCheck: {
		"What's the biggest lever your team alone controls here?",
		"How would you measure your contribution if the shared goal missed?",
	},
	InterventionRelevanceCheck: {
		"How does this connect to what your team is accountable for?",
		"What would you drop to make room for this?",
	},
}

// expectedOutcomes describe, per intervention type, what a successful
// reframing turn should produce. The orchestrator feeds this to the
// generation step as composition guidance.
var expectedOutcomes = map[InterventionType]string{
	InterventionSocraticReframe:     "The user restates the goal as an observable change rather than an activity.",
	InterventionMetricProbe:         "The user names a measurable quantity with a baseline and a target.",
	InterventionAmbitionCalibration: "The user adjusts the target to genuine stretch territory.",
	InterventionFocusNarrowing:      "The user ranks their metrics and keeps three to five key results.",
	InterventionScopeElevation:      "The user reframes the objective at the altitude where its impact is felt.",
	InterventionInfluenceCheck:      "The user separates what their team controls from what it merely hopes for.",
	InterventionRelevanceCheck:      "The user ties the goal to the team's core mission or drops it.",
}

// ReframingResponse is the structured material for one reframing turn.
// The language-generation step composes the actual coaching prose from
// these fields.
type ReframingResponse struct {
	PatternID       string           `json:"pattern_id"`
	Question        string           `json:"question"`
	Technique       string           `json:"technique"`
	Examples        []Example        `json:"examples,omitempty"`
	FollowUps       []string         `json:"follow_ups,omitempty"`
	ExpectedOutcome string           `json:"expected_outcome"`
	Intervention    InterventionType `json:"intervention"`
	AttemptNumber   int              `json:"attempt_number"`
}

// GenerateReframingResponse selects the next scripted question for the
// detection result's active strategy, substitutes placeholders from
// the original text and user context, and attaches contextually
// filtered examples. Returns nil when nothing was detected.
func GenerateReframingResponse(result DetectionResult, text string, uc *conversation.UserContext, previousAttempts int) *ReframingResponse {
	top := result.Top()
	if top == nil || result.ActiveStrategy == nil {
		return nil
	}
	strategy := result.ActiveStrategy

	question := genericOutcomeQuestion
	if previousAttempts < len(strategy.Questions) {
		question = strategy.Questions[previousAttempts]
	}
	question = substitutePlaceholders(question, text, uc)

	return &ReframingResponse{
		PatternID:       top.ID,
		Question:        question,
		Technique:       strategy.Technique,
		Examples:        filterExamples(strategy.Examples, uc),
		FollowUps:       followUpsByIntervention[top.InterventionType],
		ExpectedOutcome: expectedOutcomes[top.InterventionType],
		Intervention:    top.InterventionType,
		AttemptNumber:   previousAttempts + 1,
	}
}

// substitutePlaceholders fills {activity}, {industry}, and {function}
// in a scripted question template.
func substitutePlaceholders(question, text string, uc *conversation.UserContext) string {
	if strings.Contains(question, "{activity}") {
		question = strings.ReplaceAll(question, "{activity}", extractActivity(text))
	}
	industry, function := "your industry", "your function"
	if uc != nil {
		if uc.Industry != "" {
			industry = uc.Industry
		}
		if uc.Function != "" {
			function = uc.Function
		}
	}
	question = strings.ReplaceAll(question, "{industry}", industry)
	question = strings.ReplaceAll(question, "{function}", function)
	return question
}

// extractActivity pulls the activity phrase from the user's text, or
// falls back to a neutral reference.
func extractActivity(text string) string {
	match := activityRe.FindString(text)
	if match == "" {
		return "this work"
	}
	return strings.ToLower(strings.TrimSpace(match))
}

// filterExamples keeps examples that are generic or match the user's
// industry/function, capped at maxExamplesShown. Generic examples fill
// remaining slots so the user always sees something concrete.
func filterExamples(examples []Example, uc *conversation.UserContext) []Example {
	var matched, generic []Example
	for _, ex := range examples {
		if len(ex.Contexts) == 0 {
			generic = append(generic, ex)
			continue
		}
		if matchesContext(ex.Contexts, uc) {
			matched = append(matched, ex)
		}
	}

	out := append(matched, generic...)
	if len(out) > maxExamplesShown {
		out = out[:maxExamplesShown]
	}
	return out
}

func matchesContext(contexts []string, uc *conversation.UserContext) bool {
	if uc == nil {
		return false
	}
	for _, c := range contexts {
		lc := strings.ToLower(c)
		if lc == strings.ToLower(uc.Industry) || lc == strings.ToLower(uc.Function) {
			return true
		}
	}
	return false
}
