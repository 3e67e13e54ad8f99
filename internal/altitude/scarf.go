package altitude

import (
	"fmt"

	"github.com/danavoss/northstar/internal/conversation"
)

// ScarfIntervention is the structured five-part framing for a scope
// correction. It carries the facts the language-generation step needs;
// composing the final prose is the generator's job.
type ScarfIntervention struct {
	TargetScope Scope `json:"target_scope"`

	// Status: affirm the value of what the user brought before
	// redirecting it.
	StatusPreservation string `json:"status_preservation"`

	// Certainty: exactly three concrete next steps at the target
	// altitude.
	NextSteps [3]string `json:"next_steps"`

	// Autonomy: a genuine two-option choice the user makes.
	OptionA string `json:"option_a"`
	OptionB string `json:"option_b"`

	// Relatedness: frame the correction as shared work.
	RelatednessFraming string `json:"relatedness_framing"`

	// Fairness: state why the redirect is being suggested.
	FairnessReasoning string `json:"fairness_reasoning"`

	Timing InterventionTiming `json:"timing"`
}

// scopeDescriptions gives a short human label per altitude, used when
// composing interventions.
var scopeDescriptions = map[Scope]string{
	ScopeStrategic:    "company-level direction",
	ScopeDepartmental: "department-level outcomes",
	ScopeTeam:         "your team's outcomes",
	ScopeInitiative:   "the initiative's success measures",
	ScopeProject:      "project deliverables",
}

// scopeNextSteps provides the three concrete steps offered for each
// target altitude.
var scopeNextSteps = map[Scope][3]string{
	ScopeStrategic: {
		"Name the company-level change this objective serves",
		"Describe how you would notice that change from outside your org",
		"Pick one measure the executive team already watches",
	},
	ScopeDepartmental: {
		"State the department outcome your work rolls up into",
		"Identify which other teams share that outcome",
		"Choose a measure visible at the department level",
	},
	ScopeTeam: {
		"Restate the objective in terms of what your team changes for others",
		"Name who notices when your team succeeds",
		"Pick one measure your team directly moves",
	},
	ScopeInitiative: {
		"Describe what success looks like after the launch, not the launch itself",
		"Name the adoption or usage change you expect",
		"Pick a measure that keeps mattering three months later",
	},
	ScopeProject: {
		"List the concrete deliverable this work produces",
		"State who consumes the deliverable and what it unblocks",
		"Pick the completion signal everyone would agree on",
	},
}

// GenerateScarfIntervention builds the structured intervention for a
// recorded drift event. The target altitude is the scope the session
// should return to (the event's FromScope); the message acknowledges
// where the user went (ToScope).
func GenerateScarfIntervention(event ScopeDriftEvent, neural conversation.NeuralState) ScarfIntervention {
	target := event.FromScope
	drifted := event.ToScope

	signals := InsightSignals{} // timing for an explicit intervention ignores in-message signals
	timing := DetermineInterventionTiming(event.DriftMagnitude, signals, neural)

	return ScarfIntervention{
		TargetScope: target,
		StatusPreservation: fmt.Sprintf(
			"Thinking about %s shows you understand how the pieces connect — that instinct is worth keeping.",
			scopeDescriptions[drifted],
		),
		NextSteps: scopeNextSteps[target],
		OptionA: fmt.Sprintf("We can reframe this at the level of %s now", scopeDescriptions[target]),
		OptionB: fmt.Sprintf("Or we can park the %s angle and come back to it after the objective is drafted", scopeDescriptions[drifted]),
		RelatednessFraming: "Most people writing their first OKR drift between levels — sorting out which level owns this is something we do together.",
		FairnessReasoning: fmt.Sprintf(
			"Your objective started at %s, and measures only work when the objective and its key results live at the same level.",
			scopeDescriptions[target],
		),
		Timing: timing,
	}
}
