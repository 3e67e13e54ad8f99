// Package checkpoint tracks structured progress through the phases of
// an OKR coaching conversation.
//
// Each phase carries a fixed, ordered set of checkpoints — discrete
// sub-goals whose completion is inferred from message content. At most
// one checkpoint completes per message: the first matching predicate
// wins and later predicates are not evaluated, so progress stays
// legible turn by turn.
package checkpoint

import (
	"fmt"
	"regexp"
)

// --- Phase enum ---

// Phase is a stage of the coaching conversation.
type Phase string

const (
	PhaseDiscovery   Phase = "discovery"
	PhaseRefinement  Phase = "refinement"
	PhaseKRDiscovery Phase = "kr_discovery"
	PhaseValidation  Phase = "validation"
)

// validPhases is the set of allowed phases.
var validPhases = map[Phase]bool{
	PhaseDiscovery:   true,
	PhaseRefinement:  true,
	PhaseKRDiscovery: true,
	PhaseValidation:  true,
}

// ValidatePhase returns an error if the phase is not recognized.
func ValidatePhase(p Phase) error {
	if !validPhases[p] {
		return fmt.Errorf("invalid phase %q: must be one of: discovery, refinement, kr_discovery, validation", p)
	}
	return nil
}

// --- Checkpoint definitions ---

// definition pairs a checkpoint with its completion predicate.
type definition struct {
	id        string
	label     string
	predicate func(message string) bool
}

var (
	roleRe        = regexp.MustCompile(`(?i)\b(?:i'?m|i am|my role|as an?|i lead|i manage|i run)\b|\b\d+\s*(?:people|engineers|reports|direct reports)\b`)
	problemRe     = regexp.MustCompile(`(?i)\b(?:problem|struggl\w*|pain|issue|challenge|frustrat\w*|bottleneck|broken)\b`)
	impactRe      = regexp.MustCompile(`(?i)\b(?:costs?\s+us|losing|missed|slow(?:s|ing)?\s+(?:us\s+)?down|hurt(?:s|ing)?|blocks?)\b`)
	outcomeNumRe  = regexp.MustCompile(`(?i)\b(?:increase|reduce|improve|grow|reach|cut|double|halve|from|to)\b[^.?!]*\d`)
	scopeAgreeRe  = regexp.MustCompile(`(?i)\b(?:right\s+(?:level|altitude|scope)|at\s+(?:the\s+)?team\s+level|team[- ]level\s+(?:goal|objective)|that'?s\s+(?:my|our)\s+level)\b`)
	outcomeLangRe = regexp.MustCompile(`(?i)\b(?:so\s+that|resulting\s+in|leads?\s+to|which\s+means|the\s+result\s+is)\b|\b(?:retention|revenue|conversion|satisfaction|adoption|churn)\b`)
	singleFocusRe = regexp.MustCompile(`(?i)\band\b[^.?!]*\band\b[^.?!]*\band\b`)
	inspirationRe = regexp.MustCompile(`(?i)\b(?:excit\w*|inspir\w*|proud|ambitious|motivat\w*|energiz\w*)\b`)
	objectiveRe   = regexp.MustCompile(`(?i)\bobjective\b`)
	metricRe      = regexp.MustCompile(`(?i)\b(?:metric|measure|kpi)\b|\d+\s*%|\bpercent\b`)
	baselineRe    = regexp.MustCompile(`(?i)\b(?:currently|today|baseline|right\s+now|at\s+the\s+moment|we'?re\s+at)\b[^.?!]*\d|\bfrom\s+\d`)
	targetRe      = regexp.MustCompile(`(?i)\bto\s+\d|\btargets?\b[^.?!]*\d|\breach(?:ing)?\s+\d|\bgoal\s+of\s+\d`)
	influenceRe   = regexp.MustCompile(`(?i)\b(?:we\s+control|our\s+team\s+(?:can|owns?|drives?)|within\s+our\s+(?:control|influence)|we\s+can\s+move)\b`)
	krsRe         = regexp.MustCompile(`(?i)\bkey\s+results?\b|\bkrs?\b`)
	measureConfRe = regexp.MustCompile(`(?i)\b(?:can\s+(?:be\s+)?measured?|we(?:'ll|\s+will)\s+track|dashboard|weekly|monthly|instrument\w*)\b`)
	ambitionRe    = regexp.MustCompile(`(?i)\b(?:stretch|ambitious|confiden\w*)\b|\b[5-7]\s*(?:out\s+of|/)\s*10\b`)
	commitmentRe  = regexp.MustCompile(`(?i)\b(?:i'?m\s+in|let'?s\s+do\s+it|committ?ed|on\s+board|ready\s+to\s+(?:go|start)|sign(?:ed)?\s+off)\b`)
	digitRe       = regexp.MustCompile(`\d`)
)

// phaseDefinitions holds the fixed, ordered checkpoint set per phase.
// Order matters: DetectCompletion evaluates predicates in this order
// and stops at the first match.
var phaseDefinitions = map[Phase][]definition{
	PhaseDiscovery: {
		{"role_identified", "Role and team context established", roleRe.MatchString},
		{"problem_stated", "Core problem articulated", problemRe.MatchString},
		{"impact_described", "Cost of the problem described", impactRe.MatchString},
		{"outcome_envisioned", "Desired outcome with a number", outcomeNumRe.MatchString},
		{"scope_agreed", "Organizational altitude agreed", scopeAgreeRe.MatchString},
	},
	PhaseRefinement: {
		{"outcome_language", "Goal stated in outcome language", outcomeLangRe.MatchString},
		{"single_focus", "Objective narrowed to one focus", func(m string) bool {
			return objectiveRe.MatchString(m) && !singleFocusRe.MatchString(m)
		}},
		{"inspiration_present", "Objective is genuinely motivating", inspirationRe.MatchString},
		{"objective_drafted", "Full objective statement drafted", func(m string) bool {
			return objectiveRe.MatchString(m) && len(m) > 40
		}},
	},
	PhaseKRDiscovery: {
		{"metric_identified", "Candidate metric named", metricRe.MatchString},
		{"baseline_known", "Current baseline stated", baselineRe.MatchString},
		{"target_set", "Numeric target proposed", targetRe.MatchString},
		{"influence_verified", "Metric sits within team influence", influenceRe.MatchString},
		{"krs_drafted", "Key results drafted with numbers", func(m string) bool {
			return krsRe.MatchString(m) && digitRe.MatchString(m)
		}},
	},
	PhaseValidation: {
		{"measurability_confirmed", "Tracking mechanism confirmed", measureConfRe.MatchString},
		{"ambition_calibrated", "Stretch level calibrated", ambitionRe.MatchString},
		{"commitment_affirmed", "Owner committed to the OKR", commitmentRe.MatchString},
	},
}

// CheckpointCount returns how many checkpoints a phase carries
// (discovery 5, refinement 4, kr_discovery 5, validation 3).
func CheckpointCount(p Phase) int {
	return len(phaseDefinitions[p])
}

// PhaseOrder is the canonical coaching sequence.
var PhaseOrder = []Phase{PhaseDiscovery, PhaseRefinement, PhaseKRDiscovery, PhaseValidation}

// Info describes one checkpoint without its predicate, for read-only
// consumers like resources and status views.
type Info struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// PhaseCheckpoints returns the ordered checkpoint descriptions for a
// phase.
func PhaseCheckpoints(p Phase) []Info {
	defs := phaseDefinitions[p]
	out := make([]Info, len(defs))
	for i, d := range defs {
		out[i] = Info{ID: d.id, Label: d.label}
	}
	return out
}
