package altitude

import "github.com/danavoss/northstar/internal/conversation"

// InterventionTiming says when a scope-correction intervention should
// be delivered relative to the current turn.
type InterventionTiming string

const (
	TimingImmediate       InterventionTiming = "immediate"
	TimingAfterReflection InterventionTiming = "after_reflection"
	TimingNextTurn        InterventionTiming = "next_turn"
)

// Drift magnitude bands for timing decisions.
const (
	highDriftThreshold     = 0.6
	moderateDriftThreshold = 0.4
)

// DetermineInterventionTiming decides when to surface a scope
// correction. The rules, in order:
//
//  1. A threatened user always gets the intervention immediately —
//     ambiguity about what happens next makes threat worse.
//  2. High drift (≥0.6) with no readiness signals: immediate, the user
//     is far off course and not mid-insight.
//  3. Moderate drift (≥0.4) with any readiness signal: after the user
//     finishes the thought they are forming.
//  4. Low drift with multiple readiness signals: hold until next turn.
//
// Everything else defaults by drift band: meaningful drift waits for
// reflection, small drift waits a turn.
func DetermineInterventionTiming(driftMagnitude float64, signals InsightSignals, neural conversation.NeuralState) InterventionTiming {
	if neural == conversation.StateThreat {
		return TimingImmediate
	}

	if driftMagnitude >= highDriftThreshold && !signals.Any() {
		return TimingImmediate
	}

	if driftMagnitude >= moderateDriftThreshold && signals.Any() {
		return TimingAfterReflection
	}

	if driftMagnitude < moderateDriftThreshold && signals.Count() >= 2 {
		return TimingNextTurn
	}

	if driftMagnitude >= moderateDriftThreshold {
		return TimingAfterReflection
	}
	return TimingNextTurn
}
