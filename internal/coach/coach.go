// Package coach composes the four decision components — anti-pattern
// detection, altitude tracking, checkpoint progress, and question flow
// — into per-turn analysis.
//
// Everything here is a synchronous, pure-function-over-state
// transformation: the caller loads session state, Classify/Deliver
// mutate it in memory and return derived values, and the caller
// persists the finished snapshot. Turns for one session must be
// processed sequentially; different sessions share nothing.
package coach

import (
	"github.com/danavoss/northstar/internal/altitude"
	"github.com/danavoss/northstar/internal/antipattern"
	"github.com/danavoss/northstar/internal/checkpoint"
	"github.com/danavoss/northstar/internal/conversation"
	"github.com/danavoss/northstar/internal/questionflow"
	"github.com/danavoss/northstar/internal/session"
)

// TurnAnalysis is everything the orchestrating host needs to compose
// one coaching response. It carries structured facts only — the
// language-generation step turns them into prose.
type TurnAnalysis struct {
	SessionID string                   `json:"session_id"`
	Message   string                   `json:"message"`
	Neural    conversation.NeuralState `json:"neural_state"`

	Detection antipattern.DetectionResult    `json:"detection"`
	Reframing *antipattern.ReframingResponse `json:"reframing,omitempty"`

	Drift        altitude.DriftResult        `json:"drift"`
	DriftEvent   *altitude.ScopeDriftEvent   `json:"drift_event,omitempty"`
	Intervention *altitude.ScarfIntervention `json:"intervention,omitempty"`
	Insight      altitude.InsightSignals     `json:"insight"`

	CompletedCheckpoints []checkpoint.Checkpoint `json:"completed_checkpoints,omitempty"`
	Celebration          string                  `json:"celebration,omitempty"`

	// NextQuestion is a previously queued question released this turn,
	// if the user's message cleared the way for one.
	NextQuestion string `json:"next_question,omitempty"`
}

// Classify runs one user message through the decision core and updates
// the session context in place. It never fails: empty or malformed
// input produces an empty analysis, not an error.
func Classify(ctx *session.Context, message string, neural conversation.NeuralState) *TurnAnalysis {
	analysis := &TurnAnalysis{
		SessionID: ctx.SessionID,
		Message:   message,
		Neural:    neural,
	}

	// The incoming message answers whatever question is outstanding.
	ctx.Questions.RecordAnswer(message)

	// Anti-pattern detection and altitude classification are both pure
	// functions over the message plus prior state.
	analysis.Detection = antipattern.Detect(message, &ctx.User)
	if top := analysis.Detection.Top(); top != nil {
		attempts := ctx.NextReframeAttempt(top.ID)
		analysis.Reframing = antipattern.GenerateReframingResponse(analysis.Detection, message, &ctx.User, attempts)
	}

	analysis.Insight = altitude.DetectInsightReadiness(message)
	analysis.Drift = ctx.Altitude.DetectDrift(message)
	if analysis.Drift.Detected {
		event := ctx.Altitude.RecordDriftEvent(analysis.Drift.NewScope, message, "keyword")
		analysis.DriftEvent = &event

		scarf := altitude.GenerateScarfIntervention(event, neural)
		scarf.Timing = altitude.DetermineInterventionTiming(event.DriftMagnitude, analysis.Insight, neural)
		analysis.Intervention = &scarf
	}

	// Checkpoint detection runs last so it can't mask a reframing turn:
	// at most one checkpoint completes per message.
	if completed := ctx.Checkpoints.DetectCompletion(message, neural); len(completed) > 0 {
		analysis.CompletedCheckpoints = completed
		analysis.Celebration = checkpoint.GenerateCelebration(completed[0], ctx.Checkpoints)
		ctx.ReinforceHabit(completed[0].ID)
	}

	if ctx.Questions.ShouldAskNextQuestion(message) {
		analysis.NextQuestion = ctx.Questions.GetNextQuestion()
	}

	ctx.TurnCount++
	return analysis
}

// Deliver pipes raw generated assistant text through the question flow
// manager, enforcing the one-question-per-turn rule, and updates the
// session's question state in place.
func Deliver(ctx *session.Context, generatedText string) questionflow.ProcessResult {
	return ctx.Questions.ProcessResponse(generatedText)
}
