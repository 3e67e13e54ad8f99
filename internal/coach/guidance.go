package coach

import (
	"fmt"
	"strings"

	"github.com/danavoss/northstar/internal/altitude"
	"github.com/danavoss/northstar/internal/conversation"
	"github.com/danavoss/northstar/internal/session"
)

// ComposeGuidance renders a TurnAnalysis as composition guidance for
// the AI that generates the actual coaching response. The analysis
// carries the decisions; the guidance tells the generator how to turn
// them into one coherent reply — and to route the draft back through
// okr_deliver so the one-question-per-turn rule is enforced.
func ComposeGuidance(a *TurnAnalysis, ctx *session.Context) string {
	var sb strings.Builder

	sb.WriteString("# Turn Analysis\n\n")
	sb.WriteString(fmt.Sprintf("**Session:** %s | **Phase:** %s | **Turn:** %d | **Neural state:** %s\n\n",
		a.SessionID, ctx.Phase, ctx.TurnCount, a.Neural))

	if a.Celebration != "" {
		sb.WriteString("## Progress\n\n")
		sb.WriteString(a.Celebration)
		sb.WriteString("\n\nOpen your reply by acknowledging this progress, briefly and specifically.\n\n")
	}

	if a.Reframing != nil {
		r := a.Reframing
		sb.WriteString("## Anti-Pattern Detected\n\n")
		if top := a.Detection.Top(); top != nil {
			sb.WriteString(fmt.Sprintf("**Pattern:** %s (%s severity, confidence %.2f)\n", top.ID, top.Severity, top.Confidence))
		}
		sb.WriteString(fmt.Sprintf("**Technique:** %s | **Attempt:** %d\n\n", r.Technique, r.AttemptNumber))
		sb.WriteString(fmt.Sprintf("Work this question into your reply, in your own words:\n\n> %s\n\n", r.Question))
		for _, ex := range r.Examples {
			sb.WriteString(fmt.Sprintf("Example you may offer — before: %q, after: %q (%s)\n", ex.Before, ex.After, ex.Explanation))
		}
		sb.WriteString(fmt.Sprintf("\n_Success looks like: %s_\n\n", r.ExpectedOutcome))
	}

	if a.Intervention != nil {
		iv := a.Intervention
		sb.WriteString("## Scope Drift\n\n")
		if a.DriftEvent != nil {
			sb.WriteString(fmt.Sprintf("The conversation moved from **%s** to **%s** (magnitude %.1f). Timing: **%s**.\n\n",
				a.DriftEvent.FromScope, a.DriftEvent.ToScope, a.DriftEvent.DriftMagnitude, iv.Timing))
		}
		switch iv.Timing {
		case altitude.TimingImmediate:
			sb.WriteString("Redirect in THIS reply, using all five elements below.\n\n")
		case altitude.TimingAfterReflection:
			sb.WriteString("Let the user finish their thought first, then redirect within this reply.\n\n")
		default:
			sb.WriteString("Do not redirect yet — note it and raise the redirect next turn.\n\n")
		}
		sb.WriteString(fmt.Sprintf("1. **Affirm first:** %s\n", iv.StatusPreservation))
		sb.WriteString(fmt.Sprintf("2. **Certainty — offer these next steps:** %s; %s; %s\n",
			iv.NextSteps[0], iv.NextSteps[1], iv.NextSteps[2]))
		sb.WriteString(fmt.Sprintf("3. **Autonomy — give this choice:** %s / %s\n", iv.OptionA, iv.OptionB))
		sb.WriteString(fmt.Sprintf("4. **Relatedness:** %s\n", iv.RelatednessFraming))
		sb.WriteString(fmt.Sprintf("5. **Fairness:** %s\n\n", iv.FairnessReasoning))
	}

	if a.Insight.Any() {
		sb.WriteString("## Insight Signals\n\n")
		sb.WriteString("The user is working something out")
		var parts []string
		if a.Insight.PausingToThink {
			parts = append(parts, "pausing")
		}
		if a.Insight.QuestioningAssumptions {
			parts = append(parts, "self-questioning")
		}
		if a.Insight.ConnectingDots {
			parts = append(parts, "connecting ideas")
		}
		if a.Insight.VerbalizingThinking {
			parts = append(parts, "thinking aloud")
		}
		sb.WriteString(fmt.Sprintf(" (%s). Leave room — do not fill the silence with new topics.\n\n", strings.Join(parts, ", ")))
	}

	if a.NextQuestion != "" {
		sb.WriteString("## Queued Question Released\n\n")
		sb.WriteString(fmt.Sprintf("The user's answer cleared the way for this queued question — ask it now:\n\n> %s\n\n", a.NextQuestion))
	}

	if a.Reframing == nil && a.Intervention == nil && a.Celebration == "" && a.NextQuestion == "" {
		sb.WriteString("## No Interventions This Turn\n\n")
		sb.WriteString("Nothing to correct. Respond naturally and keep the conversation moving toward the current phase's open checkpoints.\n\n")
	}

	sb.WriteString("---\n\n")
	sb.WriteString("## Composing Your Reply\n\n")
	sb.WriteString("1. Write one warm, conversational reply that weaves the sections above together\n")
	sb.WriteString("2. Ask at most ONE question\n")
	sb.WriteString("3. Call `okr_deliver` with your draft before showing it to the user\n")
	if a.Neural == conversation.StateThreat {
		sb.WriteString("4. The user reads as threatened — lead with affirmation, avoid stacking corrections\n")
	}

	return sb.String()
}
