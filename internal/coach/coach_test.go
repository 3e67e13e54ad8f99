package coach

import (
	"strings"
	"testing"

	"github.com/danavoss/northstar/internal/altitude"
	"github.com/danavoss/northstar/internal/conversation"
	"github.com/danavoss/northstar/internal/session"
)

func seedContext(t *testing.T) *session.Context {
	t.Helper()
	ctx, err := session.NewContext("sess-1", altitude.ScopeTeam, "eng manager", conversation.UserContext{
		Function: "engineering",
	})
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	return ctx
}

func TestClassify_PlainMessage(t *testing.T) {
	ctx := seedContext(t)

	a := Classify(ctx, "Sounds reasonable to me", conversation.StateNeutral)

	if a.Detection.Detected() {
		t.Errorf("detection = %+v, want none", a.Detection)
	}
	if a.Reframing != nil || a.Intervention != nil || a.Celebration != "" {
		t.Errorf("analysis carries interventions for a plain message: %+v", a)
	}
	if ctx.TurnCount != 1 {
		t.Errorf("turn count = %d, want 1", ctx.TurnCount)
	}
}

func TestClassify_AntiPatternProducesReframing(t *testing.T) {
	ctx := seedContext(t)

	a := Classify(ctx, "My objective is to build the analytics dashboard", conversation.StateNeutral)

	if a.Reframing == nil {
		t.Fatal("expected a reframing response")
	}
	if a.Reframing.PatternID != "activity_language" {
		t.Errorf("pattern = %q", a.Reframing.PatternID)
	}
	if a.Reframing.AttemptNumber != 1 {
		t.Errorf("attempt = %d, want 1", a.Reframing.AttemptNumber)
	}
	if ctx.ReframeAttempts["activity_language"] != 1 {
		t.Errorf("attempts recorded = %v", ctx.ReframeAttempts)
	}
}

func TestClassify_ReframingEscalatesAcrossTurns(t *testing.T) {
	ctx := seedContext(t)

	first := Classify(ctx, "We need to build the analytics dashboard", conversation.StateNeutral)
	second := Classify(ctx, "Still, the goal is to build the analytics dashboard", conversation.StateNeutral)

	if first.Reframing.Question == second.Reframing.Question {
		t.Error("repeated pattern should escalate to the next scripted question")
	}
	if second.Reframing.AttemptNumber != 2 {
		t.Errorf("attempt = %d, want 2", second.Reframing.AttemptNumber)
	}
}

func TestClassify_DriftTriggersIntervention(t *testing.T) {
	ctx := seedContext(t)

	a := Classify(ctx, "Honestly we should become the market leader", conversation.StateNeutral)

	if !a.Drift.Detected {
		t.Fatal("expected drift to strategic")
	}
	if a.DriftEvent == nil || a.DriftEvent.ToScope != altitude.ScopeStrategic {
		t.Fatalf("drift event = %+v", a.DriftEvent)
	}
	if a.Intervention == nil {
		t.Fatal("expected a SCARF intervention")
	}
	if a.Intervention.TargetScope != altitude.ScopeTeam {
		t.Errorf("target scope = %q, want the anchored scope", a.Intervention.TargetScope)
	}
	if ctx.Altitude.CurrentScope != altitude.ScopeStrategic {
		t.Errorf("tracker scope = %q, want updated", ctx.Altitude.CurrentScope)
	}
}

func TestClassify_ThreatForcesImmediateTiming(t *testing.T) {
	ctx := seedContext(t)

	a := Classify(ctx, "Fine — we should just become the market leader", conversation.StateThreat)

	if a.Intervention == nil {
		t.Fatal("expected an intervention")
	}
	if a.Intervention.Timing != altitude.TimingImmediate {
		t.Errorf("timing = %q, want immediate under threat", a.Intervention.Timing)
	}
}

func TestClassify_CheckpointCompletionCelebrated(t *testing.T) {
	ctx := seedContext(t)

	a := Classify(ctx, "I'm an engineering manager with 12 direct reports", conversation.StateNeutral)

	if len(a.CompletedCheckpoints) != 1 || a.CompletedCheckpoints[0].ID != "role_identified" {
		t.Fatalf("completed = %+v", a.CompletedCheckpoints)
	}
	if a.Celebration == "" {
		t.Error("expected a celebration")
	}
	if ctx.Habits["role_identified"] == nil {
		t.Error("completion should reinforce the matching habit loop")
	}
}

func TestClassify_ReleasesQueuedQuestion(t *testing.T) {
	ctx := seedContext(t)
	ctx.Questions.ProcessResponse("What outcome do you want?\nWhat number would prove it?")

	a := Classify(ctx, "We want churn meaningfully lower by summer", conversation.StateNeutral)

	if a.NextQuestion == "" {
		t.Fatal("substantive answer should release the queued question")
	}
	if !strings.Contains(a.NextQuestion, "What number would prove it") {
		t.Errorf("released = %q", a.NextQuestion)
	}
}

func TestClassify_RecordsAnswer(t *testing.T) {
	ctx := seedContext(t)
	ctx.Questions.ProcessResponse("What outcome do you want?")

	Classify(ctx, "Churn below 3% monthly", conversation.StateNeutral)

	if ctx.Questions.AnsweredQuestions["What outcome do you want?"] != "Churn below 3% monthly" {
		t.Errorf("answers = %v", ctx.Questions.AnsweredQuestions)
	}
}

func TestDeliver_EnforcesSingleQuestion(t *testing.T) {
	ctx := seedContext(t)

	result := Deliver(ctx, "Two things.\nWhat does success look like for users?\nWho owns the metric today?")

	if !result.HasQueued {
		t.Error("second question should be queued")
	}
	if strings.Contains(result.ResponseToUser, "Who owns the metric today?") {
		t.Errorf("second question leaked: %q", result.ResponseToUser)
	}
	if len(ctx.Questions.PendingQuestions) != 1 {
		t.Errorf("pending = %v", ctx.Questions.PendingQuestions)
	}
}

// ─── Guidance composition ────────────────────────────────────────────────────

func TestComposeGuidance_QuietTurn(t *testing.T) {
	ctx := seedContext(t)
	a := Classify(ctx, "Sounds reasonable to me", conversation.StateNeutral)

	text := ComposeGuidance(a, ctx)

	if !strings.Contains(text, "## No Interventions This Turn") {
		t.Errorf("guidance missing the quiet-turn section:\n%s", text)
	}
	if !strings.Contains(text, "okr_deliver") {
		t.Error("guidance must route the draft through okr_deliver")
	}
}

func TestComposeGuidance_ReframingSection(t *testing.T) {
	ctx := seedContext(t)
	a := Classify(ctx, "My objective is to build the analytics dashboard", conversation.StateNeutral)

	text := ComposeGuidance(a, ctx)

	if !strings.Contains(text, "## Anti-Pattern Detected") {
		t.Fatalf("guidance missing the reframing section:\n%s", text)
	}
	if !strings.Contains(text, "activity_language") {
		t.Error("guidance should name the detected pattern")
	}
	if !strings.Contains(text, a.Reframing.Question) {
		t.Error("guidance should carry the scripted question")
	}
}

func TestComposeGuidance_DriftSection(t *testing.T) {
	ctx := seedContext(t)
	a := Classify(ctx, "Honestly we should become the market leader", conversation.StateNeutral)

	text := ComposeGuidance(a, ctx)

	if !strings.Contains(text, "## Scope Drift") {
		t.Fatalf("guidance missing the drift section:\n%s", text)
	}
	for _, element := range []string{"Affirm first", "Certainty", "Autonomy", "Relatedness", "Fairness"} {
		if !strings.Contains(text, element) {
			t.Errorf("guidance missing SCARF element %q", element)
		}
	}
}

func TestComposeGuidance_ThreatNote(t *testing.T) {
	ctx := seedContext(t)
	a := Classify(ctx, "Sounds reasonable to me", conversation.StateThreat)

	text := ComposeGuidance(a, ctx)
	if !strings.Contains(text, "lead with affirmation") {
		t.Error("guidance should flag the threatened state")
	}
}
