package antipattern

import (
	"strings"
	"testing"

	"github.com/danavoss/northstar/internal/conversation"
)

func TestGenerateReframingResponse_NothingDetected(t *testing.T) {
	if resp := GenerateReframingResponse(DetectionResult{}, "all good", nil, 0); resp != nil {
		t.Errorf("response = %+v, want nil when nothing was detected", resp)
	}
}

func TestGenerateReframingResponse_FirstAttempt(t *testing.T) {
	text := "Build the analytics dashboard"
	result := Detect(text, nil)

	resp := GenerateReframingResponse(result, text, nil, 0)
	if resp == nil {
		t.Fatal("expected a reframing response")
	}
	if resp.PatternID != "activity_language" {
		t.Errorf("pattern = %q", resp.PatternID)
	}
	if resp.AttemptNumber != 1 {
		t.Errorf("attempt = %d, want 1", resp.AttemptNumber)
	}
	// The {activity} placeholder is filled from the user's own words.
	if !strings.Contains(resp.Question, "build the analytics dashboard") {
		t.Errorf("question = %q, want the extracted activity phrase", resp.Question)
	}
	if strings.Contains(resp.Question, "{activity}") {
		t.Errorf("unsubstituted placeholder in question: %q", resp.Question)
	}
	if resp.ExpectedOutcome == "" {
		t.Error("expected outcome must accompany the question")
	}
	if len(resp.FollowUps) == 0 {
		t.Error("follow-up candidates must accompany the question")
	}
}

func TestGenerateReframingResponse_QuestionsEscalate(t *testing.T) {
	text := "Build the analytics dashboard"
	result := Detect(text, nil)

	first := GenerateReframingResponse(result, text, nil, 0)
	third := GenerateReframingResponse(result, text, nil, 2)

	if first.Question == third.Question {
		t.Error("repeated attempts should move to a different scripted question")
	}
	if third.AttemptNumber != 3 {
		t.Errorf("attempt = %d, want 3", third.AttemptNumber)
	}
}

func TestGenerateReframingResponse_ExhaustedScriptFallsBack(t *testing.T) {
	text := "Build the analytics dashboard"
	result := Detect(text, nil)

	resp := GenerateReframingResponse(result, text, nil, 5)
	if !strings.Contains(resp.Question, "different angle") {
		t.Errorf("question = %q, want the generic fallback after the script runs out", resp.Question)
	}
}

func TestGenerateReframingResponse_ExamplesMatchFunction(t *testing.T) {
	text := "Build the analytics dashboard"
	result := Detect(text, nil)
	uc := &conversation.UserContext{Function: "engineering"}

	resp := GenerateReframingResponse(result, text, uc, 0)
	if len(resp.Examples) != 2 {
		t.Fatalf("examples = %d, want capped at 2", len(resp.Examples))
	}
	for _, ex := range resp.Examples {
		if len(ex.Contexts) == 0 {
			continue
		}
		if !matchesContext(ex.Contexts, uc) {
			t.Errorf("example %q does not match the user's function", ex.Before)
		}
	}
}

func TestGenerateReframingResponse_GenericExamplesWithoutContext(t *testing.T) {
	text := "Build the analytics dashboard"
	result := Detect(text, nil)

	resp := GenerateReframingResponse(result, text, nil, 0)
	for _, ex := range resp.Examples {
		if len(ex.Contexts) != 0 {
			t.Errorf("context-bound example %q shown to a user with no context", ex.Before)
		}
	}
	if len(resp.Examples) == 0 {
		t.Error("generic examples should still be shown")
	}
}

func TestSubstitutePlaceholders(t *testing.T) {
	uc := &conversation.UserContext{Industry: "saas", Function: "marketing"}

	got := substitutePlaceholders("In {industry}, {function} teams often see this.", "", uc)
	if got != "In saas, marketing teams often see this." {
		t.Errorf("substituted = %q", got)
	}

	got = substitutePlaceholders("In {industry}, for {function}.", "", nil)
	if got != "In your industry, for your function." {
		t.Errorf("defaults = %q", got)
	}
}

func TestExtractActivity(t *testing.T) {
	if got := extractActivity("We plan to Launch the new mobile checkout flow next month"); got != "launch the new mobile checkout" {
		t.Errorf("activity = %q", got)
	}
	if got := extractActivity("things should be nicer"); got != "this work" {
		t.Errorf("fallback = %q, want neutral reference", got)
	}
}
