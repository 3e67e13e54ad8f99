package antipattern

import (
	"strings"
	"testing"
)

func TestQualityScore(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		// Base 50, one activity verb (-8).
		{"Build the dashboard", 42},
		// Two outcome words (+20), digits (+15).
		{"Increase retention from 80% to 90%", 85},
		{"", 50},
	}
	for _, tc := range cases {
		if got := QualityScore(tc.text); got != tc.want {
			t.Errorf("QualityScore(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestQualityScore_Clamped(t *testing.T) {
	high := "Increase retention, revenue, conversion, adoption and reduce churn by 10%"
	if got := QualityScore(high); got != 100 {
		t.Errorf("score = %d, want clamped at 100", got)
	}

	low := "build, launch, implement, create, ship, deliver, migrate, deploy, write, " +
		"complete, finish the better improved great robust optimal best stronger " +
		"enhanced world-class significant thing"
	if got := QualityScore(low); got != 0 {
		t.Errorf("score = %d, want clamped at 0", got)
	}
}

func TestContainsWord(t *testing.T) {
	if containsWord("improve the customer relationship", "ship") {
		t.Error("ship matched inside relationship")
	}
	if !containsWord("ship the feature", "ship") {
		t.Error("ship at start of text not matched")
	}
	if !containsWord("we ship", "ship") {
		t.Error("ship at end of text not matched")
	}
}

func TestEvaluateReframingSuccess_ConfidenceDrops(t *testing.T) {
	eval := EvaluateReframingSuccess(
		"Build the analytics dashboard",
		"Product decisions cite live usage data in 90% of reviews",
		nil,
	)

	if !eval.Success {
		t.Fatalf("evaluation = %+v, want success", eval)
	}
	if eval.ConfidenceAfter >= eval.ConfidenceBefore {
		t.Errorf("confidence went from %v to %v, want a drop", eval.ConfidenceBefore, eval.ConfidenceAfter)
	}
	if eval.QualityAfter <= eval.QualityBefore {
		t.Errorf("quality went from %d to %d, want a rise", eval.QualityBefore, eval.QualityAfter)
	}
}

func TestEvaluateReframingSuccess_QualityAloneCounts(t *testing.T) {
	// Nothing detectable in either statement; success rides on the
	// quality score rising past the threshold.
	eval := EvaluateReframingSuccess(
		"Our objective concerns the customer experience",
		"Raise satisfaction from 70 to 85",
		nil,
	)

	if eval.ConfidenceBefore != 0 {
		t.Fatalf("confidence before = %v, want no detection", eval.ConfidenceBefore)
	}
	if !eval.Success {
		t.Fatalf("evaluation = %+v, want success on quality alone", eval)
	}
	if !strings.Contains(eval.Reason, "quality") {
		t.Errorf("reason = %q, want the quality axis named", eval.Reason)
	}
}

func TestEvaluateReframingSuccess_NoImprovement(t *testing.T) {
	text := "Build the analytics dashboard"
	eval := EvaluateReframingSuccess(text, text, nil)

	if eval.Success {
		t.Errorf("evaluation = %+v, identical statements must not count as success", eval)
	}
	if eval.ConfidenceBefore != eval.ConfidenceAfter {
		t.Errorf("identical texts scored differently: %v vs %v", eval.ConfidenceBefore, eval.ConfidenceAfter)
	}
}
