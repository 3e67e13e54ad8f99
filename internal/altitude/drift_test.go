package altitude

import (
	"testing"
	"time"
)

// ─── Classification ──────────────────────────────────────────────────────────

func TestClassify_Benchmark(t *testing.T) {
	cases := []struct {
		text string
		want Scope
	}{
		{"Build authentication microservice", ScopeProject},
		{"Implement real-time sync", ScopeProject},
		{"Refactor the billing codebase", ScopeProject},
		{"Launch the mobile app and drive adoption", ScopeInitiative},
		{"Get stakeholders aligned on the rollout", ScopeInitiative},
		{"My team's velocity keeps dropping", ScopeTeam},
		{"I want better outcomes for my direct reports", ScopeTeam},
		{"We need a cross-functional effort across teams", ScopeDepartmental},
		{"The engineering org needs a reliability overhaul", ScopeDepartmental},
		{"Become the market leader in our category", ScopeStrategic},
		{"Transform our business model", ScopeStrategic},
	}

	for _, tc := range cases {
		got, conf := Classify(tc.text)
		if got != tc.want {
			t.Errorf("Classify(%q) = %q, want %q", tc.text, got, tc.want)
		}
		if got != "" && (conf < 0.6 || conf > 0.95) {
			t.Errorf("Classify(%q) confidence = %v, want within [0.6, 0.95]", tc.text, conf)
		}
	}
}

func TestClassify_NoMatch(t *testing.T) {
	scope, conf := Classify("I had a sandwich for lunch")
	if scope != "" || conf != 0 {
		t.Errorf("Classify(no signal) = (%q, %v), want (\"\", 0)", scope, conf)
	}
}

func TestClassify_EmptyText(t *testing.T) {
	scope, conf := Classify("   ")
	if scope != "" || conf != 0 {
		t.Errorf("Classify(blank) = (%q, %v), want (\"\", 0)", scope, conf)
	}
}

func TestClassify_CoarsestFamilyWins(t *testing.T) {
	// "across teams" must read as departmental even though "team" also
	// appears in the text.
	scope, _ := Classify("We want consistency across teams, starting with my team")
	if scope != ScopeDepartmental {
		t.Errorf("scope = %q, want departmental", scope)
	}
}

func TestClassify_ConfidenceGrowsWithMatches(t *testing.T) {
	_, single := Classify("build the service")
	_, multi := Classify("build, ship and deploy the codebase")
	if multi <= single {
		t.Errorf("confidence with more matches = %v, want > %v", multi, single)
	}
}

func TestClassify_ConfidenceCap(t *testing.T) {
	_, conf := Classify("build implement ship deploy migrate refactor the codebase, the service, the feature, pull request")
	if conf != 0.95 {
		t.Errorf("confidence = %v, want capped at 0.95", conf)
	}
}

// ─── Drift detection ─────────────────────────────────────────────────────────

func TestDetectDrift_SameScopeIsNotDrift(t *testing.T) {
	tr := New(ScopeProject, "engineer")
	result := tr.DetectDrift("Let's build the ingestion service")
	if result.Detected {
		t.Error("message at the anchored scope should not be drift")
	}
}

func TestDetectDrift_DifferentScope(t *testing.T) {
	tr := New(ScopeTeam, "eng manager")
	result := tr.DetectDrift("Honestly I want us to become the market leader")
	if !result.Detected {
		t.Fatal("expected drift to strategic")
	}
	if result.NewScope != ScopeStrategic {
		t.Errorf("new scope = %q, want strategic", result.NewScope)
	}
}

func TestDetectDrift_NoSignalIsNotDrift(t *testing.T) {
	tr := New(ScopeTeam, "eng manager")
	result := tr.DetectDrift("That makes sense to me")
	if result.Detected {
		t.Error("unclassifiable message should not be drift")
	}
}

func TestRecordDriftEvent_AdjacentMagnitude(t *testing.T) {
	tr := New(ScopeTeam, "eng manager")
	event := tr.RecordDriftEvent(ScopeInitiative, "the launch", "keyword")

	if event.DriftMagnitude != 0.2 {
		t.Errorf("adjacent drift magnitude = %v, want 0.2", event.DriftMagnitude)
	}
	if event.FromScope != ScopeTeam || event.ToScope != ScopeInitiative {
		t.Errorf("event scopes = %q → %q, want team → initiative", event.FromScope, event.ToScope)
	}
	if tr.CurrentScope != ScopeInitiative {
		t.Errorf("tracker current scope = %q, want initiative", tr.CurrentScope)
	}
}

func TestRecordDriftEvent_ExtremeMagnitude(t *testing.T) {
	tr := New(ScopeStrategic, "founder")
	event := tr.RecordDriftEvent(ScopeProject, "let me just build it", "keyword")
	if event.DriftMagnitude != 0.8 {
		t.Errorf("strategic→project magnitude = %v, want 0.8", event.DriftMagnitude)
	}
}

func TestRecordDriftEvent_StabilityDecays(t *testing.T) {
	tr := New(ScopeTeam, "eng manager")
	if tr.StabilityScore != 1.0 {
		t.Fatalf("initial stability = %v, want 1.0", tr.StabilityScore)
	}

	tr.RecordDriftEvent(ScopeProject, "build it", "keyword") // magnitude 0.4
	want := 1.0 - 0.4*0.5
	if tr.StabilityScore != want {
		t.Errorf("stability after one drift = %v, want %v", tr.StabilityScore, want)
	}
}

func TestRecordDriftEvent_StabilityFloorsAtZero(t *testing.T) {
	tr := New(ScopeStrategic, "founder")
	for i := 0; i < 10; i++ {
		tr.RecordDriftEvent(ScopeProject, "down", "keyword")
		tr.RecordDriftEvent(ScopeStrategic, "up", "keyword")
	}
	if tr.StabilityScore != 0 {
		t.Errorf("stability = %v, want floored at 0", tr.StabilityScore)
	}
}

func TestRecordDriftEvent_Timestamp(t *testing.T) {
	frozen := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	orig := timeNow
	timeNow = func() time.Time { return frozen }
	defer func() { timeNow = orig }()

	tr := New(ScopeTeam, "eng manager")
	event := tr.RecordDriftEvent(ScopeProject, "build it", "keyword")
	if event.DetectedAt != "2026-03-14T09:00:00Z" {
		t.Errorf("DetectedAt = %q, want frozen timestamp", event.DetectedAt)
	}
}

func TestTracker_CurrentScopeFollowsLastEvent(t *testing.T) {
	tr := New(ScopeTeam, "eng manager")
	tr.RecordDriftEvent(ScopeProject, "a", "keyword")
	tr.RecordDriftEvent(ScopeDepartmental, "b", "keyword")

	if len(tr.DriftEvents) != 2 {
		t.Fatalf("drift events = %d, want 2", len(tr.DriftEvents))
	}
	last := tr.DriftEvents[len(tr.DriftEvents)-1]
	if tr.CurrentScope != last.ToScope {
		t.Errorf("current scope %q does not match last event's ToScope %q", tr.CurrentScope, last.ToScope)
	}
}
