package altitude

import (
	"regexp"
	"strings"
	"time"
)

// timeNow is a package-level variable for testability.
// Tests can replace this to control time in assertions.
var timeNow = time.Now

// --- Scope classification families ---

// scopeFamily bundles the lexical evidence for one altitude level.
// Families are evaluated in fixed priority order (coarsest first);
// the first family that matches wins.
type scopeFamily struct {
	scope    Scope
	patterns []*regexp.Regexp
	keywords []string
}

// classificationOrder is the fixed evaluation order. Coarser scopes are
// checked first so that "across teams" reads as departmental, not team.
var classificationOrder = []scopeFamily{
	{
		scope: ScopeStrategic,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bmarket\s+leader\b`),
			regexp.MustCompile(`(?i)\bcompany[- ]wide\b`),
			regexp.MustCompile(`(?i)\btransform\s+(?:our|the)\s+business\b`),
			regexp.MustCompile(`(?i)\b(?:enter|expand\s+into)\s+.*\bmarkets?\b`),
			regexp.MustCompile(`(?i)\bindustry[- ]leading\b`),
		},
		keywords: []string{"vision", "market share", "competitive position", "business model", "whole company"},
	},
	{
		scope: ScopeDepartmental,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bcross[- ]functional\b`),
			regexp.MustCompile(`(?i)\bdepartment[- ]wide\b`),
			regexp.MustCompile(`(?i)\bacross\s+(?:teams|departments|functions)\b`),
			regexp.MustCompile(`(?i)\b(?:engineering|sales|marketing|product|finance)\s+(?:org|organization|department)\b`),
		},
		keywords: []string{"our department", "the division", "org-wide"},
	},
	{
		scope: ScopeTeam,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:my|our)\s+team(?:'s)?\b`),
			regexp.MustCompile(`(?i)\bthe\s+team(?:'s)?\b`),
			regexp.MustCompile(`(?i)\bdirect\s+reports\b`),
		},
		keywords: []string{"squad", "my engineers", "team morale", "team velocity"},
	},
	{
		scope: ScopeInitiative,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\blaunch\b`),
			regexp.MustCompile(`(?i)\badoption\b`),
			regexp.MustCompile(`(?i)\broll[- ]?out\b`),
			regexp.MustCompile(`(?i)\bstakeholders?\b`),
		},
		keywords: []string{"campaign", "program", "go-to-market", "pilot"},
	},
	{
		scope: ScopeProject,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bbuild\b`),
			regexp.MustCompile(`(?i)\bimplement\b`),
			regexp.MustCompile(`(?i)\bship\b`),
			regexp.MustCompile(`(?i)\bdeploy\b`),
			regexp.MustCompile(`(?i)\bmigrate\b`),
			regexp.MustCompile(`(?i)\brefactor\b`),
		},
		keywords: []string{"codebase", "the service", "the feature", "pull request"},
	},
}

// Classify returns the altitude a message reads at, with a confidence
// derived from match density, or ("", 0) when no family matches.
func Classify(text string) (Scope, float64) {
	if strings.TrimSpace(text) == "" {
		return "", 0
	}
	lower := strings.ToLower(text)

	for _, family := range classificationOrder {
		matches := 0
		for _, re := range family.patterns {
			if re.MatchString(text) {
				matches++
			}
		}
		for _, kw := range family.keywords {
			if strings.Contains(lower, kw) {
				matches++
			}
		}
		if matches > 0 {
			conf := 0.6 + 0.1*float64(matches-1)
			if conf > 0.95 {
				conf = 0.95
			}
			return family.scope, conf
		}
	}

	return "", 0
}

// --- Drift tracking ---

// ScopeDriftEvent records one detected change in the conversation's
// altitude.
type ScopeDriftEvent struct {
	FromScope      Scope   `json:"from_scope"`
	ToScope        Scope   `json:"to_scope"`
	TriggerText    string  `json:"trigger_text"`
	Method         string  `json:"method"` // "keyword" | "declared"
	DriftMagnitude float64 `json:"drift_magnitude"`
	DetectedAt     string  `json:"detected_at"`
}

// Tracker holds the altitude state for one session.
//
// Invariant: CurrentScope equals the ToScope of the most recent drift
// event, or InitialScope when no drift has been recorded.
type Tracker struct {
	InitialScope    Scope             `json:"initial_scope"`
	CurrentScope    Scope             `json:"current_scope"`
	RoleLabel       string            `json:"role_label,omitempty"`
	ConfidenceLevel float64           `json:"confidence_level"`
	DriftEvents     []ScopeDriftEvent `json:"drift_events"`
	StabilityScore  float64           `json:"stability_score"`
}

// New creates a Tracker anchored at the given scope with full
// confidence. roleLabel is optional descriptive context ("eng manager").
func New(scope Scope, roleLabel string) *Tracker {
	return &Tracker{
		InitialScope:    scope,
		CurrentScope:    scope,
		RoleLabel:       roleLabel,
		ConfidenceLevel: 1.0,
		StabilityScore:  1.0,
	}
}

// DriftResult is the outcome of evaluating one message for drift.
type DriftResult struct {
	Detected   bool    `json:"detected"`
	NewScope   Scope   `json:"new_scope,omitempty"`
	Confidence float64 `json:"confidence"`
}

// DetectDrift classifies the message's altitude and reports drift when
// it differs from the tracker's current scope. A message that matches
// no family, or matches the current scope, is not drift.
func (t *Tracker) DetectDrift(text string) DriftResult {
	scope, conf := Classify(text)
	if scope == "" || scope == t.CurrentScope {
		return DriftResult{Detected: false, Confidence: conf}
	}
	return DriftResult{Detected: true, NewScope: scope, Confidence: conf}
}

// RecordDriftEvent appends a drift event and moves the tracker to the
// new scope. Stability decays with the magnitude of each drift, never
// below zero.
func (t *Tracker) RecordDriftEvent(newScope Scope, triggerText, method string) ScopeDriftEvent {
	event := ScopeDriftEvent{
		FromScope:      t.CurrentScope,
		ToScope:        newScope,
		TriggerText:    triggerText,
		Method:         method,
		DriftMagnitude: DriftMagnitude(t.CurrentScope, newScope),
		DetectedAt:     timeNow().UTC().Format(time.RFC3339),
	}

	t.DriftEvents = append(t.DriftEvents, event)
	t.CurrentScope = newScope
	t.StabilityScore -= event.DriftMagnitude * 0.5
	if t.StabilityScore < 0 {
		t.StabilityScore = 0
	}

	return event
}
