package checkpoint

import (
	"fmt"
	"time"

	"github.com/danavoss/northstar/internal/conversation"
)

// Completion confidence levels. Signals read from a threatened user
// are weaker evidence, so completions detected under threat carry a
// reduced confidence.
const (
	detectedConfidence       = 0.8
	threatDetectedConfidence = 0.6
)

// evidenceExcerptLen caps how much of a message is stored as evidence.
const evidenceExcerptLen = 160

// Checkpoint is one discrete sub-goal within a phase.
type Checkpoint struct {
	ID                   string   `json:"id"`
	Label                string   `json:"label"`
	IsComplete           bool     `json:"is_complete"`
	CompletionConfidence float64  `json:"completion_confidence"`
	EvidenceCollected    []string `json:"evidence_collected,omitempty"`
	CompletedAt          string   `json:"completed_at,omitempty"`
}

// Tracker holds per-session, per-phase progress.
//
// Invariants: CompletedCheckpoints equals the count of checkpoints
// with IsComplete; CompletionPercentage = 100 × completed / total.
type Tracker struct {
	SessionID            string       `json:"session_id"`
	CurrentPhase         Phase        `json:"current_phase"`
	Checkpoints          []Checkpoint `json:"checkpoints"`
	CompletedCheckpoints int          `json:"completed_checkpoints"`
	TotalCheckpoints     int          `json:"total_checkpoints"`
	CompletionPercentage float64      `json:"completion_percentage"`
	CurrentStreak        int          `json:"current_streak"`
	LongestStreak        int          `json:"longest_streak"`
	BacktrackingCount    int          `json:"backtracking_count"`
}

// New builds a tracker with the fixed checkpoint list for the phase.
func New(sessionID string, phase Phase) (*Tracker, error) {
	if err := ValidatePhase(phase); err != nil {
		return nil, err
	}

	defs := phaseDefinitions[phase]
	checkpoints := make([]Checkpoint, len(defs))
	for i, d := range defs {
		checkpoints[i] = Checkpoint{ID: d.id, Label: d.label}
	}

	return &Tracker{
		SessionID:        sessionID,
		CurrentPhase:     phase,
		Checkpoints:      checkpoints,
		TotalCheckpoints: len(checkpoints),
	}, nil
}

// find returns the checkpoint with the given id, or nil.
func (t *Tracker) find(id string) *Checkpoint {
	for i := range t.Checkpoints {
		if t.Checkpoints[i].ID == id {
			return &t.Checkpoints[i]
		}
	}
	return nil
}

// recompute re-derives the completed count and percentage from the
// checkpoint list, keeping the invariants by construction.
func (t *Tracker) recompute() {
	completed := 0
	for _, cp := range t.Checkpoints {
		if cp.IsComplete {
			completed++
		}
	}
	t.CompletedCheckpoints = completed
	if t.TotalCheckpoints > 0 {
		t.CompletionPercentage = 100 * float64(completed) / float64(t.TotalCheckpoints)
	} else {
		t.CompletionPercentage = 0
	}
}

// DetectCompletion evaluates the phase's completion predicates against
// the message, in definition order, over not-yet-complete checkpoints
// only. At most one checkpoint completes per message: the first match
// wins and later predicates are not evaluated. Returns the newly
// completed checkpoints (empty or a single element).
func (t *Tracker) DetectCompletion(message string, neural conversation.NeuralState) []Checkpoint {
	confidence := detectedConfidence
	if neural == conversation.StateThreat {
		confidence = threatDetectedConfidence
	}

	for _, def := range phaseDefinitions[t.CurrentPhase] {
		cp := t.find(def.id)
		if cp == nil || cp.IsComplete {
			continue
		}
		if !def.predicate(message) {
			continue
		}
		completed := t.Complete(def.id, confidence, []string{excerpt(message)})
		if completed == nil {
			return nil
		}
		return []Checkpoint{*completed}
	}

	return nil
}

// Complete marks a checkpoint complete and updates counts and streaks.
// Idempotent and defensive: an unknown id or an already-complete
// checkpoint is a no-op returning nil.
func (t *Tracker) Complete(id string, confidence float64, evidence []string) *Checkpoint {
	cp := t.find(id)
	if cp == nil || cp.IsComplete {
		return nil
	}

	cp.IsComplete = true
	cp.CompletionConfidence = confidence
	cp.EvidenceCollected = append(cp.EvidenceCollected, evidence...)
	cp.CompletedAt = timeNow().UTC().Format(time.RFC3339)

	t.recompute()
	t.CurrentStreak++
	if t.CurrentStreak > t.LongestStreak {
		t.LongestStreak = t.CurrentStreak
	}

	return cp
}

// TransitionToPhase discards the current checkpoint set and builds a
// fresh tracker for the new phase with zeroed progress. The old state
// is replaced, not merged.
func (t *Tracker) TransitionToPhase(newPhase Phase) error {
	fresh, err := New(t.SessionID, newPhase)
	if err != nil {
		return err
	}
	*t = *fresh
	return nil
}

// HandleBacktracking unmarks a completed checkpoint when the user
// reopens a settled question. The streak resets, the backtracking
// count increments, and the returned reframe praises the
// reconsideration — revisiting is treated as progress, never error.
// Unknown or not-complete checkpoints are a no-op returning "".
func (t *Tracker) HandleBacktracking(fromID, toID, reason string, neural conversation.NeuralState) string {
	from := t.find(fromID)
	if from == nil || !from.IsComplete {
		return ""
	}

	from.IsComplete = false
	from.CompletionConfidence = 0
	from.CompletedAt = ""
	t.recompute()
	t.CurrentStreak = 0
	t.BacktrackingCount++

	target := from.Label
	if to := t.find(toID); to != nil {
		target = to.Label
	}

	// SCARF-safe framing: affirm status and autonomy, give certainty
	// about what happens next.
	msg := fmt.Sprintf(
		"Good instinct to revisit this — people who write strong OKRs almost always loop back on %q. "+
			"Nothing is lost: everything else you've established still stands. "+
			"Let's take another look at %q together, and you decide when it feels solid.",
		from.Label, target,
	)
	if reason != "" {
		msg += fmt.Sprintf(" You mentioned: %s — that's exactly the kind of signal worth pausing for.", reason)
	}
	return msg
}

// GenerateCelebration is a pure function of the checkpoint and the
// tracker's counts, used only for downstream text composition.
func GenerateCelebration(cp Checkpoint, t *Tracker) string {
	base := fmt.Sprintf("%s — locked in. %d of %d checkpoints done in this phase (%.0f%%).",
		cp.Label, t.CompletedCheckpoints, t.TotalCheckpoints, t.CompletionPercentage)

	switch {
	case t.CompletedCheckpoints == t.TotalCheckpoints:
		return base + " That completes the phase — ready to move on when you are."
	case t.CurrentStreak >= 3:
		return base + fmt.Sprintf(" That's %d in a row — you're on a roll.", t.CurrentStreak)
	default:
		return base
	}
}

// excerpt trims a message to evidence length at a rune boundary.
func excerpt(message string) string {
	runes := []rune(message)
	if len(runes) <= evidenceExcerptLen {
		return message
	}
	return string(runes[:evidenceExcerptLen]) + "…"
}
