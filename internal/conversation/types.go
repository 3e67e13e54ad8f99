// Package conversation holds the shared vocabulary of a coaching
// conversation: the user's self-regulation state, the explicit user
// context handed to contextual detection rules, and the habit loops
// that track how automatic a coached behavior has become.
//
// These types are deliberately plain data — every other package reads
// them, none of them owns behavior beyond small bookkeeping helpers.
package conversation

import "fmt"

// --- Neural state enum ---

// NeuralState describes the user's inferred self-regulation state for
// the current turn. A threatened user gets immediate, SCARF-framed
// interventions; a regulated user can absorb reflection prompts.
type NeuralState string

const (
	StateRegulated NeuralState = "regulated"
	StateNeutral   NeuralState = "neutral"
	StateThreat    NeuralState = "threat"
)

// validStates is the set of allowed neural states.
var validStates = map[NeuralState]bool{
	StateRegulated: true,
	StateNeutral:   true,
	StateThreat:    true,
}

// ValidateNeuralState returns an error if the state is not recognized.
func ValidateNeuralState(s NeuralState) error {
	if !validStates[s] {
		return fmt.Errorf("invalid neural state %q: must be one of: regulated, neutral, threat", s)
	}
	return nil
}

// --- User context ---

// UserContext is the explicit, enumerated context structure passed to
// contextual detection rules. Every recognized field is listed here;
// rules never probe for undeclared fields.
type UserContext struct {
	Industry           string   `json:"industry,omitempty"`
	Function           string   `json:"function,omitempty"`
	CompanySize        string   `json:"company_size,omitempty"`
	ResistancePatterns []string `json:"resistance_patterns,omitempty"`
}

// HasResistance reports whether the user has previously resisted
// coaching on the given anti-pattern id.
func (u *UserContext) HasResistance(patternID string) bool {
	if u == nil {
		return false
	}
	for _, p := range u.ResistancePatterns {
		if p == patternID {
			return true
		}
	}
	return false
}

// --- Habit loops ---

// automaticityGain is the fraction of the remaining distance to full
// automaticity gained per reinforcement. Asymptotic: repetition never
// overshoots 1.0.
const automaticityGain = 0.15

// HabitLoop tracks how ingrained a coached behavior is for one user,
// e.g. "states outcomes before activities".
type HabitLoop struct {
	Key          string  `json:"key"`
	Repetitions  int     `json:"repetitions"`
	Automaticity float64 `json:"automaticity"`
}

// Reinforce records one successful repetition of the behavior and
// moves automaticity asymptotically toward 1.0.
func (h *HabitLoop) Reinforce() {
	h.Repetitions++
	h.Automaticity += (1.0 - h.Automaticity) * automaticityGain
	if h.Automaticity > 1.0 {
		h.Automaticity = 1.0
	}
}
