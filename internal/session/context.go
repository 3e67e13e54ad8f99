package session

import (
	"github.com/danavoss/northstar/internal/altitude"
	"github.com/danavoss/northstar/internal/checkpoint"
	"github.com/danavoss/northstar/internal/conversation"
	"github.com/danavoss/northstar/internal/questionflow"
)

// Context is the full per-session conversational state: the four
// tracker structures plus user context and habit bookkeeping. It is
// owned exclusively by its session, loaded before a turn and written
// back — as one snapshot — after the turn completes. Callers must
// never persist a partially updated Context.
type Context struct {
	SessionID   string              `json:"session_id"`
	Phase       checkpoint.Phase    `json:"phase"`
	Checkpoints *checkpoint.Tracker `json:"checkpoints"`
	Altitude    *altitude.Tracker   `json:"altitude"`
	Questions   *questionflow.State `json:"questions"`

	User   conversation.UserContext           `json:"user"`
	Habits map[string]*conversation.HabitLoop `json:"habits,omitempty"`

	// ReframeAttempts counts how many scripted reframing questions
	// have been used per anti-pattern id, driving escalation.
	ReframeAttempts map[string]int `json:"reframe_attempts,omitempty"`

	TurnCount int `json:"turn_count"`
}

// NewContext builds the initial state for a fresh session: discovery
// phase, altitude anchored at the given scope, empty question state.
func NewContext(sessionID string, initialScope altitude.Scope, roleLabel string, user conversation.UserContext) (*Context, error) {
	tracker, err := checkpoint.New(sessionID, checkpoint.PhaseDiscovery)
	if err != nil {
		return nil, err
	}

	return &Context{
		SessionID:       sessionID,
		Phase:           checkpoint.PhaseDiscovery,
		Checkpoints:     tracker,
		Altitude:        altitude.New(initialScope, roleLabel),
		Questions:       questionflow.NewState(),
		User:            user,
		Habits:          make(map[string]*conversation.HabitLoop),
		ReframeAttempts: make(map[string]int),
	}, nil
}

// ReinforceHabit bumps the habit loop for a key, creating it on first
// use.
func (c *Context) ReinforceHabit(key string) *conversation.HabitLoop {
	if c.Habits == nil {
		c.Habits = make(map[string]*conversation.HabitLoop)
	}
	loop, ok := c.Habits[key]
	if !ok {
		loop = &conversation.HabitLoop{Key: key}
		c.Habits[key] = loop
	}
	loop.Reinforce()
	return loop
}

// NextReframeAttempt returns the current attempt count for a pattern
// and increments it for the next turn.
func (c *Context) NextReframeAttempt(patternID string) int {
	if c.ReframeAttempts == nil {
		c.ReframeAttempts = make(map[string]int)
	}
	n := c.ReframeAttempts[patternID]
	c.ReframeAttempts[patternID] = n + 1
	return n
}
