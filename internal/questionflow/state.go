// Package questionflow guarantees that the assistant asks at most one
// question per turn. Generated text often contains several questions;
// this package extracts them, suppresses near-duplicates of questions
// already asked, queues the rest, and releases them one at a time as
// the user answers.
package questionflow

// State holds the per-session question bookkeeping.
//
// Invariant: CurrentQuestion, once answered, is cleared before a new
// question is drawn from PendingQuestions.
type State struct {
	// PendingQuestions is the ordered queue awaiting delivery.
	PendingQuestions []string `json:"pending_questions"`

	// AskedQuestions is the ordered history used for duplicate
	// detection.
	AskedQuestions []string `json:"asked_questions"`

	// CurrentQuestion is the question just asked, or "" if none.
	CurrentQuestion string `json:"current_question,omitempty"`

	// AnsweredQuestions maps question text to the answer that
	// followed it.
	AnsweredQuestions map[string]string `json:"answered_questions,omitempty"`

	// QuestionContext is the last non-question prose extracted from a
	// multi-question response.
	QuestionContext string `json:"question_context,omitempty"`
}

// NewState creates an empty question state.
func NewState() *State {
	return &State{AnsweredQuestions: make(map[string]string)}
}

// markAsked appends q to the asked history and sets it current.
func (s *State) markAsked(q string) {
	s.AskedQuestions = append(s.AskedQuestions, q)
	s.CurrentQuestion = q
}

// RecordAnswer attaches the user's text to the current question and
// clears it. A no-op when no question is outstanding.
func (s *State) RecordAnswer(userText string) {
	if s.CurrentQuestion == "" {
		return
	}
	if s.AnsweredQuestions == nil {
		s.AnsweredQuestions = make(map[string]string)
	}
	s.AnsweredQuestions[s.CurrentQuestion] = userText
	s.CurrentQuestion = ""
}

// GetNextQuestion dequeues the head of the pending queue, records it
// as asked, and returns it. Returns "" when the queue is empty.
func (s *State) GetNextQuestion() string {
	if len(s.PendingQuestions) == 0 {
		return ""
	}
	q := s.PendingQuestions[0]
	s.PendingQuestions = s.PendingQuestions[1:]
	s.markAsked(q)
	return q
}
