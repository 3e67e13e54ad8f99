package questionflow

import (
	"fmt"
	"strings"
)

// moveForwardNudge is emitted instead of re-asking a question the user
// has already been asked, when nothing else is queued.
const moveForwardNudge = "Rather than going over that again — let's move forward. " +
	"Tell me more about the outcome you're picturing, in whatever words come naturally."

// acknowledgements are bare replies that carry no answerable content.
var acknowledgements = map[string]bool{
	"yes": true, "no": true, "ok": true, "okay": true,
	"sure": true, "thanks": true, "thank you": true,
	"yep": true, "nope": true, "got it": true,
}

// ProcessResult is the outcome of post-processing one generated
// response.
type ProcessResult struct {
	ResponseToUser string
	HasQueued      bool
}

// ProcessResponse enforces the one-question-per-turn rule on raw
// generated text. Zero or one question passes through unchanged. With
// multiple questions, the first non-duplicate is asked now, the rest
// are queued, and the cleaned prose is kept as context.
func (s *State) ProcessResponse(generatedText string) ProcessResult {
	ext := ExtractQuestions(generatedText)

	if len(ext.Questions) == 0 {
		return ProcessResult{ResponseToUser: generatedText, HasQueued: len(s.PendingQuestions) > 0}
	}

	if len(ext.Questions) == 1 {
		q := ext.Questions[0]
		if !isDuplicateOf(q, s.AskedQuestions) {
			s.markAsked(q)
			return ProcessResult{ResponseToUser: generatedText, HasQueued: len(s.PendingQuestions) > 0}
		}
		// The generator repeated itself. Swap in a queued question, or
		// nudge forward instead of re-asking.
		replacement := s.GetNextQuestion()
		if replacement == "" {
			replacement = moveForwardNudge
		}
		return ProcessResult{
			ResponseToUser: joinProse(ext.CleanedContent, replacement),
			HasQueued:      len(s.PendingQuestions) > 0,
		}
	}

	if ext.CleanedContent != "" {
		s.QuestionContext = ext.CleanedContent
	}

	first := ext.Questions[0]
	rest := ext.Questions[1:]

	if isDuplicateOf(first, s.AskedQuestions) {
		// Fall back to an already-pending question, else nudge forward.
		if next := s.GetNextQuestion(); next != "" {
			s.enqueueNew(rest)
			return ProcessResult{
				ResponseToUser: joinProse(ext.CleanedContent, next),
				HasQueued:      len(s.PendingQuestions) > 0,
			}
		}
		s.enqueueNew(rest)
		return ProcessResult{
			ResponseToUser: joinProse(ext.CleanedContent, moveForwardNudge),
			HasQueued:      len(s.PendingQuestions) > 0,
		}
	}

	s.enqueueNew(rest)
	s.markAsked(first)

	response := joinProse(ext.CleanedContent, first)
	if n := len(s.PendingQuestions); n > 0 {
		response += fmt.Sprintf("\n\n_(%d more question%s queued — one at a time.)_", n, plural(n))
	}

	return ProcessResult{ResponseToUser: response, HasQueued: len(s.PendingQuestions) > 0}
}

// enqueueNew filters candidates against the asked history and the
// existing queue, then appends the survivors.
func (s *State) enqueueNew(candidates []string) {
	for _, q := range candidates {
		if isDuplicateOf(q, s.AskedQuestions) {
			continue
		}
		if isDuplicateOf(q, s.PendingQuestions) {
			continue
		}
		s.PendingQuestions = append(s.PendingQuestions, q)
	}
}

// ShouldAskNextQuestion reports whether the user's message is a
// substantive answer that clears the way for the next queued question:
// the queue is non-empty, the message is more than 10 characters,
// contains no question of its own, and is not a bare acknowledgement.
func (s *State) ShouldAskNextQuestion(userMessage string) bool {
	if len(s.PendingQuestions) == 0 {
		return false
	}
	trimmed := strings.TrimSpace(userMessage)
	if len(trimmed) <= 10 {
		return false
	}
	if strings.Contains(trimmed, "?") {
		return false
	}
	if acknowledgements[strings.ToLower(strings.TrimRight(trimmed, ".!"))] {
		return false
	}
	return true
}

func joinProse(prose, question string) string {
	if prose == "" {
		return question
	}
	return prose + "\n\n" + question
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
