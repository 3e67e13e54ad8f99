package altitude

import "regexp"

// InsightSignals are independent markers that a user is close to an
// insight and should not be interrupted. Each flag is detected on its
// own; a message can carry any combination.
type InsightSignals struct {
	PausingToThink         bool `json:"pausing_to_think"`
	QuestioningAssumptions bool `json:"questioning_assumptions"`
	ConnectingDots         bool `json:"connecting_dots"`
	VerbalizingThinking    bool `json:"verbalizing_thinking"`
}

// Count returns how many readiness signals are present.
func (s InsightSignals) Count() int {
	n := 0
	for _, f := range []bool{s.PausingToThink, s.QuestioningAssumptions, s.ConnectingDots, s.VerbalizingThinking} {
		if f {
			n++
		}
	}
	return n
}

// Any reports whether at least one signal is present.
func (s InsightSignals) Any() bool {
	return s.Count() > 0
}

var (
	pausingRe     = regexp.MustCompile(`(?i)\b(?:hmm+|let me think|hold on|wait|actually[,.]?\s)\b|\.\.\.`)
	questioningRe = regexp.MustCompile(`(?i)\b(?:i assumed|maybe i'?m wrong|am i|is that really|i wonder if|what if)\b`)
	connectingRe  = regexp.MustCompile(`(?i)\b(?:that connects to|which means|so that'?s why|now i see|it'?s related to|ties back)\b`)
	verbalizingRe = regexp.MustCompile(`(?i)\b(?:so what i'?m hearing|in other words|if i understand|let me restate|so basically)\b`)
)

// DetectInsightReadiness scans a message for language markers that the
// user is pausing, questioning assumptions, connecting dots, or
// verbalizing understanding.
func DetectInsightReadiness(message string) InsightSignals {
	return InsightSignals{
		PausingToThink:         pausingRe.MatchString(message),
		QuestioningAssumptions: questioningRe.MatchString(message),
		ConnectingDots:         connectingRe.MatchString(message),
		VerbalizingThinking:    verbalizingRe.MatchString(message),
	}
}
