package questionflow

import (
	"regexp"
	"strings"
)

// minQuestionLen: spans at or under this length are discarded as
// conversational filler rather than real questions.
const minQuestionLen = 10

// bulletPrefixRe strips numbered and bulleted list markers from the
// start of a line before question scanning.
var bulletPrefixRe = regexp.MustCompile(`^\s*(?:\d+[.)]\s*|[-*•]\s*)`)

// questionSpanRe matches a sentence-like span ending in "?". Spans are
// delimited by sentence terminators or line starts.
var questionSpanRe = regexp.MustCompile(`[^.!?\n]+\?`)

// fillerEndings are trailing confirmation tics; a "question" ending in
// one of these is rhetorical, not a real ask.
var fillerEndings = []string{"right?", "okay?", "ok?", "yes?", "no?"}

// Extraction is the result of scanning generated text for questions.
type Extraction struct {
	Questions      []string
	HasMultiple    bool
	CleanedContent string
}

// ExtractQuestions scans generated text for "?"-terminated spans,
// including numbered/bulleted variants, and returns them together with
// the text that remains once the question spans are removed.
func ExtractQuestions(text string) Extraction {
	var questions []string
	var cleanedLines []string

	for _, line := range strings.Split(text, "\n") {
		stripped := bulletPrefixRe.ReplaceAllString(line, "")
		remainder := stripped

		for _, span := range questionSpanRe.FindAllString(stripped, -1) {
			q := strings.TrimSpace(span)
			if !isRealQuestion(q) {
				continue
			}
			questions = append(questions, q)
			remainder = strings.Replace(remainder, span, "", 1)
		}

		remainder = strings.TrimSpace(remainder)
		if remainder != "" {
			cleanedLines = append(cleanedLines, remainder)
		}
	}

	return Extraction{
		Questions:      questions,
		HasMultiple:    len(questions) > 1,
		CleanedContent: strings.TrimSpace(strings.Join(cleanedLines, "\n")),
	}
}

// isRealQuestion filters out short spans and filler confirmations.
func isRealQuestion(q string) bool {
	if len(q) <= minQuestionLen {
		return false
	}
	lower := strings.ToLower(q)
	for _, filler := range fillerEndings {
		if strings.HasSuffix(lower, filler) {
			return false
		}
	}
	return true
}
