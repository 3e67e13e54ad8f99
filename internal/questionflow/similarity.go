package questionflow

import (
	"regexp"
	"strings"
)

// duplicateThreshold: token overlap at or above this ratio marks two
// questions as near-duplicates. Empirically chosen; preserved as-is.
const duplicateThreshold = 0.8

var punctuationRe = regexp.MustCompile(`[^\pL\pN\s]`)

// normalizeQuestion lowercases and strips punctuation for comparison.
func normalizeQuestion(q string) string {
	q = strings.ToLower(q)
	q = punctuationRe.ReplaceAllString(q, "")
	return strings.Join(strings.Fields(q), " ")
}

// tokenOverlap computes a Jaccard-style ratio over token sets:
// 2·|A∩B| / (|A|+|B|). Returns 0 when either side is empty.
func tokenOverlap(a, b string) float64 {
	tokensA := tokenSet(a)
	tokensB := tokenSet(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	intersection := 0
	for tok := range tokensA {
		if tokensB[tok] {
			intersection++
		}
	}

	return 2.0 * float64(intersection) / float64(len(tokensA)+len(tokensB))
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(normalizeQuestion(s)) {
		set[tok] = true
	}
	return set
}

// isDuplicateOf reports whether q near-duplicates any question in
// history: exact match after normalization, or token overlap at or
// above the threshold.
func isDuplicateOf(q string, history []string) bool {
	normQ := normalizeQuestion(q)
	for _, asked := range history {
		if normalizeQuestion(asked) == normQ {
			return true
		}
		if tokenOverlap(q, asked) >= duplicateThreshold {
			return true
		}
	}
	return false
}
