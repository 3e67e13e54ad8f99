package antipattern

import (
	"strings"

	"github.com/danavoss/northstar/internal/conversation"
)

// Quality-score word lists. Lexical, deliberately crude: the score is
// a tiebreaker alongside re-detection, not a quality oracle.
var (
	outcomeWords = []string{
		"increase", "reduce", "improve", "grow", "achieve", "reach",
		"retention", "revenue", "conversion", "satisfaction", "adoption",
		"churn", "nps", "margin", "engagement",
	}
	activityVerbs = []string{
		"build", "launch", "implement", "create", "ship", "deliver",
		"migrate", "deploy", "write", "complete", "finish",
	}
	vagueAdjectives = []string{
		"better", "improved", "significant", "world-class", "robust",
		"great", "enhanced", "optimal", "best", "stronger",
	}
)

// Quality score weights.
const (
	qualityBase         = 50
	outcomeWordBonus    = 10
	activityVerbPenalty = 8
	digitBonus          = 15
	vagueAdjPenalty     = 5
)

// successConfidenceRatio: a reframing succeeds on the confidence axis
// when the post-text's detection confidence drops below this fraction
// of the pre-text's.
const successConfidenceRatio = 0.7

// qualityRiseThreshold: a reframing succeeds on the quality axis when
// the score rises by more than this many points.
const qualityRiseThreshold = 10

// ReframingEvaluation is the outcome of comparing a statement before
// and after a reframing attempt.
type ReframingEvaluation struct {
	Success          bool    `json:"success"`
	ConfidenceBefore float64 `json:"confidence_before"`
	ConfidenceAfter  float64 `json:"confidence_after"`
	QualityBefore    int     `json:"quality_before"`
	QualityAfter     int     `json:"quality_after"`
	Reason           string  `json:"reason"`
}

// EvaluateReframingSuccess re-runs detection on both texts and scores
// their lexical quality. Success is a disjunction: either the detector
// backs off substantially, or the quality score rises by more than the
// threshold. Quality can improve while the pattern is still faintly
// present — that still counts.
func EvaluateReframingSuccess(before, after string, uc *conversation.UserContext) ReframingEvaluation {
	confBefore := topConfidence(Detect(before, uc))
	confAfter := topConfidence(Detect(after, uc))
	qualBefore := QualityScore(before)
	qualAfter := QualityScore(after)

	eval := ReframingEvaluation{
		ConfidenceBefore: confBefore,
		ConfidenceAfter:  confAfter,
		QualityBefore:    qualBefore,
		QualityAfter:     qualAfter,
	}

	confidenceDropped := confBefore > 0 && confAfter < confBefore*successConfidenceRatio
	qualityRose := qualAfter-qualBefore > qualityRiseThreshold

	switch {
	case confidenceDropped && qualityRose:
		eval.Success = true
		eval.Reason = "pattern confidence dropped and quality score rose"
	case confidenceDropped:
		eval.Success = true
		eval.Reason = "pattern confidence dropped substantially"
	case qualityRose:
		eval.Success = true
		eval.Reason = "quality score rose even though the pattern lingers"
	default:
		eval.Reason = "neither confidence dropped nor quality rose enough"
	}

	return eval
}

func topConfidence(result DetectionResult) float64 {
	if top := result.Top(); top != nil {
		return top.Confidence
	}
	return 0
}

// QualityScore is a simple lexical quality measure: base 50, plus 10
// per outcome word present, minus 8 per activity verb present, plus 15
// if any digit appears, minus 5 per vague adjective present, clamped
// to [0,100].
func QualityScore(text string) int {
	lower := strings.ToLower(text)
	score := qualityBase

	for _, w := range outcomeWords {
		if strings.Contains(lower, w) {
			score += outcomeWordBonus
		}
	}
	for _, v := range activityVerbs {
		if containsWord(lower, v) {
			score -= activityVerbPenalty
		}
	}
	if strings.ContainsAny(text, "0123456789") {
		score += digitBonus
	}
	for _, a := range vagueAdjectives {
		if strings.Contains(lower, a) {
			score -= vagueAdjPenalty
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// containsWord matches v as a whole word, so "ship" doesn't fire on
// "relationship".
func containsWord(text, v string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], v)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(v)
		beforeOK := start == 0 || !isWordChar(text[start-1])
		afterOK := end == len(text) || !isWordChar(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
