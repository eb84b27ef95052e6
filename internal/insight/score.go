// Package insight implements the incremental insight list: sentiment
// classification, duplicate suppression, the capped-visibility list state,
// and the controller that drives it from batch responses or a live event
// stream.
package insight

import "math"

// Label is a discrete sentiment classification of an aggregate score.
type Label string

const (
	LabelBullish  Label = "bullish"
	LabelPositive Label = "positive-leaning"
	LabelNeutral  Label = "neutral"
	LabelNegative Label = "negative-leaning"
	LabelBearish  Label = "bearish"
)

// Classify maps a numeric sentiment score to its label and advice pair.
// Thresholds are evaluated high to low; the magnitude-side boundary is
// inclusive on both halves, so 2.0 is bullish, 0.8 positive-leaning, -0.8
// negative-leaning, and -2.0 bearish. NaN is treated as 0.
func Classify(score float64) (Label, string) {
	if math.IsNaN(score) {
		score = 0
	}
	switch {
	case score >= 2.0:
		return LabelBullish, "accumulate / scale in"
	case score >= 0.8:
		return LabelPositive, "watch or small position"
	case score > -0.8:
		return LabelNeutral, "hold and observe"
	case score > -2.0:
		return LabelNegative, "reduce, be conservative"
	default:
		return LabelBearish, "tighten stop-loss, cut exposure"
	}
}

// Summary is the aggregate sentiment shown next to the list. Provisional is
// set while a stream is still open and the score is a running estimate
// rather than the backend's final value.
type Summary struct {
	Score       float64
	Label       Label
	Advice      string
	Provisional bool
}

// NewSummary classifies score and packages the result.
func NewSummary(score float64, provisional bool) Summary {
	label, advice := Classify(score)
	return Summary{Score: score, Label: label, Advice: advice, Provisional: provisional}
}
