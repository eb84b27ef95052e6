package insight

import (
	"math"
	"testing"
)

func TestClassifyThresholds(t *testing.T) {
	cases := []struct {
		score float64
		want  Label
	}{
		{3.5, LabelBullish},
		{2.0, LabelBullish},
		{1.999999, LabelPositive},
		{0.8, LabelPositive},
		{0.799999, LabelNeutral},
		{0, LabelNeutral},
		{-0.799999, LabelNeutral},
		{-0.8, LabelNegative},
		{-1.999999, LabelNegative},
		{-2.0, LabelBearish},
		{-4.2, LabelBearish},
	}
	for _, tc := range cases {
		label, advice := Classify(tc.score)
		if label != tc.want {
			t.Errorf("Classify(%v): expected %q, got %q", tc.score, tc.want, label)
		}
		if advice == "" {
			t.Errorf("Classify(%v): expected non-empty advice", tc.score)
		}
	}
}

func TestClassifyNaN(t *testing.T) {
	label, _ := Classify(math.NaN())
	if label != LabelNeutral {
		t.Errorf("expected NaN to classify as neutral, got %q", label)
	}
}

func TestNewSummary(t *testing.T) {
	s := NewSummary(2.5, true)
	if s.Label != LabelBullish || !s.Provisional || s.Score != 2.5 {
		t.Errorf("unexpected summary: %+v", s)
	}

	s = NewSummary(-3.0, false)
	if s.Label != LabelBearish || s.Provisional {
		t.Errorf("unexpected summary: %+v", s)
	}
}
