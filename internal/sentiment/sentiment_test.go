package sentiment

import "testing"

func TestLabelForScoreBoundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  Label
	}{
		{0, Neutral},
		{0.0001, Positive},
		{1, Positive},
		{-0.0001, Negative},
		{-1, Negative},
	}

	for _, tt := range tests {
		if got := LabelForScore(tt.score); got != tt.want {
			t.Errorf("LabelForScore(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := NewClassifier()
	text := "Markets rally as outlook improves"

	first := c.Classify(text)
	for i := 0; i < 10; i++ {
		if got := c.Classify(text); got != first {
			t.Fatalf("classification changed between calls: %s then %s", first, got)
		}
	}
}

func TestClassifyKnownPolarity(t *testing.T) {
	c := NewClassifier()

	if got := c.Classify("Wonderful, great success and excellent growth"); got != Positive {
		t.Errorf("expected positive, got %s", got)
	}
	if got := c.Classify("Horrible disaster, terrible failure and fraud"); got != Negative {
		t.Errorf("expected negative, got %s", got)
	}
	if got := c.Classify(""); got != Neutral {
		t.Errorf("expected neutral for empty text, got %s", got)
	}
}

func TestScoreRange(t *testing.T) {
	c := NewClassifier()
	for _, text := range []string{
		"",
		"Quarterly report published on schedule",
		"Wonderful, great success and excellent growth",
		"Horrible disaster, terrible failure and fraud",
	} {
		score := c.Score(text)
		if score < -1 || score > 1 {
			t.Errorf("score %v for %q out of [-1, 1]", score, text)
		}
	}
}

func TestCSSClassMapping(t *testing.T) {
	tests := []struct {
		label Label
		want  string
	}{
		{Positive, "sentiment-positive"},
		{Negative, "sentiment-negative"},
		{Neutral, "sentiment-neutral"},
		{Label("bogus"), ""},
	}

	for _, tt := range tests {
		if got := tt.label.CSSClass(); got != tt.want {
			t.Errorf("CSSClass(%s) = %q, want %q", tt.label, got, tt.want)
		}
	}
}
