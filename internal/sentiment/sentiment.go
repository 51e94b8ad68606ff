// Package sentiment assigns coarse polarity labels to headline text using
// an embedded VADER lexicon. No external calls; the same input always
// yields the same label for a given lexicon version.
package sentiment

import "github.com/jonreiter/govader"

// Label is the closed set of sentiment classes.
type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
	Neutral  Label = "neutral"
)

func (l Label) String() string { return string(l) }

// CSSClass maps a label to its dashboard style class. The mapping is
// total over the closed set; anything else gets no styling.
func (l Label) CSSClass() string {
	switch l {
	case Positive:
		return "sentiment-positive"
	case Negative:
		return "sentiment-negative"
	case Neutral:
		return "sentiment-neutral"
	}
	return ""
}

// LabelForScore maps a polarity score in [-1, 1] to a label. Exactly
// zero is neutral.
func LabelForScore(polarity float64) Label {
	switch {
	case polarity > 0:
		return Positive
	case polarity < 0:
		return Negative
	}
	return Neutral
}

// Classifier scores text with the VADER lexicon.
type Classifier struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewClassifier builds a classifier with the embedded lexicon.
func NewClassifier() *Classifier {
	return &Classifier{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns the compound polarity of the text in [-1, 1].
func (c *Classifier) Score(text string) float64 {
	return c.analyzer.PolarityScores(text).Compound
}

// Classify returns the label for the text's polarity.
func (c *Classifier) Classify(text string) Label {
	return LabelForScore(c.Score(text))
}
