package enrichment

import (
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/termmatch"
)

// Sentiment labels.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

const (
	positiveRatioThreshold = 0.7
	negativeRatioThreshold = 0.3
)

var positiveWords = []string{
	"innovative", "leading", "growth", "successful", "excellent", "outstanding",
	"best", "top", "premier", "award", "winning", "solution", "cutting-edge",
	"advanced", "transform", "optimize", "improve", "enhance", "efficient",
	"expert", "specialized", "proven", "trusted", "reliable", "quality",
	"comprehensive", "scalable", "robust", "strategic",
	"world-class", "industry-leading", "state-of-the-art", "breakthrough",
	"revolutionary", "pioneering", "acclaimed", "renowned", "prestigious",
}

// achievementWords count twice.
var achievementWords = toSet("award", "winning", "leading", "expert", "proven", "world-class")

var negativeWords = []string{
	"challenge", "problem", "difficult", "struggle", "crisis", "decline",
	"reduce", "cut", "layoff", "downsize", "bankruptcy", "loss", "fail",
	"outdated", "limited", "basic", "minimal", "poor", "weak",
	"struggling", "failing", "problematic", "issues", "concerns",
}

// SentimentAnalyzer scores business tone from indicator word lists.
type SentimentAnalyzer struct {
	positive *termmatch.Matcher
	negative *termmatch.Matcher
}

// NewSentimentAnalyzer compiles the indicator lists.
func NewSentimentAnalyzer() *SentimentAnalyzer {
	return &SentimentAnalyzer{
		positive: termmatch.New(positiveWords),
		negative: termmatch.New(negativeWords),
	}
}

// Analyze returns positive, negative or neutral. Indicators match as
// substrings of the lowercased text.
func (a *SentimentAnalyzer) Analyze(text string) string {
	lower := toLower(text)
	if lower == "" {
		return SentimentNeutral
	}

	positive := 0
	for _, word := range a.positive.Find(lower).Terms() {
		positive++
		if _, ok := achievementWords[word]; ok {
			positive++
		}
	}
	negative := a.negative.Find(lower).Count()

	total := positive + negative
	if total == 0 {
		return SentimentNeutral
	}

	ratio := float64(positive) / float64(total)
	switch {
	case ratio >= positiveRatioThreshold:
		return SentimentPositive
	case ratio <= negativeRatioThreshold:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}
