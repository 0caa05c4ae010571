package enrichment

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var sentenceBreak = regexp.MustCompile(`[.!?]+`)

// TextStats holds readability metrics of a description.
type TextStats struct {
	Length              int     `json:"description_length"`
	Words               int     `json:"word_count"`
	Sentences           int     `json:"sentence_count"`
	AvgWordsPerSentence float64 `json:"avg_words_per_sentence"`
}

// DescribeText computes TextStats. Sentences are the non-blank segments
// between runs of '.', '!' and '?'.
func DescribeText(text string) TextStats {
	if strings.TrimSpace(text) == "" {
		return TextStats{}
	}

	stats := TextStats{
		Length: utf8.RuneCountInString(text),
		Words:  len(strings.Fields(text)),
	}
	for _, segment := range sentenceBreak.Split(text, -1) {
		if strings.TrimSpace(segment) != "" {
			stats.Sentences++
		}
	}
	stats.AvgWordsPerSentence = float64(stats.Words) / float64(max(stats.Sentences, 1))
	return stats
}

func toLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
