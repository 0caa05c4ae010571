package enrichment

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxKeywords is the keyword cap used when callers pass 0.
const DefaultMaxKeywords = 10

const minKeywordLength = 3

var punctuation = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

var stopWords = toSet(
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with",
	"by", "is", "are", "was", "were", "be", "been", "being", "have", "has", "had",
	"do", "does", "did", "will", "would", "could", "should", "may", "might", "must",
	"can", "shall", "this", "that", "these", "those", "i", "you", "he", "she", "it",
	"we", "they", "me", "him", "her", "us", "them", "my", "your", "his", "its", "our",
	"their", "what", "which", "who", "when", "where", "why", "how", "all", "any",
	"both", "each", "few", "more", "most", "other", "some", "such", "no", "nor",
	"not", "only", "own", "same", "so", "than", "too", "very", "just", "now",
	"linkedin", "followers", "company", "companies", "inc", "ltd", "llc", "corp",
	"corporation", "limited", "group", "international", "global", "worldwide",
)

// businessPriorityTerms count double when ranking keywords.
var businessPriorityTerms = toSet(
	"services", "solutions", "consulting", "technology", "software", "development",
	"management", "digital", "platform", "analytics", "innovation", "automation",
	"strategy", "optimization", "intelligence", "integration", "implementation",
	"enterprise", "professional", "advanced", "custom", "specialist", "expertise",
)

// Keywords returns the most frequent business-relevant words of text,
// highest count first and ties in order of first appearance.
func Keywords(text string, limit int) []string {
	if limit <= 0 {
		limit = DefaultMaxKeywords
	}

	cleaned := punctuation.ReplaceAllString(strings.ToLower(text), " ")

	counts := make(map[string]int)
	var order []string
	for _, word := range strings.Fields(cleaned) {
		if !isKeywordCandidate(word) {
			continue
		}
		if _, seen := counts[word]; !seen {
			order = append(order, word)
		}
		if _, priority := businessPriorityTerms[word]; priority {
			counts[word] += 2
		} else {
			counts[word]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > limit {
		order = order[:limit]
	}
	return order
}

func isKeywordCandidate(word string) bool {
	if utf8.RuneCountInString(word) < minKeywordLength {
		return false
	}
	if _, stop := stopWords[word]; stop {
		return false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
