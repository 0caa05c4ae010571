// Package enrichment derives lead attributes from company text: business
// activities, keywords, technologies, sentiment, maturity, size, contact
// details, language and region. Every analyzer is pure and returns a zero
// value for empty input.
package enrichment

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxActivities     = 3
	minActivityLength = 6
	maxActivityLength = 99
	activitySeparator = "; "
)

var activityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`we (provide|offer|deliver|specialize in|focus on) ([^.]+)`),
	regexp.MustCompile(`our services include ([^.]+)`),
	regexp.MustCompile(`(providing|offering|delivering) ([^.]+)`),
	regexp.MustCompile(`we are (a|an) ([^.]+) (company|firm|organization)`),
	regexp.MustCompile(`specializing in ([^.]+)`),
	regexp.MustCompile(`expert(s)? in ([^.]+)`),
	regexp.MustCompile(`solutions for ([^.]+)`),
	regexp.MustCompile(`we help (companies|businesses|organizations) ([^.]+)`),
	regexp.MustCompile(`our expertise in ([^.]+)`),
	regexp.MustCompile(`leading provider of ([^.]+)`),
}

// BusinessActivities returns up to three activity phrases such as
// "provide cloud hosting to retailers", joined with "; ".
func BusinessActivities(text string) string {
	lower := strings.ToLower(text)
	if lower == "" {
		return ""
	}

	var activities []string
	for _, pattern := range activityPatterns {
		for _, groups := range pattern.FindAllStringSubmatch(lower, -1) {
			activity := strings.TrimSpace(strings.Join(groups[1:], " "))
			n := utf8.RuneCountInString(activity)
			if n >= minActivityLength && n <= maxActivityLength {
				activities = append(activities, activity)
			}
		}
		if len(activities) >= maxActivities {
			break
		}
	}

	if len(activities) > maxActivities {
		activities = activities[:maxActivities]
	}
	return strings.Join(activities, activitySeparator)
}

// SplitActivities splits a BusinessActivities value back into phrases.
func SplitActivities(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
