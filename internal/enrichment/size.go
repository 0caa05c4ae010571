package enrichment

import (
	"regexp"
	"strconv"
	"strings"
)

// Size buckets.
const (
	SizeMicro      = "Micro (1-10)"
	SizeSmall      = "Small (11-50)"
	SizeMedium     = "Medium (51-200)"
	SizeLarge      = "Large (201-1000)"
	SizeEnterprise = "Enterprise (1000+)"
	SizeUnknown    = "Unknown"
)

var headcountPattern = regexp.MustCompile(`\d{1,3}(?:,\d{3})+|\d+`)

var sizeWordBuckets = []struct {
	words  []string
	bucket string
}{
	{[]string{"micro", "very small"}, SizeMicro},
	{[]string{"small", "startup"}, SizeSmall},
	{[]string{"medium", "mid-size"}, SizeMedium},
	{[]string{"large", "big"}, SizeLarge},
	{[]string{"enterprise", "corporate", "multinational"}, SizeEnterprise},
}

// SizeCategory buckets a headcount text such as "51-200 employees" or
// "10,001+ employees" by its first number, falling back to size words.
func SizeCategory(size string) string {
	if strings.TrimSpace(size) == "" {
		return SizeUnknown
	}

	if m := headcountPattern.FindString(size); m != "" {
		if n, err := strconv.Atoi(strings.ReplaceAll(m, ",", "")); err == nil {
			return sizeBucket(n)
		}
	}

	lower := strings.ToLower(size)
	for _, b := range sizeWordBuckets {
		for _, w := range b.words {
			if strings.Contains(lower, w) {
				return b.bucket
			}
		}
	}
	return SizeUnknown
}

func sizeBucket(n int) string {
	switch {
	case n <= 10:
		return SizeMicro
	case n <= 50:
		return SizeSmall
	case n <= 200:
		return SizeMedium
	case n <= 1000:
		return SizeLarge
	default:
		return SizeEnterprise
	}
}
