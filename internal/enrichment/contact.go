package enrichment

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	minPhoneDigits = 8
	maxPhoneDigits = 15
)

var (
	emailPattern      = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	validEmailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern      = regexp.MustCompile(`\+?\(?\d[\d\s().-]{6,}\d`)
)

// Asset file names such as "logo@2x.png" look like addresses.
var assetSuffixes = []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp"}

// ValidEmail reports whether s is a syntactically valid e-mail address.
func ValidEmail(s string) bool {
	return validEmailPattern.MatchString(s)
}

// ExtractEmails returns the distinct lowercased addresses in text in order
// of appearance.
func ExtractEmails(text string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, m := range emailPattern.FindAllString(text, -1) {
		email := strings.ToLower(strings.TrimRight(m, "."))
		if isAssetName(email) {
			continue
		}
		if _, dup := seen[email]; dup {
			continue
		}
		seen[email] = struct{}{}
		out = append(out, email)
	}
	return out
}

// ExtractPhones returns distinct phone-number-like strings with 8 to 15
// digits, trimmed of surrounding whitespace.
func ExtractPhones(text string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, m := range phonePattern.FindAllString(text, -1) {
		phone := strings.TrimSpace(m)
		digits := countDigits(phone)
		if digits < minPhoneDigits || digits > maxPhoneDigits {
			continue
		}
		if _, dup := seen[phone]; dup {
			continue
		}
		seen[phone] = struct{}{}
		out = append(out, phone)
	}
	return out
}

func isAssetName(email string) bool {
	for _, suffix := range assetSuffixes {
		if strings.HasSuffix(email, suffix) {
			return true
		}
	}
	return false
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
