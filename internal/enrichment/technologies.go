package enrichment

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonesrussell/north-cloud/lead-classifier/internal/termmatch"
)

// DefaultMaxTechnologies is the technology cap used when callers pass 0.
const DefaultMaxTechnologies = 8

// shortTermLength is the length up to which a technology name must appear
// as a standalone word ("go" must not match "google").
const shortTermLength = 3

// technologyGroups is ordered; results follow this order.
var technologyGroups = [][]string{
	// Programming languages
	{"python", "java", "javascript", "c++", "c#", "php", "ruby", "golang", "go", "rust", "swift", "kotlin", "scala"},
	// Web
	{"react", "angular", "vue", "nodejs", "node.js", "html", "css", "bootstrap", "jquery", "typescript", "webpack"},
	// Cloud platforms
	{"aws", "azure", "gcp", "google cloud", "cloud", "kubernetes", "docker", "serverless", "lambda"},
	// Databases
	{"sql", "mysql", "postgresql", "mongodb", "oracle", "redis", "elasticsearch", "cassandra", "dynamodb"},
	// AI and ML
	{"ai", "artificial intelligence", "machine learning", "ml", "deep learning", "tensorflow", "pytorch", "nlp", "computer vision"},
	// Mobile
	{"mobile", "ios", "android", "app", "mobile app", "flutter", "react native", "xamarin", "cordova"},
	// Business technology
	{"crm", "erp", "saas", "api", "blockchain", "iot", "automation", "salesforce", "sap"},
	// Security
	{"cybersecurity", "security", "encryption", "firewall", "penetration testing", "ssl", "authentication"},
	// Analytics
	{"analytics", "big data", "data science", "business intelligence", "tableau", "power bi", "looker", "qlik"},
	// DevOps
	{"devops", "ci/cd", "jenkins", "git", "github", "gitlab", "terraform", "ansible"},
	// E-commerce
	{"shopify", "magento", "woocommerce", "prestashop", "bigcommerce", "stripe", "paypal"},
}

// TechnologyScanner finds known technology names in text with a single
// pass over a shared automaton.
type TechnologyScanner struct {
	matcher *termmatch.Matcher
	ordered []string
}

// NewTechnologyScanner compiles the technology dictionary.
func NewTechnologyScanner() *TechnologyScanner {
	var ordered []string
	seen := make(map[string]struct{})
	for _, group := range technologyGroups {
		for _, tech := range group {
			if _, dup := seen[tech]; dup {
				continue
			}
			seen[tech] = struct{}{}
			ordered = append(ordered, tech)
		}
	}
	return &TechnologyScanner{matcher: termmatch.New(ordered), ordered: ordered}
}

// Scan returns up to limit technologies found in text, in dictionary order.
func (s *TechnologyScanner) Scan(text string, limit int) []string {
	if limit <= 0 {
		limit = DefaultMaxTechnologies
	}

	lower := strings.ToLower(text)
	hits := s.matcher.Find(lower)
	if hits.Count() == 0 {
		return nil
	}

	var out []string
	for _, tech := range s.ordered {
		if !hits.Has(tech) {
			continue
		}
		if len(tech) <= shortTermLength && !containsWord(lower, tech) {
			continue
		}
		out = append(out, tech)
		if len(out) == limit {
			break
		}
	}
	return out
}

// containsWord reports whether term occurs in text without a letter or
// digit directly before or after it.
func containsWord(text, term string) bool {
	for offset := 0; offset < len(text); {
		idx := strings.Index(text[offset:], term)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(term)

		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if !isWordRune(before) && !isWordRune(after) {
			return true
		}
		offset = start + 1
	}
	return false
}

func isWordRune(r rune) bool {
	return r != utf8.RuneError && (unicode.IsLetter(r) || unicode.IsDigit(r))
}
