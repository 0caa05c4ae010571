package discovery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jonesrussell/north-cloud/lead-classifier/internal/logger"
)

// DefaultBaseURL is the company profile prefix candidates are built on.
const DefaultBaseURL = "https://www.linkedin.com/company/"

const (
	mappedKeywordLimit   = 3
	companiesPerIndustry = 3
	minSlugKeywordLength = 3
	companyPathMarker    = "/company/"
)

// ErrNoResults is returned when neither search nor construction yields a URL.
var ErrNoResults = errors.New("no company urls discovered")

// industryMappings lists well known companies per industry keyword,
// consulted in order.
var industryMappings = []struct {
	industry  string
	companies []string
}{
	{"fintech", []string{"stripe", "square", "plaid", "klarna", "revolut", "wise", "checkout", "adyen"}},
	{"ai", []string{"openai", "anthropic", "deepmind", "scale-ai", "huggingface", "stability-ai"}},
	{"crypto", []string{"coinbase", "binance", "kraken", "gemini", "blockchain", "chainlink"}},
	{"healthcare", []string{"tempus", "flatiron-health", "veracyte", "guardant-health", "moderna"}},
	{"ecommerce", []string{"shopify", "bigcommerce", "woocommerce", "magento", "prestashop"}},
	{"saas", []string{"salesforce", "hubspot", "zendesk", "atlassian", "slack", "zoom"}},
	{"edtech", []string{"coursera", "udemy", "khan-academy", "duolingo", "skillshare"}},
	{"logistics", []string{"fedex", "ups", "dhl", "flexport", "shippo", "easypost"}},
}

var slugSuffixes = []string{"", "-inc", "-technologies", "-solutions", "inc", "tech"}

// Searcher looks up company profile URLs for a query string.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]string, error)
}

// SearcherFunc adapts a function to Searcher.
type SearcherFunc func(ctx context.Context, query string, limit int) ([]string, error)

// Search calls f.
func (f SearcherFunc) Search(ctx context.Context, query string, limit int) ([]string, error) {
	return f(ctx, query, limit)
}

// Discoverer produces candidate company URLs, asking a Searcher first and
// constructing URLs from the query keywords when search yields nothing.
type Discoverer struct {
	baseURL  string
	searcher Searcher
	log      logger.Logger
}

// New creates a Discoverer. searcher may be nil; baseURL defaults to
// DefaultBaseURL.
func New(baseURL string, searcher Searcher, log logger.Logger) *Discoverer {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Discoverer{baseURL: baseURL, searcher: searcher, log: log}
}

// Discover returns at most limit distinct company URLs for q.
func (d *Discoverer) Discover(ctx context.Context, q Query, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("discover: limit must be positive, got %d", limit)
	}

	query := q.String()
	d.log.Info("Discovering companies", logger.String("query", query), logger.Int("limit", limit))

	if d.searcher != nil {
		urls, err := d.search(ctx, query, limit)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			d.log.Warn("Search failed, constructing urls from keywords", logger.Error(err))
		case len(urls) > 0:
			d.log.Debug("Search found urls", logger.Int("count", len(urls)))
			return urls, nil
		}
	}

	urls := d.Construct(q, limit)
	if len(urls) == 0 {
		return nil, ErrNoResults
	}
	d.log.Debug("Constructed candidate urls", logger.Int("count", len(urls)))
	return urls, nil
}

func (d *Discoverer) search(ctx context.Context, query string, limit int) ([]string, error) {
	raw, err := d.searcher.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	set := newURLSet(limit)
	for _, r := range raw {
		if clean, ok := CleanURL(r); ok && set.add(clean) {
			break
		}
	}
	return set.urls, nil
}

// Construct builds candidate URLs from the query keywords: companies of
// matching industries first, then slug variants of each keyword.
func (d *Discoverer) Construct(q Query, limit int) []string {
	set := newURLSet(limit)
	terms := q.terms()

	for _, term := range terms[:min(len(terms), mappedKeywordLimit)] {
		for _, m := range industryMappings {
			if !strings.Contains(m.industry, term) && !strings.Contains(term, m.industry) {
				continue
			}
			for _, company := range m.companies[:min(len(m.companies), companiesPerIndustry)] {
				if set.add(d.baseURL + company) {
					return set.urls
				}
			}
		}
	}

	for _, term := range terms[:min(len(terms), limit)] {
		slug := slugify(term)
		if len(slug) < minSlugKeywordLength {
			continue
		}
		for _, suffix := range slugSuffixes {
			if set.add(d.baseURL + slug + suffix) {
				return set.urls
			}
		}
	}

	return set.urls
}

// CleanURL strips query strings and tracking fragments from a search hit
// and reports whether it points at a company profile.
func CleanURL(raw string) (string, bool) {
	clean := strings.TrimSpace(raw)
	if before, _, found := strings.Cut(clean, "&"); found {
		clean = before
	}
	if before, _, found := strings.Cut(clean, "?"); found {
		clean = before
	}
	if before, _, found := strings.Cut(clean, "#"); found {
		clean = before
	}
	if !strings.Contains(clean, companyPathMarker) || strings.HasSuffix(clean, companyPathMarker) {
		return "", false
	}
	return clean, true
}

// slugify keeps lowercase letters, digits and dashes.
func slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// urlSet is an ordered, capped set of URLs.
type urlSet struct {
	urls  []string
	seen  map[string]struct{}
	limit int
}

func newURLSet(limit int) *urlSet {
	return &urlSet{seen: make(map[string]struct{}), limit: limit}
}

// add inserts u and reports whether the set is now full.
func (s *urlSet) add(u string) bool {
	if _, dup := s.seen[u]; !dup && len(s.urls) < s.limit {
		s.seen[u] = struct{}{}
		s.urls = append(s.urls, u)
	}
	return len(s.urls) >= s.limit
}
