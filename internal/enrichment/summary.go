package enrichment

import (
	"sort"

	"github.com/jonesrussell/north-cloud/lead-classifier/internal/domain"
)

const (
	topKeywordCount    = 10
	topTechnologyCount = 10
	topActivityCount   = 5
	topLocationCount   = 10
	topFoundedCount    = 10
)

// Count is one entry of a frequency ranking.
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Summary aggregates a set of enriched companies.
type Summary struct {
	TotalCompanies           int            `json:"total_companies"`
	ClassDistribution        map[string]int `json:"domain_class_distribution"`
	SentimentDistribution    map[string]int `json:"sentiment_distribution"`
	MaturityDistribution     map[string]int `json:"maturity_distribution"`
	SizeDistribution         map[string]int `json:"size_distribution"`
	RegionDistribution       map[string]int `json:"region_distribution"`
	LanguageDistribution     map[string]int `json:"language_distribution"`
	AvgDescriptionLength     float64        `json:"avg_description_length"`
	AvgWordCount             float64        `json:"avg_word_count"`
	AvgConfidence            float64        `json:"avg_confidence"`
	CompaniesWithWebsite     int            `json:"companies_with_websites"`
	CompaniesWithContactInfo int            `json:"companies_with_contact_info"`
	TopKeywords              []Count        `json:"top_keywords"`
	TopTechnologies          []Count        `json:"top_technologies"`
	TopBusinessActivities    []Count        `json:"top_business_activities"`
	TopLocations             []Count        `json:"location_distribution"`
	TopFoundedYears          []Count        `json:"founded_year_distribution"`
}

// Summarize computes a Summary over companies. An empty slice yields a
// zero Summary.
func Summarize(companies []domain.Company) Summary {
	var s Summary
	if len(companies) == 0 {
		return s
	}

	s.TotalCompanies = len(companies)
	s.ClassDistribution = make(map[string]int)
	s.SentimentDistribution = make(map[string]int)
	s.MaturityDistribution = make(map[string]int)
	s.SizeDistribution = make(map[string]int)
	s.RegionDistribution = make(map[string]int)
	s.LanguageDistribution = make(map[string]int)

	keywords := newCounter()
	technologies := newCounter()
	activities := newCounter()
	locations := newCounter()
	founded := newCounter()

	var descLength, words, confidence int
	for i := range companies {
		c := &companies[i]

		increment(s.ClassDistribution, c.DomainClass)
		increment(s.SentimentDistribution, c.Sentiment)
		increment(s.MaturityDistribution, c.CompanyMaturity)
		increment(s.SizeDistribution, SizeCategory(c.Size))
		increment(s.RegionDistribution, c.Region)
		increment(s.LanguageDistribution, c.Language)

		descLength += c.DescriptionLength
		words += DescribeText(c.Description).Words
		confidence += c.ClassificationConfidence

		if c.Website != "" {
			s.CompaniesWithWebsite++
		}
		if c.HasContactInfo() {
			s.CompaniesWithContactInfo++
		}

		keywords.add(c.Keywords...)
		technologies.add(c.Technologies...)
		activities.add(SplitActivities(c.BusinessActivities)...)
		locations.add(c.Location)
		founded.add(c.Founded)
	}

	n := float64(len(companies))
	s.AvgDescriptionLength = float64(descLength) / n
	s.AvgWordCount = float64(words) / n
	s.AvgConfidence = float64(confidence) / n

	s.TopKeywords = keywords.top(topKeywordCount)
	s.TopTechnologies = technologies.top(topTechnologyCount)
	s.TopBusinessActivities = activities.top(topActivityCount)
	s.TopLocations = locations.top(topLocationCount)
	s.TopFoundedYears = founded.top(topFoundedCount)
	return s
}

func increment(m map[string]int, key string) {
	if key != "" {
		m[key]++
	}
}

type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(values ...string) {
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, seen := c.counts[v]; !seen {
			c.order = append(c.order, v)
		}
		c.counts[v]++
	}
}

// top returns the n most frequent values; ties keep first-seen order.
func (c *counter) top(n int) []Count {
	out := make([]Count, 0, len(c.order))
	for _, v := range c.order {
		out = append(out, Count{Value: v, Count: c.counts[v]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
