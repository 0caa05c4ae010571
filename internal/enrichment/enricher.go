package enrichment

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonesrussell/north-cloud/lead-classifier/internal/data"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/domain"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/industry"
)

// DefaultMaxIndustryTags caps Company.IndustryTags.
const DefaultMaxIndustryTags = 3

// Limits caps the list-valued fields the Enricher fills. Zero values fall
// back to the package defaults.
type Limits struct {
	Keywords     int
	Technologies int
	IndustryTags int
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithLimits overrides the list caps.
func WithLimits(l Limits) Option {
	return func(e *Enricher) {
		if l.Keywords > 0 {
			e.limits.Keywords = l.Keywords
		}
		if l.Technologies > 0 {
			e.limits.Technologies = l.Technologies
		}
		if l.IndustryTags > 0 {
			e.limits.IndustryTags = l.IndustryTags
		}
	}
}

// WithLanguageDetector enables description language detection.
func WithLanguageDetector(d *LanguageDetector) Option {
	return func(e *Enricher) {
		e.language = d
	}
}

// WithClock sets the reference time used for company age.
func WithClock(now func() time.Time) Option {
	return func(e *Enricher) {
		if now != nil {
			e.now = now
		}
	}
}

// Enricher fills the derived fields of a Company. It holds only immutable
// state and is safe for concurrent use.
type Enricher struct {
	classifier   *industry.Classifier
	technologies *TechnologyScanner
	sentiment    *SentimentAnalyzer
	maturity     *MaturityAnalyzer
	language     *LanguageDetector
	limits       Limits
	now          func() time.Time
}

// NewEnricher returns an Enricher classifying with c.
func NewEnricher(c *industry.Classifier, opts ...Option) *Enricher {
	e := &Enricher{
		classifier:   c,
		technologies: NewTechnologyScanner(),
		sentiment:    NewSentimentAnalyzer(),
		limits: Limits{
			Keywords:     DefaultMaxKeywords,
			Technologies: DefaultMaxTechnologies,
			IndustryTags: DefaultMaxIndustryTags,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.maturity = NewMaturityAnalyzer(e.now)
	return e
}

// Enrich classifies c and overwrites its derived fields. Scraped fields are
// left untouched except Region and Email, which are filled only when empty.
func (e *Enricher) Enrich(c *domain.Company) {
	explanation := e.classifier.Explain(c.ClassifierInput())
	result := explanation.Result

	c.DomainClass = result.Label
	c.ClassificationConfidence = result.Confidence
	c.IndustryTags = industryTags(explanation, e.limits.IndustryTags)

	description := c.Description
	c.Keywords = Keywords(description, e.limits.Keywords)
	c.Technologies = e.technologies.Scan(description, e.limits.Technologies)
	c.Sentiment = e.sentiment.Analyze(description)
	c.DescriptionLength = utf8.RuneCountInString(description)
	c.BusinessActivities = BusinessActivities(description)
	c.CompanyMaturity = e.maturity.Analyze(description, c.Founded)
	c.Language = e.language.Detect(description)

	if c.Region == "" {
		c.Region = data.RegionFor(c.Location)
	}
	if c.Email == "" {
		if emails := ExtractEmails(description); len(emails) > 0 {
			c.Email = emails[0]
		}
	}
}

// industryTags lists the winning label followed by taxonomy runner-ups
// scoring at least half of the winner, best first. Fallback results carry
// no tags.
func industryTags(x industry.Explanation, limit int) []string {
	result := x.Result
	if result.Stage == industry.StageFallback {
		return nil
	}

	tags := []string{result.Label}
	if result.Stage != industry.StageTaxonomy {
		return tags
	}

	runners := make([]industry.CategoryScore, 0, len(x.Candidates))
	for _, cand := range x.Candidates {
		if cand.Label != result.Label && cand.Score*2 >= result.Score {
			runners = append(runners, cand)
		}
	}
	sort.SliceStable(runners, func(i, j int) bool {
		return runners[i].Score > runners[j].Score
	})

	for _, r := range runners {
		if len(tags) >= limit {
			break
		}
		tags = append(tags, r.Label)
	}
	return tags
}

// IsNonEnglish reports whether a detected language is set and is not English.
func IsNonEnglish(c *domain.Company) bool {
	return c.Language != "" && !strings.EqualFold(c.Language, "en")
}
