package domain

import (
	"regexp"
	"strconv"
	"time"

	"github.com/jonesrussell/north-cloud/lead-classifier/internal/industry"
)

// startupMaxAgeYears is the age below which a company counts as a startup.
const startupMaxAgeYears = 5

var yearPattern = regexp.MustCompile(`\b(1[89]\d{2}|20\d{2})\b`)

// Company is one lead record: scraped page fields plus everything the
// enrichment pipeline derives from them.
type Company struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Website     string `json:"website"`
	LinkedInURL string `json:"companyLinkedinUrl"`
	Domain      string `json:"domain"`

	// Classification
	DomainClass              string   `json:"domain_class"`
	ClassificationConfidence int      `json:"classification_confidence"`
	IndustryTags             []string `json:"industry_tags,omitempty"`

	// Firmographics
	Size            string `json:"size"`
	Location        string `json:"location"`
	Region          string `json:"region"`
	Founded         string `json:"founded"`
	CompanyMaturity string `json:"company_maturity"`

	// Text analysis
	Keywords           []string `json:"keywords,omitempty"`
	Technologies       []string `json:"technologies,omitempty"`
	Sentiment          string   `json:"sentiment"`
	DescriptionLength  int      `json:"description_length"`
	BusinessActivities string   `json:"business_activities"`
	Language           string   `json:"language,omitempty"`

	// Contact
	Email         string `json:"email"`
	ContactEmail  string `json:"contact_email"`
	Phone         string `json:"phone"`
	ContactPerson string `json:"contact_person"`

	ScrapedAt time.Time `json:"scraped_at"`
}

// PrimaryEmail prefers the contact address over the generic one.
func (c *Company) PrimaryEmail() string {
	if c.ContactEmail != "" {
		return c.ContactEmail
	}
	return c.Email
}

// HasContactInfo reports whether any e-mail or phone is known.
func (c *Company) HasContactInfo() bool {
	return c.Email != "" || c.ContactEmail != "" || c.Phone != ""
}

// DisplayLocation formats region and location for display.
func (c *Company) DisplayLocation() string {
	switch {
	case c.Region != "" && c.Location != "":
		return c.Region + ", " + c.Location
	case c.Location != "":
		return c.Location
	case c.Region != "":
		return c.Region
	default:
		return "Unknown"
	}
}

// FoundedYear extracts the first plausible year from the Founded text.
func (c *Company) FoundedYear() (int, bool) {
	return ParseYear(c.Founded)
}

// ParseYear returns the first four-digit year between 1800 and 2099 in s,
// so "Founded 2015", "2015" and "est. 2015." all yield 2015.
func ParseYear(s string) (int, bool) {
	m := yearPattern.FindString(s)
	if m == "" {
		return 0, false
	}
	year, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return year, true
}

// AgeYears returns the company age relative to now.
func (c *Company) AgeYears(now time.Time) (int, bool) {
	year, ok := c.FoundedYear()
	if !ok || year > now.Year() {
		return 0, false
	}
	return now.Year() - year, true
}

// IsStartup reports whether the company is younger than five years.
func (c *Company) IsStartup(now time.Time) bool {
	age, ok := c.AgeYears(now)
	return ok && age < startupMaxAgeYears
}

// ConfidenceLevel returns the display level of the classification confidence.
func (c *Company) ConfidenceLevel() string {
	return industry.ConfidenceLevel(c.ClassificationConfidence)
}

// ClassifierInput returns the text bundle the industry classifier scores.
func (c *Company) ClassifierInput() industry.Input {
	return industry.Input{
		Domain:      c.Domain,
		Name:        c.Name,
		Description: c.Description,
	}
}
