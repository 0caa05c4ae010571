// Package pageextract turns a saved or fetched company page into a lead
// record.
package pageextract

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"github.com/jonesrussell/north-cloud/lead-classifier/internal/domain"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/enrichment"
)

// maxFieldLength bounds the text of an element accepted as size, location
// or founded. Longer elements are paragraphs, not labels.
const maxFieldLength = 160

const fieldSelectors = "p, span, div, dd, li"

var (
	sizeMarkers     = []string{"employees", "people"}
	locationMarkers = []string{"headquarter", "location", "based in", "office"}
	foundedMarkers  = []string{"founded", "established"}
	websiteMarkers  = []string{"website", "visit website"}
)

// Extractor reads company pages with goquery.
type Extractor struct {
	now func() time.Time
}

// New creates an Extractor. now stamps ScrapedAt; nil means time.Now.
func New(now func() time.Time) *Extractor {
	if now == nil {
		now = time.Now
	}
	return &Extractor{now: now}
}

// Extract parses body, the HTML served at pageURL, into a Company with the
// scraped fields set. Derived fields are left for the enricher.
func (e *Extractor) Extract(pageURL string, body []byte) (*domain.Company, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}

	c := &domain.Company{
		Name:        extractName(doc),
		Description: extractMetaDescription(doc),
		Domain:      CompanyIdentifier(u),
		Website:     extractWebsite(doc, u),
		Size:        findField(doc, sizeMarkers),
		Location:    findField(doc, locationMarkers),
		Founded:     findField(doc, foundedMarkers),
		ScrapedAt:   e.now().UTC(),
	}
	if isCompanyPage(u) {
		c.LinkedInURL = pageURL
	}
	if c.Description == "" {
		c.Description = readableExcerpt(body, u)
	}

	emails, phones := extractContacts(doc)
	if len(emails) > 0 {
		c.Email = emails[0]
	}
	if len(emails) > 1 {
		c.ContactEmail = emails[1]
	}
	if len(phones) > 0 {
		c.Phone = phones[0]
	}

	return c, nil
}

// extractName prefers the first h1, then <title>, keeping the text before
// any "|" separator.
func extractName(doc *goquery.Document) string {
	name := strings.TrimSpace(doc.Find("h1").First().Text())
	if name == "" {
		name = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if before, _, found := strings.Cut(name, "|"); found {
		name = strings.TrimSpace(before)
	}
	return collapseSpace(name)
}

func extractMetaDescription(doc *goquery.Document) string {
	if desc, exists := doc.Find("meta[name='description']").Attr("content"); exists {
		if desc = strings.TrimSpace(desc); desc != "" {
			return desc
		}
	}

	if ogDesc, exists := doc.Find("meta[property='og:description']").Attr("content"); exists {
		return strings.TrimSpace(ogDesc)
	}

	return ""
}

// readableExcerpt runs the readability extractor over pages that carry no
// description meta tag.
func readableExcerpt(body []byte, u *url.URL) string {
	article, err := readability.NewParser().Parse(bytes.NewReader(body), u)
	if err != nil {
		return ""
	}
	return collapseSpace(article.Excerpt)
}

// CompanyIdentifier returns the path segment after "company" on LinkedIn
// style URLs and the host otherwise.
func CompanyIdentifier(u *url.URL) string {
	if u == nil {
		return ""
	}
	if isCompanyPage(u) {
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		for i, seg := range segments {
			if seg == "company" && i+1 < len(segments) {
				return segments[i+1]
			}
		}
	}
	return strings.ToLower(u.Hostname())
}

func isCompanyPage(u *url.URL) bool {
	return strings.Contains(strings.ToLower(u.Hostname()), "linkedin.com") &&
		strings.Contains(u.Path, "/company/")
}

// extractWebsite returns the first link labelled as a website that leaves
// the page's own host.
func extractWebsite(doc *goquery.Document, page *url.URL) string {
	var website string
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if !containsAny(strings.ToLower(a.Text()), websiteMarkers) {
			return true
		}
		href, _ := a.Attr("href")
		target, err := page.Parse(strings.TrimSpace(href))
		if err != nil || target.Hostname() == "" || strings.EqualFold(target.Hostname(), page.Hostname()) {
			return true
		}
		if strings.Contains(strings.ToLower(target.Hostname()), "linkedin.com") {
			return true
		}
		website = target.String()
		return false
	})
	return website
}

// findField returns the text of the innermost short element mentioning
// one of markers, in document order.
func findField(doc *goquery.Document, markers []string) string {
	matches := func(s *goquery.Selection) bool {
		text := collapseSpace(s.Text())
		return text != "" && len(text) <= maxFieldLength && containsAny(strings.ToLower(text), markers)
	}

	var found string
	doc.Find(fieldSelectors).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !matches(s) {
			return true
		}
		if s.Find(fieldSelectors).FilterFunction(func(_ int, child *goquery.Selection) bool {
			return matches(child)
		}).Length() > 0 {
			return true
		}
		found = collapseSpace(s.Text())
		return false
	})
	return found
}

// extractContacts collects mailto/tel links first, then addresses and
// numbers found in the visible text nodes.
func extractContacts(doc *goquery.Document) (emails, phones []string) {
	var parts []string
	doc.Find("a[href^='mailto:'], a[href^='tel:']").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimPrefix(strings.TrimPrefix(href, "mailto:"), "tel:")
		if before, _, found := strings.Cut(href, "?"); found {
			href = before
		}
		parts = append(parts, href)
	})

	body := doc.Find("body").Clone()
	body.Find("script, style, noscript").Remove()
	body.Find("*").AddBack().Contents().Each(func(_ int, n *goquery.Selection) {
		if goquery.NodeName(n) != "#text" {
			return
		}
		if text := strings.TrimSpace(n.Text()); text != "" {
			parts = append(parts, text)
		}
	})

	// "|" stops phone numbers from running across node boundaries.
	text := strings.Join(parts, " | ")
	return enrichment.ExtractEmails(text), enrichment.ExtractPhones(text)
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
