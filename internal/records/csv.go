package records

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/jonesrussell/north-cloud/lead-classifier/internal/domain"
)

const listSeparator = ", "

// column binds a CSV header to a Company field.
type column struct {
	name string
	get  func(*domain.Company) string
	set  func(*domain.Company, string) error
}

func stringColumn(name string, field func(*domain.Company) *string) column {
	return column{
		name: name,
		get:  func(c *domain.Company) string { return *field(c) },
		set: func(c *domain.Company, v string) error {
			*field(c) = v
			return nil
		},
	}
}

func intColumn(name string, field func(*domain.Company) *int) column {
	return column{
		name: name,
		get:  func(c *domain.Company) string { return strconv.Itoa(*field(c)) },
		set: func(c *domain.Company, v string) error {
			n, err := parseInt(v)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*field(c) = n
			return nil
		},
	}
}

func listColumn(name string, field func(*domain.Company) *[]string) column {
	return column{
		name: name,
		get:  func(c *domain.Company) string { return strings.Join(*field(c), listSeparator) },
		set: func(c *domain.Company, v string) error {
			*field(c) = splitList(v)
			return nil
		},
	}
}

// columns is the export order.
var columns = []column{
	stringColumn("companyLinkedinUrl", func(c *domain.Company) *string { return &c.LinkedInURL }),
	stringColumn("name", func(c *domain.Company) *string { return &c.Name }),
	stringColumn("description", func(c *domain.Company) *string { return &c.Description }),
	stringColumn("website", func(c *domain.Company) *string { return &c.Website }),
	stringColumn("domain", func(c *domain.Company) *string { return &c.Domain }),
	stringColumn("domain_class", func(c *domain.Company) *string { return &c.DomainClass }),
	intColumn("classification_confidence", func(c *domain.Company) *int { return &c.ClassificationConfidence }),
	listColumn("industry_tags", func(c *domain.Company) *[]string { return &c.IndustryTags }),
	stringColumn("size", func(c *domain.Company) *string { return &c.Size }),
	stringColumn("location", func(c *domain.Company) *string { return &c.Location }),
	stringColumn("region", func(c *domain.Company) *string { return &c.Region }),
	stringColumn("founded", func(c *domain.Company) *string { return &c.Founded }),
	stringColumn("company_maturity", func(c *domain.Company) *string { return &c.CompanyMaturity }),
	listColumn("keywords", func(c *domain.Company) *[]string { return &c.Keywords }),
	listColumn("technologies", func(c *domain.Company) *[]string { return &c.Technologies }),
	stringColumn("sentiment", func(c *domain.Company) *string { return &c.Sentiment }),
	intColumn("description_length", func(c *domain.Company) *int { return &c.DescriptionLength }),
	stringColumn("business_activities", func(c *domain.Company) *string { return &c.BusinessActivities }),
	stringColumn("language", func(c *domain.Company) *string { return &c.Language }),
	stringColumn("email", func(c *domain.Company) *string { return &c.Email }),
	stringColumn("contact_email", func(c *domain.Company) *string { return &c.ContactEmail }),
	stringColumn("phone", func(c *domain.Company) *string { return &c.Phone }),
	stringColumn("contact_person", func(c *domain.Company) *string { return &c.ContactPerson }),
	{
		name: "scraped_at",
		get: func(c *domain.Company) string {
			if c.ScrapedAt.IsZero() {
				return ""
			}
			return c.ScrapedAt.UTC().Format(CSVTimeLayout)
		},
		set: func(c *domain.Company, v string) error {
			t, err := parseTimestamp(v)
			if err != nil {
				return err
			}
			c.ScrapedAt = t
			return nil
		},
	},
}

// Header returns the CSV column names in export order.
func Header() []string {
	out := make([]string, len(columns))
	for i, col := range columns {
		out[i] = col.name
	}
	return out
}

// WriteCSV writes a header row followed by one row per company.
func WriteCSV(w io.Writer, companies []domain.Company) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(columns))
	for i := range companies {
		for j, col := range columns {
			row[j] = col.get(&companies[i])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a CSV with a header row. Columns are matched by name, in
// any order; unknown columns are ignored.
func ReadCSV(r io.Reader) ([]domain.Company, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	byName := make(map[string]column, len(columns))
	for _, col := range columns {
		byName[col.name] = col
	}
	bound := make([]*column, len(header))
	for i, name := range header {
		if col, ok := byName[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))]; ok {
			bound[i] = &col
		}
	}

	var companies []domain.Company
	for row := 2; ; row++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		var c domain.Company
		for i, value := range fields {
			if i >= len(bound) || bound[i] == nil {
				continue
			}
			if err := bound[i].set(&c, value); err != nil {
				return nil, fmt.Errorf("row %d: %w", row, err)
			}
		}
		companies = append(companies, c)
	}
	return companies, nil
}

// parseInt accepts integers and whole floats such as "85.0".
func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return int(f), nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
