package records

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonesrussell/north-cloud/lead-classifier/internal/domain"
)

const maxLineBytes = 4 << 20

// jsonRecord carries scraped_at as text so exports with non RFC 3339
// timestamps still load.
type jsonRecord struct {
	domain.Company
	ScrapedAt string `json:"scraped_at,omitempty"`
}

// ReadJSONL decodes one record per non-blank line.
func ReadJSONL(r io.Reader) ([]domain.Company, error) {
	var companies []domain.Company

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var rec jsonRecord
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		scrapedAt, err := parseTimestamp(rec.ScrapedAt)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rec.Company.ScrapedAt = scrapedAt
		companies = append(companies, rec.Company)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan records: %w", err)
	}
	return companies, nil
}

// WriteJSONL encodes one record per line with RFC 3339 timestamps.
func WriteJSONL(w io.Writer, companies []domain.Company) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for i := range companies {
		rec := jsonRecord{Company: companies[i]}
		if !companies[i].ScrapedAt.IsZero() {
			rec.ScrapedAt = companies[i].ScrapedAt.UTC().Format(time.RFC3339)
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode record %d: %w", i, err)
		}
	}
	return nil
}
