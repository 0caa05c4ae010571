// Package records reads and writes lead records as JSON Lines or CSV.
package records

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/jonesrussell/north-cloud/lead-classifier/internal/domain"
)

// Format names a record encoding.
type Format string

const (
	FormatJSONL Format = "jsonl"
	FormatCSV   Format = "csv"
)

// CSVTimeLayout is the scraped_at layout of CSV exports.
const CSVTimeLayout = "2006-01-02 15:04:05"

// ErrUnknownFormat is returned for unsupported format names.
var ErrUnknownFormat = errors.New("unknown record format")

// ParseFormat validates a format name ("json" and "ndjson" mean JSON Lines).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jsonl", "json", "ndjson":
		return FormatJSONL, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromPath picks the format from a file extension, defaulting to JSON Lines.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return FormatCSV
	}
	return FormatJSONL
}

// Read decodes all records from r.
func Read(r io.Reader, f Format) ([]domain.Company, error) {
	switch f {
	case FormatJSONL:
		return ReadJSONL(r)
	case FormatCSV:
		return ReadCSV(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// Write encodes companies to w.
func Write(w io.Writer, f Format, companies []domain.Company) error {
	switch f {
	case FormatJSONL:
		return WriteJSONL(w, companies)
	case FormatCSV:
		return WriteCSV(w, companies)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// ReadFile reads records from path; "-" means stdin.
func ReadFile(path string, f Format) ([]domain.Company, error) {
	if path == "-" {
		return Read(os.Stdin, f)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open records: %w", err)
	}
	defer func() { _ = file.Close() }()

	companies, err := Read(file, f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return companies, nil
}

// WriteFile writes records to path; "-" means stdout.
func WriteFile(path string, f Format, companies []domain.Company) error {
	if path == "-" {
		return Write(os.Stdout, f, companies)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create records: %w", err)
	}
	if err := Write(file, f, companies); err != nil {
		_ = file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Close()
}

// parseTimestamp accepts RFC 3339, the CSV layout and the other layouts
// dateparse understands. Blank values are the zero time.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse scraped_at %q: %w", s, err)
	}
	return t.UTC(), nil
}
