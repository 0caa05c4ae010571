package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/jonesrussell/north-cloud/lead-classifier/internal/domain"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/enrichment"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/records"
)

const stdioPath = "-"

// formatFor resolves --format, falling back to the file extension.
func formatFor(flag, path string) (records.Format, error) {
	if flag != "" {
		return records.ParseFormat(flag)
	}
	return records.FormatFromPath(path), nil
}

// writeOutput writes companies to path, or to w when path is "-".
func writeOutput(w io.Writer, path string, f records.Format, companies []domain.Company) error {
	if path == "" || path == stdioPath {
		return records.Write(w, f, companies)
	}
	return records.WriteFile(path, f, companies)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

// renderSummary prints the lead set analytics as tables.
func renderSummary(w io.Writer, s enrichment.Summary) {
	overview := newTable(w)
	overview.SetTitle("Summary")
	overview.AppendRows([]table.Row{
		{"Companies", humanize.Comma(int64(s.TotalCompanies))},
		{"With website", humanize.Comma(int64(s.CompaniesWithWebsite))},
		{"With contact info", humanize.Comma(int64(s.CompaniesWithContactInfo))},
		{"Avg confidence", humanize.FtoaWithDigits(s.AvgConfidence, 1)},
		{"Avg description length", humanize.FtoaWithDigits(s.AvgDescriptionLength, 1)},
		{"Avg word count", humanize.FtoaWithDigits(s.AvgWordCount, 1)},
	})
	overview.Render()

	renderDistribution(w, "Industry", s.ClassDistribution)
	renderDistribution(w, "Maturity", s.MaturityDistribution)
	renderDistribution(w, "Sentiment", s.SentimentDistribution)
	renderDistribution(w, "Size", s.SizeDistribution)
	renderDistribution(w, "Region", s.RegionDistribution)
	renderCounts(w, "Top keywords", s.TopKeywords)
	renderCounts(w, "Top technologies", s.TopTechnologies)
	renderCounts(w, "Founded", s.TopFoundedYears)
}

func renderDistribution(w io.Writer, title string, dist map[string]int) {
	counts := make([]enrichment.Count, 0, len(dist))
	for value, n := range dist {
		if value == "" {
			value = "(none)"
		}
		counts = append(counts, enrichment.Count{Value: value, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Value < counts[j].Value
	})
	renderCounts(w, title, counts)
}

func renderCounts(w io.Writer, title string, counts []enrichment.Count) {
	if len(counts) == 0 {
		return
	}
	t := newTable(w)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Value", "Count"})
	for _, c := range counts {
		t.AppendRow(table.Row{c.Value, c.Count})
	}
	t.Render()
}
