package processor_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/lead-classifier/internal/discovery"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/domain"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/enrichment"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/fetcher"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/industry"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/pageextract"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/processor"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/telemetry"
)

const cloudDescription = "We provide software development and cloud computing services for retailers."

func fixedClock() time.Time {
	return time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
}

func newEnricher(t *testing.T) *enrichment.Enricher {
	t.Helper()

	taxonomy, err := industry.DefaultTaxonomy()
	require.NoError(t, err)
	return enrichment.NewEnricher(industry.New(taxonomy), enrichment.WithClock(fixedClock))
}

type fakeFounded struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeFounded) FillFounded(_ context.Context, c *domain.Company) bool {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if c.Founded != "" {
		return false
	}
	c.Founded = "2012"
	return true
}

func TestBatchProcessor_Process(t *testing.T) {
	t.Parallel()

	tp := telemetry.NewProvider()
	founded := &fakeFounded{}
	b := processor.NewBatchProcessor(newEnricher(t), 3, nil,
		processor.WithTelemetry(tp),
		processor.WithFoundedResolver(founded),
	)

	companies := make([]domain.Company, 20)
	for i := range companies {
		companies[i] = domain.Company{Name: fmt.Sprintf("company-%02d", i)}
		if i%2 == 0 {
			companies[i].Description = cloudDescription
			companies[i].Founded = "2019"
		}
	}

	stats, err := b.Process(context.Background(), companies)
	require.NoError(t, err)

	assert.NotEmpty(t, stats.RunID)
	assert.Equal(t, 20, stats.Total)
	assert.Equal(t, 20, stats.Enriched)
	assert.Equal(t, 10, stats.FoundedFilled)
	assert.Equal(t, 20, founded.calls)

	for i, c := range companies {
		assert.Equal(t, fmt.Sprintf("company-%02d", i), c.Name, "order must be preserved")
		if i%2 == 0 {
			assert.Equal(t, "Cloud Services", c.DomainClass)
			assert.Equal(t, "2019", c.Founded)
		} else {
			assert.Equal(t, industry.OtherLabel, c.DomainClass)
			assert.Equal(t, "2012", c.Founded)
		}
	}

	assert.InDelta(t, 20, testutil.ToFloat64(tp.Metrics.RecordsEnriched), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(tp.Metrics.ActiveWorkers), 0)
}

func TestBatchProcessor_Empty(t *testing.T) {
	t.Parallel()

	b := processor.NewBatchProcessor(newEnricher(t), 0, nil)
	assert.Equal(t, processor.DefaultConcurrency, b.Concurrency())

	stats, err := b.Process(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.ItemsPerSecond())
}

func TestBatchProcessor_Cancelled(t *testing.T) {
	t.Parallel()

	b := processor.NewBatchProcessor(newEnricher(t), 2, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	companies := []domain.Company{{Description: cloudDescription}, {Description: cloudDescription}}
	stats, err := b.Process(ctx, companies)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, stats.Total)
	assert.Zero(t, stats.Enriched)
	assert.Empty(t, companies[0].DomainClass)
}

type fakeFetcher struct {
	pages map[string]string
}

func (f *fakeFetcher) Fetch(_ context.Context, rawURL string) (*fetcher.Page, error) {
	body, ok := f.pages[rawURL]
	if !ok {
		return nil, &fetcher.StatusError{URL: rawURL, StatusCode: 404}
	}
	return &fetcher.Page{URL: rawURL, FinalURL: rawURL, StatusCode: 200, Body: []byte(body)}, nil
}

func companyPage(name, description string) string {
	return `<html><head><title>` + name + ` | LinkedIn</title>` +
		`<meta name="description" content="` + description + `"></head>` +
		`<body><h1>` + name + `</h1></body></html>`
}

func TestScraper_Scrape(t *testing.T) {
	t.Parallel()

	urls := []string{
		"https://www.linkedin.com/company/nimbus",
		"https://www.linkedin.com/company/missing",
		"https://www.linkedin.com/company/oakwood",
	}
	source := discovery.New("", discovery.StaticSearcher(urls), nil)
	pages := &fakeFetcher{pages: map[string]string{
		urls[0]: companyPage("Nimbus", cloudDescription),
		urls[2]: companyPage("Oakwood", "Handmade oak tables."),
	}}

	tp := telemetry.NewProvider()
	batch := processor.NewBatchProcessor(newEnricher(t), 2, nil, processor.WithTelemetry(tp))
	scraper := processor.NewScraper(source, pages, pageextract.New(fixedClock), batch, nil)

	report, err := scraper.Scrape(context.Background(), discovery.Query{Keywords: "cloud"}, 5)
	require.NoError(t, err)

	assert.Equal(t, urls, report.URLs)
	require.Len(t, report.Companies, 2)
	assert.Equal(t, "Nimbus", report.Companies[0].Name)
	assert.Equal(t, "Cloud Services", report.Companies[0].DomainClass)
	assert.Equal(t, "nimbus", report.Companies[0].Domain)
	assert.Equal(t, urls[0], report.Companies[0].LinkedInURL)
	assert.Equal(t, "Oakwood", report.Companies[1].Name)

	require.Len(t, report.Failures, 1)
	assert.Equal(t, urls[1], report.Failures[0].URL)
	assert.Equal(t, processor.StageFetch, report.Failures[0].Stage)
	assert.True(t, errors.Is(report.Failures[0].Err, fetcher.ErrUnexpectedStatus))

	assert.Equal(t, 2, report.Stats.Enriched)
	assert.InDelta(t, 1, testutil.ToFloat64(tp.Metrics.RecordsFailed.WithLabelValues(processor.StageFetch)), 0)
}

type failingSource struct{}

func (failingSource) Discover(context.Context, discovery.Query, int) ([]string, error) {
	return nil, discovery.ErrNoResults
}

func TestScraper_DiscoveryError(t *testing.T) {
	t.Parallel()

	batch := processor.NewBatchProcessor(newEnricher(t), 1, nil)
	scraper := processor.NewScraper(failingSource{}, &fakeFetcher{}, pageextract.New(fixedClock), batch, nil)

	report, err := scraper.Scrape(context.Background(), discovery.Query{Keywords: "x"}, 3)
	require.ErrorIs(t, err, discovery.ErrNoResults)
	assert.True(t, strings.HasPrefix(err.Error(), "discover:"))
	assert.Empty(t, report.Companies)
}
