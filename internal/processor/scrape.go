package processor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/jonesrussell/north-cloud/lead-classifier/internal/discovery"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/domain"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/fetcher"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/logger"
)

// Pipeline stages reported in Failure.Stage and the records_failed metric.
const (
	StageFetch   = "fetch"
	StageExtract = "extract"
)

// URLSource produces candidate company page URLs for a query.
type URLSource interface {
	Discover(ctx context.Context, q discovery.Query, limit int) ([]string, error)
}

// PageFetcher downloads a page.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*fetcher.Page, error)
}

// PageExtractor turns a downloaded page into a company record.
type PageExtractor interface {
	Extract(pageURL string, body []byte) (*domain.Company, error)
}

// Failure records a URL dropped from a scrape run.
type Failure struct {
	URL   string
	Stage string
	Err   error
}

// ScrapeReport is the outcome of one scrape run. Companies keep the order
// of the discovered URLs they came from.
type ScrapeReport struct {
	Query     string
	URLs      []string
	Companies []domain.Company
	Failures  []Failure
	Stats     Stats
}

// Scraper chains discovery, fetching, extraction and batch enrichment.
type Scraper struct {
	source    URLSource
	fetcher   PageFetcher
	extractor PageExtractor
	batch     *BatchProcessor
	logger    logger.Logger
}

// NewScraper wires a scrape pipeline. The fetch stage runs with the batch
// processor's concurrency and telemetry. log may be nil.
func NewScraper(source URLSource, f PageFetcher, x PageExtractor, batch *BatchProcessor, log logger.Logger) *Scraper {
	if log == nil {
		log = logger.NewNop()
	}
	return &Scraper{
		source:    source,
		fetcher:   f,
		extractor: x,
		batch:     batch,
		logger:    log,
	}
}

// Scrape discovers up to limit company pages for q and returns the
// enriched records. Pages that fail to fetch or parse are reported in
// Failures and skipped; only discovery and context errors abort the run.
func (s *Scraper) Scrape(ctx context.Context, q discovery.Query, limit int) (*ScrapeReport, error) {
	report := &ScrapeReport{Query: q.String()}
	tp := s.batch.telemetry

	ctx, span := tp.StartSpan(ctx, "scrape.run", attribute.String("query", report.Query))
	defer span.End()

	urls, err := s.source.Discover(ctx, q, limit)
	if err != nil {
		span.RecordError(err)
		return report, fmt.Errorf("discover: %w", err)
	}
	report.URLs = urls
	s.logger.Info("Discovered company pages",
		logger.String("query", report.Query),
		logger.Int("count", len(urls)),
	)

	slots := make([]*domain.Company, len(urls))
	var (
		mu       sync.Mutex
		failures = make(map[int]Failure)
	)
	fail := func(i int, stage string, err error) {
		tp.RecordFailure(stage)
		s.logger.Warn("Skipping company page",
			logger.String("url", urls[i]),
			logger.String("stage", stage),
			logger.Error(err),
		)
		mu.Lock()
		failures[i] = Failure{URL: urls[i], Stage: stage, Err: err}
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batch.Concurrency())
	for i, u := range urls {
		g.Go(func() error {
			page, fetchErr := s.fetcher.Fetch(gctx, u)
			if fetchErr != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				fail(i, StageFetch, fetchErr)
				return nil
			}
			company, extractErr := s.extractor.Extract(page.FinalURL, page.Body)
			if extractErr != nil {
				fail(i, StageExtract, extractErr)
				return nil
			}
			if company.LinkedInURL == "" {
				company.LinkedInURL = u
			}
			slots[i] = company
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		span.RecordError(err)
		return report, fmt.Errorf("fetch pages: %w", err)
	}

	for i, c := range slots {
		if c != nil {
			report.Companies = append(report.Companies, *c)
			continue
		}
		if f, ok := failures[i]; ok {
			report.Failures = append(report.Failures, f)
		}
	}

	report.Stats, err = s.batch.Process(ctx, report.Companies)
	if err != nil {
		return report, err
	}

	s.logger.Info("Scrape complete",
		logger.Int("discovered", len(urls)),
		logger.Int("records", len(report.Companies)),
		logger.Int("failed", len(report.Failures)),
		logger.Duration("enrich_duration", report.Stats.Duration.Round(time.Millisecond)),
	)
	return report, nil
}
