// Package processor runs the enrichment pipeline over many company records
// with a bounded worker pool.
package processor

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/jonesrussell/north-cloud/lead-classifier/internal/domain"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/enrichment"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/logger"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/telemetry"
)

// DefaultConcurrency is used when a non-positive concurrency is configured.
const DefaultConcurrency = 4

// FoundedResolver fills a missing founding year, e.g. from domain registration data.
type FoundedResolver interface {
	FillFounded(ctx context.Context, c *domain.Company) bool
}

// Stats summarises one batch run.
type Stats struct {
	RunID         string
	Total         int
	Enriched      int
	FoundedFilled int
	Duration      time.Duration
}

// ItemsPerSecond reports throughput, or 0 for an instantaneous run.
func (s Stats) ItemsPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Enriched) / s.Duration.Seconds()
}

// Option configures a BatchProcessor.
type Option func(*BatchProcessor)

// WithFoundedResolver looks up missing founding years before enrichment.
func WithFoundedResolver(r FoundedResolver) Option {
	return func(b *BatchProcessor) {
		b.founded = r
	}
}

// WithTelemetry records batch metrics and spans on p.
func WithTelemetry(p *telemetry.Provider) Option {
	return func(b *BatchProcessor) {
		b.telemetry = p
	}
}

// BatchProcessor enriches company records in parallel.
type BatchProcessor struct {
	enricher    *enrichment.Enricher
	founded     FoundedResolver
	concurrency int
	logger      logger.Logger
	telemetry   *telemetry.Provider
}

// NewBatchProcessor creates a batch processor. log may be nil.
func NewBatchProcessor(e *enrichment.Enricher, concurrency int, log logger.Logger, opts ...Option) *BatchProcessor {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if log == nil {
		log = logger.NewNop()
	}

	b := &BatchProcessor{
		enricher:    e,
		concurrency: concurrency,
		logger:      log,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Concurrency returns the worker pool size.
func (b *BatchProcessor) Concurrency() int {
	return b.concurrency
}

// Process enriches companies in place. Element i of the slice is only ever
// touched by one worker, so input order is the output order. When ctx is
// cancelled the remaining records are left as they were and the context
// error is returned alongside the partial stats.
func (b *BatchProcessor) Process(ctx context.Context, companies []domain.Company) (Stats, error) {
	stats := Stats{RunID: uuid.New().String(), Total: len(companies)}
	if len(companies) == 0 {
		return stats, nil
	}

	log := b.logger.With(logger.String("run_id", stats.RunID))
	ctx, span := b.telemetry.StartSpan(ctx, "batch.process",
		attribute.String("run_id", stats.RunID),
		attribute.Int("batch_size", len(companies)),
	)
	defer span.End()

	log.Info("Starting batch processing",
		logger.Int("batch_size", len(companies)),
		logger.Int("concurrency", b.concurrency),
	)

	start := time.Now()
	var enriched, founded, active atomic.Int64

	g, gctx := errgroup.WithContext(logger.WithContext(ctx, log))
	g.SetLimit(b.concurrency)
	for i := range companies {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b.telemetry.SetActiveWorkers(int(active.Add(1)))
			defer func() { b.telemetry.SetActiveWorkers(int(active.Add(-1))) }()

			if b.processItem(gctx, &companies[i]) {
				founded.Add(1)
			}
			enriched.Add(1)
			return nil
		})
	}
	err := g.Wait()
	b.telemetry.SetActiveWorkers(0)
	if err == nil {
		err = ctx.Err()
	}

	stats.Enriched = int(enriched.Load())
	stats.FoundedFilled = int(founded.Load())
	stats.Duration = time.Since(start)
	b.telemetry.RecordBatch(len(companies), stats.Duration)

	if err != nil {
		span.RecordError(err)
		log.Warn("Batch processing interrupted",
			logger.Int("total", stats.Total),
			logger.Int("enriched", stats.Enriched),
			logger.Error(err),
		)
		return stats, fmt.Errorf("process batch: %w", err)
	}

	log.Info("Batch processing complete",
		logger.Int("total", stats.Total),
		logger.Int("enriched", stats.Enriched),
		logger.Int("founded_filled", stats.FoundedFilled),
		logger.Duration("duration", stats.Duration),
		logger.Float64("items_per_second", stats.ItemsPerSecond()),
	)
	return stats, nil
}

// processItem enriches one record and reports whether a founding year was
// looked up for it.
func (b *BatchProcessor) processItem(ctx context.Context, c *domain.Company) bool {
	filled := false
	if b.founded != nil {
		filled = b.founded.FillFounded(ctx, c)
	}

	b.enricher.Enrich(c)
	b.telemetry.RecordEnriched()

	logger.FromContext(ctx).Debug("Record enriched",
		logger.String("name", c.Name),
		logger.String("domain_class", c.DomainClass),
		logger.Int("confidence", c.ClassificationConfidence),
	)
	return filled
}
