// Package bootstrap assembles the lead classifier's components from configuration.
package bootstrap

import (
	"fmt"

	"github.com/jonesrussell/north-cloud/lead-classifier/internal/config"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/discovery"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/domainage"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/enrichment"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/fetcher"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/industry"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/logger"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/pageextract"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/processor"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/telemetry"
)

// LoadConfig loads and validates configuration. An empty path falls back
// to CONFIG_PATH, then config.yml; a missing file yields the defaults.
func LoadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = config.GetConfigPath(config.DefaultConfigPath)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// CreateLogger creates a logger instance from configuration.
func CreateLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(logger.String("service", cfg.Service.Name)), nil
}

// LoadTaxonomy returns the configured taxonomy file, or the embedded
// default when none is set.
func LoadTaxonomy(cfg *config.Config) (*industry.Taxonomy, error) {
	if cfg.Classification.TaxonomyPath != "" {
		return industry.LoadTaxonomyFile(cfg.Classification.TaxonomyPath)
	}
	return industry.DefaultTaxonomy()
}

// Components holds everything the commands share.
type Components struct {
	Config     *config.Config
	Logger     logger.Logger
	Telemetry  *telemetry.Provider
	Taxonomy   *industry.Taxonomy
	Classifier *industry.Classifier
	Enricher   *enrichment.Enricher
	Batch      *processor.BatchProcessor
}

// NewComponents builds the classifier, enricher and batch processor.
func NewComponents(cfg *config.Config, log logger.Logger) (*Components, error) {
	tp := telemetry.NewProvider()

	taxonomy, err := LoadTaxonomy(cfg)
	if err != nil {
		return nil, fmt.Errorf("load taxonomy: %w", err)
	}

	classifier := industry.New(taxonomy,
		industry.WithMinScore(cfg.Classification.MinScore),
		industry.WithGeneralMinScore(cfg.Classification.GeneralMinScore),
		industry.WithTelemetry(tp),
	)
	log.Info("Classifier initialized",
		logger.Int("categories", len(taxonomy.Categories())),
		logger.Int("min_score", cfg.Classification.MinScore),
	)

	opts := []enrichment.Option{
		enrichment.WithLimits(enrichment.Limits{
			Keywords:     cfg.Enrichment.MaxKeywords,
			Technologies: cfg.Enrichment.MaxTechnologies,
			IndustryTags: cfg.Enrichment.MaxIndustryTags,
		}),
	}
	if len(cfg.Enrichment.Languages) > 1 {
		detector, detErr := enrichment.NewLanguageDetector(cfg.Enrichment.Languages)
		if detErr != nil {
			return nil, fmt.Errorf("language detector: %w", detErr)
		}
		opts = append(opts, enrichment.WithLanguageDetector(detector))
	}
	enricher := enrichment.NewEnricher(classifier, opts...)

	batchOpts := []processor.Option{processor.WithTelemetry(tp)}
	if cfg.Whois.Enabled {
		resolver := domainage.NewResolver(domainage.NewWhoisClient(cfg.Whois.Timeout), log)
		batchOpts = append(batchOpts, processor.WithFoundedResolver(resolver))
		log.Info("Whois founding year lookup enabled", logger.Duration("timeout", cfg.Whois.Timeout))
	}
	batch := processor.NewBatchProcessor(enricher, cfg.Processor.Concurrency, log, batchOpts...)

	return &Components{
		Config:     cfg,
		Logger:     log,
		Telemetry:  tp,
		Taxonomy:   taxonomy,
		Classifier: classifier,
		Enricher:   enricher,
		Batch:      batch,
	}, nil
}

// NewDiscoverer builds URL discovery. searcher may be nil.
func (c *Components) NewDiscoverer(searcher discovery.Searcher) *discovery.Discoverer {
	return discovery.New(c.Config.Discovery.CompanyBaseURL, searcher, c.Logger)
}

// NewFetcher builds the rate-limited page fetcher.
func (c *Components) NewFetcher() *fetcher.Fetcher {
	f := c.Config.Fetcher
	return fetcher.New(fetcher.Config{
		UserAgent:         f.UserAgent,
		Timeout:           f.Timeout,
		RequestsPerSecond: f.RequestsPerSecond,
		Burst:             f.Burst,
		MaxBodyBytes:      f.MaxBodyBytes,
		MaxAttempts:       f.MaxAttempts,
		InitialBackoff:    f.InitialBackoff,
		MaxBackoff:        f.MaxBackoff,
		BreakerFailures:   f.BreakerFailures,
		BreakerTimeout:    f.BreakerTimeout,
	}, c.Logger, c.Telemetry)
}

// NewScraper wires discovery, fetching and extraction onto the batch processor.
func (c *Components) NewScraper(searcher discovery.Searcher) *processor.Scraper {
	return processor.NewScraper(
		c.NewDiscoverer(searcher),
		c.NewFetcher(),
		pageextract.New(nil),
		c.Batch,
		c.Logger,
	)
}

// FlushMetrics writes the metrics textfile when one is configured.
func (c *Components) FlushMetrics() {
	path := c.Config.Processor.MetricsTextfile
	if path == "" {
		return
	}
	if err := c.Telemetry.WriteTextfile(path); err != nil {
		c.Logger.Warn("Failed to write metrics textfile", logger.String("path", path), logger.Error(err))
	}
}
