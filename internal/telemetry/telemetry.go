// Package telemetry provides OpenTelemetry instrumentation for the lead classifier.
// Metrics live on a private Prometheus registry so batch jobs can export them
// without a long-running /metrics endpoint.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "lead-classifier"

// Metrics holds all lead classifier Prometheus metrics
type Metrics struct {
	// Classification metrics
	Classifications        *prometheus.CounterVec
	ClassificationDuration prometheus.Histogram

	// Batch metrics
	BatchSize       prometheus.Histogram
	RecordsFailed   *prometheus.CounterVec
	ActiveWorkers   prometheus.Gauge
	BatchDuration   prometheus.Histogram
	RecordsEnriched prometheus.Counter

	// Fetch metrics
	Fetches       *prometheus.CounterVec
	FetchDuration prometheus.Histogram
}

// Provider wraps telemetry providers
type Provider struct {
	Tracer   trace.Tracer
	Metrics  *Metrics
	Registry *prometheus.Registry
}

// NewProvider initializes telemetry with a fresh Prometheus registry
func NewProvider() *Provider {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	return &Provider{
		Tracer:   otel.Tracer(serviceName),
		Metrics:  initMetrics(promauto.With(reg)),
		Registry: reg,
	}
}

func initMetrics(factory promauto.Factory) *Metrics {
	m := &Metrics{}
	initClassificationMetrics(factory, m)
	initBatchMetrics(factory, m)
	initFetchMetrics(factory, m)
	return m
}

func initClassificationMetrics(factory promauto.Factory, m *Metrics) {
	m.Classifications = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "lead_classifier_classifications_total",
		Help: "Total classifications by resulting label and decision stage",
	}, []string{"label", "stage"})

	m.ClassificationDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "lead_classifier_classification_duration_seconds",
		Help:    "Time to classify a single company",
		Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
	})
}

func initBatchMetrics(factory promauto.Factory, m *Metrics) {
	m.BatchSize = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "lead_classifier_batch_size",
		Help:    "Number of records per batch",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 200, 500, 1000},
	})

	m.BatchDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "lead_classifier_batch_duration_seconds",
		Help:    "Wall time to process one batch",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})

	m.RecordsEnriched = factory.NewCounter(prometheus.CounterOpts{
		Name: "lead_classifier_records_enriched_total",
		Help: "Total records enriched and classified",
	})

	m.RecordsFailed = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "lead_classifier_records_failed_total",
		Help: "Total records that could not be processed",
	}, []string{"stage"})

	m.ActiveWorkers = factory.NewGauge(prometheus.GaugeOpts{
		Name: "lead_classifier_active_workers",
		Help: "Currently active worker goroutines",
	})
}

func initFetchMetrics(factory promauto.Factory, m *Metrics) {
	m.Fetches = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "lead_classifier_fetches_total",
		Help: "Total page fetches by HTTP status class",
	}, []string{"status"})

	m.FetchDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "lead_classifier_fetch_duration_seconds",
		Help:    "Time to fetch a single page",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})
}

// RecordClassification records metrics for a single classification
func (p *Provider) RecordClassification(label, stage string, duration time.Duration) {
	if p == nil {
		return
	}
	p.Metrics.Classifications.WithLabelValues(label, stage).Inc()
	p.Metrics.ClassificationDuration.Observe(duration.Seconds())
}

// RecordBatch records the size and duration of a processed batch
func (p *Provider) RecordBatch(size int, duration time.Duration) {
	if p == nil {
		return
	}
	p.Metrics.BatchSize.Observe(float64(size))
	p.Metrics.BatchDuration.Observe(duration.Seconds())
}

// RecordEnriched increments the enriched record counter
func (p *Provider) RecordEnriched() {
	if p == nil {
		return
	}
	p.Metrics.RecordsEnriched.Inc()
}

// RecordFailure records a record that failed in the given pipeline stage
func (p *Provider) RecordFailure(stage string) {
	if p == nil {
		return
	}
	p.Metrics.RecordsFailed.WithLabelValues(stage).Inc()
}

// RecordFetch records a page fetch. A status of 0 means a transport error.
func (p *Provider) RecordFetch(status int, duration time.Duration) {
	if p == nil {
		return
	}
	p.Metrics.Fetches.WithLabelValues(statusClass(status)).Inc()
	p.Metrics.FetchDuration.Observe(duration.Seconds())
}

// SetActiveWorkers sets the current active worker count
func (p *Provider) SetActiveWorkers(count int) {
	if p == nil {
		return
	}
	p.Metrics.ActiveWorkers.Set(float64(count))
}

// WriteTextfile writes the registry in the node_exporter textfile format.
func (p *Provider) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, p.Registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// StartSpan starts a new trace span.
// The caller is responsible for ending the span with span.End().
//
//nolint:spancheck // Caller is responsible for ending the span
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if p == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return p.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func statusClass(status int) string {
	switch {
	case status <= 0:
		return "error"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
