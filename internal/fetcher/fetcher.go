// Package fetcher downloads company pages politely: requests are paced
// by a token bucket, transient failures are retried with backoff, and a
// circuit breaker per host stops hammering hosts that keep failing.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/jonesrussell/north-cloud/lead-classifier/internal/logger"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/retry"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/telemetry"
)

// breakerHalfOpenRequests is the number of probes allowed through a
// half-open circuit.
const breakerHalfOpenRequests = 1

// Page is a fetched document with its body decoded to UTF-8.
type Page struct {
	URL         string
	FinalURL    string
	StatusCode  int
	ContentType string
	Charset     string
	Body        []byte
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the default client. Its Timeout is left as is.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// Fetcher is safe for concurrent use.
type Fetcher struct {
	cfg       Config
	client    *http.Client
	limiter   *rate.Limiter
	log       logger.Logger
	telemetry *telemetry.Provider

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// New creates a Fetcher. log and tp may be nil.
func New(cfg Config, log logger.Logger, tp *telemetry.Provider, opts ...Option) *Fetcher {
	cfg = cfg.withDefaults()
	if log == nil {
		log = logger.NewNop()
	}

	f := &Fetcher{
		cfg:       cfg,
		client:    &http.Client{Timeout: cfg.Timeout},
		limiter:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		log:       log,
		telemetry: tp,
		breakers:  make(map[string]*gobreaker.CircuitBreaker),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads rawURL. Non-200 responses yield a *StatusError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("fetch %q: invalid url", rawURL)
	}

	breaker := f.breaker(u.Host)
	policy := retry.DefaultConfig()
	policy.MaxAttempts = f.cfg.MaxAttempts
	policy.InitialDelay = f.cfg.InitialBackoff
	policy.MaxDelay = f.cfg.MaxBackoff
	policy.IsRetryable = isRetryable
	policy.OnRetry = func(attempt int, delay time.Duration, err error) {
		f.log.Warn("Fetch failed, retrying",
			logger.String("url", rawURL),
			logger.Int("attempt", attempt),
			logger.Duration("backoff", delay),
			logger.Error(err),
		)
	}

	var page *Page
	err = retry.Do(ctx, policy, func(ctx context.Context) error {
		if waitErr := f.limiter.Wait(ctx); waitErr != nil {
			return waitErr
		}
		result, execErr := breaker.Execute(func() (any, error) {
			return f.get(ctx, rawURL)
		})
		if execErr != nil {
			return execErr
		}
		page = result.(*Page)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	return page, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) (*Page, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	f.setHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		f.telemetry.RecordFetch(0, time.Since(start))
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	f.telemetry.RecordFetch(resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.cfg.MaxBodyBytes {
		return nil, fmt.Errorf("%w: limit %s", ErrBodyTooLarge, humanize.IBytes(uint64(f.cfg.MaxBodyBytes)))
	}

	contentType := resp.Header.Get("Content-Type")
	decoded, charset := DecodeBody(body, contentType)

	f.log.Debug("Fetched page",
		logger.String("url", rawURL),
		logger.Int("status", resp.StatusCode),
		logger.String("size", humanize.Bytes(uint64(len(body)))),
		logger.String("charset", charset),
		logger.Duration("duration", time.Since(start)),
	)

	return &Page{
		URL:         rawURL,
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Charset:     charset,
		Body:        decoded,
	}, nil
}

// setHeaders mimics a desktop browser; profile pages often reject bare clients.
func (f *Fetcher) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
}

func (f *Fetcher) breaker(host string) *gobreaker.CircuitBreaker {
	host = strings.ToLower(host)

	f.mu.Lock()
	defer f.mu.Unlock()

	if cb, ok := f.breakers[host]; ok {
		return cb
	}

	failures := uint32(f.cfg.BreakerFailures)
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        host,
		MaxRequests: breakerHalfOpenRequests,
		Timeout:     f.cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !isRetryable(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			f.log.Warn("Circuit breaker state changed",
				logger.String("host", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		},
	})
	f.breakers[host] = cb
	return cb
}

// BreakerState returns the circuit state for host ("closed" when unseen).
func (f *Fetcher) BreakerState(host string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	if cb, ok := f.breakers[strings.ToLower(host)]; ok {
		return cb.State().String()
	}
	return gobreaker.StateClosed.String()
}

// isRetryable retries 429/5xx statuses and transient network errors. An
// open circuit fails fast.
func isRetryable(err error) bool {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	if errors.Is(err, ErrBodyTooLarge) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Temporary()
	}
	return retry.DefaultIsRetryable(err)
}
