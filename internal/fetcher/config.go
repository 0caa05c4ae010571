package fetcher

import "time"

// Config holds fetcher settings.
type Config struct {
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	MaxBodyBytes      int64
	MaxAttempts       int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BreakerFailures   int
	BreakerTimeout    time.Duration
}

// Default values applied to zero fields.
const (
	defaultUserAgent       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	defaultTimeout         = 10 * time.Second
	defaultRequestsPerSec  = 1.0
	defaultBurst           = 1
	defaultMaxBodyBytes    = 5 << 20
	defaultMaxAttempts     = 3
	defaultInitialBackoff  = 500 * time.Millisecond
	defaultMaxBackoff      = 10 * time.Second
	defaultBreakerFailures = 5
	defaultBreakerTimeout  = 30 * time.Second
)

func (c Config) withDefaults() Config {
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = defaultRequestsPerSec
	}
	if c.Burst <= 0 {
		c.Burst = defaultBurst
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = defaultMaxBodyBytes
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = defaultInitialBackoff
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = defaultMaxBackoff
	}
	if c.BreakerFailures <= 0 {
		c.BreakerFailures = defaultBreakerFailures
	}
	if c.BreakerTimeout <= 0 {
		c.BreakerTimeout = defaultBreakerTimeout
	}
	return c
}
