package config

import (
	"time"
)

// Default configuration values.
const (
	defaultServiceName       = "lead-classifier"
	defaultServiceVersion    = "1.0.0"
	defaultLogLevel          = "info"
	defaultLogFormat         = "json"
	defaultMinScore          = 8
	defaultGeneralMinScore   = 5
	defaultMaxKeywords       = 10
	defaultMaxTechnologies   = 8
	defaultMaxIndustryTags   = 3
	defaultConcurrency       = 4
	defaultFetchTimeoutSec   = 10
	defaultRequestsPerSecond = 1.0
	defaultBurst             = 1
	defaultMaxBodyBytes      = 5 << 20
	defaultMaxAttempts       = 3
	defaultInitialBackoff    = 500 * time.Millisecond
	defaultMaxBackoff        = 10 * time.Second
	defaultUserAgent         = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	defaultBreakerFailures   = 5
	defaultBreakerTimeout    = 30 * time.Second
	defaultWhoisTimeout      = 15 * time.Second
	defaultMaxResults        = 10
	defaultCompanyBaseURL    = "https://www.linkedin.com/company/"
	defaultKeywords          = "IT services"
	defaultCountry           = "United Kingdom"
	defaultSize              = "51-200"
	defaultFoundedYear       = "2015"
)

// DefaultConfigPath is used when neither --config nor CONFIG_PATH is set.
const DefaultConfigPath = "config.yml"

var defaultLanguages = []string{"en", "fr", "de", "es", "it", "nl", "pt"}

// Config holds all configuration for the lead classifier.
type Config struct {
	Service        ServiceConfig        `yaml:"service"`
	Logging        LoggingConfig        `yaml:"logging"`
	Classification ClassificationConfig `yaml:"classification"`
	Enrichment     EnrichmentConfig     `yaml:"enrichment"`
	Processor      ProcessorConfig      `yaml:"processor"`
	Fetcher        FetcherConfig        `yaml:"fetcher"`
	Discovery      DiscoveryConfig      `yaml:"discovery"`
	Whois          WhoisConfig          `yaml:"whois"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Debug   bool   `env:"APP_DEBUG" yaml:"debug"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// ClassificationConfig holds industry classifier settings.
type ClassificationConfig struct {
	// TaxonomyPath replaces the embedded taxonomy when set.
	TaxonomyPath    string `env:"LEAD_TAXONOMY_PATH" yaml:"taxonomy_path"`
	MinScore        int    `yaml:"min_score"`
	GeneralMinScore int    `yaml:"general_min_score"`
}

// EnrichmentConfig holds settings for the text enrichment steps.
type EnrichmentConfig struct {
	MaxKeywords     int      `yaml:"max_keywords"`
	MaxTechnologies int      `yaml:"max_technologies"`
	MaxIndustryTags int      `yaml:"max_industry_tags"`
	Languages       []string `env:"LEAD_LANGUAGES" yaml:"languages"`
}

// ProcessorConfig holds batch processing settings.
type ProcessorConfig struct {
	Concurrency int `env:"LEAD_CONCURRENCY" yaml:"concurrency"`
	// MetricsTextfile, when set, receives the Prometheus registry after each batch.
	MetricsTextfile string `env:"LEAD_METRICS_TEXTFILE" yaml:"metrics_textfile"`
}

// FetcherConfig holds HTTP fetch settings.
type FetcherConfig struct {
	UserAgent         string        `env:"LEAD_USER_AGENT"          yaml:"user_agent"`
	Timeout           time.Duration `env:"LEAD_FETCH_TIMEOUT"       yaml:"timeout"`
	RequestsPerSecond float64       `env:"LEAD_REQUESTS_PER_SECOND" yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes"`
	MaxAttempts       int           `yaml:"max_attempts"`
	InitialBackoff    time.Duration `yaml:"initial_backoff"`
	MaxBackoff        time.Duration `yaml:"max_backoff"`
	// BreakerFailures consecutive failures against one host open its circuit
	// for BreakerTimeout.
	BreakerFailures int           `yaml:"breaker_failures"`
	BreakerTimeout  time.Duration `yaml:"breaker_timeout"`
}

// DiscoveryConfig holds the defaults used to build search queries and
// candidate company URLs.
type DiscoveryConfig struct {
	CompanyBaseURL string   `yaml:"company_base_url"`
	MaxResults     int      `yaml:"max_results"`
	Keywords       string   `yaml:"keywords"`
	Country        string   `yaml:"country"`
	Size           string   `yaml:"size"`
	FoundedYears   []string `yaml:"founded_years"`
}

// WhoisConfig controls founding date lookups for records without one.
type WhoisConfig struct {
	Enabled bool          `env:"LEAD_WHOIS_ENABLED" yaml:"enabled"`
	Timeout time.Duration `yaml:"timeout"`
}

// Load loads configuration from the specified path. A missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	return LoadWithDefaults[Config](path, true, SetDefaults)
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	SetDefaults(cfg)
	return cfg
}

// SetDefaults applies default values to the config.
func SetDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setLoggingDefaults(&cfg.Logging)
	setClassificationDefaults(&cfg.Classification)
	setEnrichmentDefaults(&cfg.Enrichment)
	setProcessorDefaults(&cfg.Processor)
	setFetcherDefaults(&cfg.Fetcher)
	setDiscoveryDefaults(&cfg.Discovery)
	if cfg.Whois.Timeout == 0 {
		cfg.Whois.Timeout = defaultWhoisTimeout
	}
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
	if l.Format == "" {
		l.Format = defaultLogFormat
	}
}

func setClassificationDefaults(c *ClassificationConfig) {
	if c.MinScore == 0 {
		c.MinScore = defaultMinScore
	}
	if c.GeneralMinScore == 0 {
		c.GeneralMinScore = defaultGeneralMinScore
	}
}

func setEnrichmentDefaults(e *EnrichmentConfig) {
	if e.MaxKeywords == 0 {
		e.MaxKeywords = defaultMaxKeywords
	}
	if e.MaxTechnologies == 0 {
		e.MaxTechnologies = defaultMaxTechnologies
	}
	if e.MaxIndustryTags == 0 {
		e.MaxIndustryTags = defaultMaxIndustryTags
	}
	if len(e.Languages) == 0 {
		e.Languages = append([]string(nil), defaultLanguages...)
	}
}

func setProcessorDefaults(p *ProcessorConfig) {
	if p.Concurrency == 0 {
		p.Concurrency = defaultConcurrency
	}
}

func setFetcherDefaults(f *FetcherConfig) {
	if f.UserAgent == "" {
		f.UserAgent = defaultUserAgent
	}
	if f.Timeout == 0 {
		f.Timeout = defaultFetchTimeoutSec * time.Second
	}
	if f.RequestsPerSecond == 0 {
		f.RequestsPerSecond = defaultRequestsPerSecond
	}
	if f.Burst == 0 {
		f.Burst = defaultBurst
	}
	if f.MaxBodyBytes == 0 {
		f.MaxBodyBytes = defaultMaxBodyBytes
	}
	if f.MaxAttempts == 0 {
		f.MaxAttempts = defaultMaxAttempts
	}
	if f.InitialBackoff == 0 {
		f.InitialBackoff = defaultInitialBackoff
	}
	if f.MaxBackoff == 0 {
		f.MaxBackoff = defaultMaxBackoff
	}
	if f.BreakerFailures == 0 {
		f.BreakerFailures = defaultBreakerFailures
	}
	if f.BreakerTimeout == 0 {
		f.BreakerTimeout = defaultBreakerTimeout
	}
}

func setDiscoveryDefaults(d *DiscoveryConfig) {
	if d.CompanyBaseURL == "" {
		d.CompanyBaseURL = defaultCompanyBaseURL
	}
	if d.MaxResults == 0 {
		d.MaxResults = defaultMaxResults
	}
	if d.Keywords == "" {
		d.Keywords = defaultKeywords
	}
	if d.Country == "" {
		d.Country = defaultCountry
	}
	if d.Size == "" {
		d.Size = defaultSize
	}
	if len(d.FoundedYears) == 0 {
		d.FoundedYears = []string{defaultFoundedYear}
	}
}
