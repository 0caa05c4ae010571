package config

import "fmt"

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validateLogLevel(level string) error {
	switch level {
	case "debug", "info", "warn", "warning", "error", "fatal":
		return nil
	default:
		return &ValidationError{Field: "logging.level", Message: "must be one of: debug, info, warn, error, fatal"}
	}
}

func validateLogFormat(format string) error {
	switch format {
	case "json", "console":
		return nil
	default:
		return &ValidationError{Field: "logging.format", Message: "must be one of: json, console"}
	}
}

func validatePositive(field string, value int) error {
	if value < 1 {
		return &ValidationError{Field: field, Message: "must be at least 1"}
	}
	return nil
}

// Validate checks the loaded configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if err := validateLogLevel(c.Logging.Level); err != nil {
		return err
	}
	if err := validateLogFormat(c.Logging.Format); err != nil {
		return err
	}

	checks := []struct {
		field string
		value int
	}{
		{"classification.min_score", c.Classification.MinScore},
		{"classification.general_min_score", c.Classification.GeneralMinScore},
		{"enrichment.max_keywords", c.Enrichment.MaxKeywords},
		{"enrichment.max_technologies", c.Enrichment.MaxTechnologies},
		{"enrichment.max_industry_tags", c.Enrichment.MaxIndustryTags},
		{"processor.concurrency", c.Processor.Concurrency},
		{"fetcher.max_attempts", c.Fetcher.MaxAttempts},
		{"fetcher.burst", c.Fetcher.Burst},
		{"fetcher.breaker_failures", c.Fetcher.BreakerFailures},
		{"discovery.max_results", c.Discovery.MaxResults},
	}
	for _, check := range checks {
		if err := validatePositive(check.field, check.value); err != nil {
			return err
		}
	}

	if c.Fetcher.RequestsPerSecond <= 0 {
		return &ValidationError{Field: "fetcher.requests_per_second", Message: "must be greater than 0"}
	}
	if c.Fetcher.Timeout <= 0 {
		return &ValidationError{Field: "fetcher.timeout", Message: "must be greater than 0"}
	}
	if c.Discovery.CompanyBaseURL == "" {
		return &ValidationError{Field: "discovery.company_base_url", Message: "is required"}
	}

	return nil
}
