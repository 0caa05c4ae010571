package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonesrussell/north-cloud/lead-classifier/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	assert.Equal(t, "lead-classifier", cfg.Service.Name)
	assert.Equal(t, 8, cfg.Classification.MinScore)
	assert.Equal(t, 5, cfg.Classification.GeneralMinScore)
	assert.Equal(t, 10, cfg.Enrichment.MaxKeywords)
	assert.Equal(t, 10*time.Second, cfg.Fetcher.Timeout)
	assert.Equal(t, []string{"2015"}, cfg.Discovery.FoundedYears)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FileValuesAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
classification:
  min_score: 12
processor:
  concurrency: 2
fetcher:
  timeout: 3s
enrichment:
  languages: [en, de]
`)
	t.Setenv("LEAD_CONCURRENCY", "9")
	t.Setenv("LEAD_LANGUAGES", "en, fr")
	t.Setenv("LEAD_FETCH_TIMEOUT", "750ms")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 12, cfg.Classification.MinScore)
	assert.Equal(t, 9, cfg.Processor.Concurrency)
	assert.Equal(t, []string{"en", "fr"}, cfg.Enrichment.Languages)
	assert.Equal(t, 750*time.Millisecond, cfg.Fetcher.Timeout)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "classification: [unterminated")

	_, err := config.Load(path)
	require.Error(t, err)
}

func TestLoadWithDefaults_RequiredFileMissing(t *testing.T) {
	_, err := config.LoadWithDefaults[config.Config](filepath.Join(t.TempDir(), "absent.yml"), false, config.SetDefaults)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		field  string
	}{
		{name: "bad log level", mutate: func(c *config.Config) { c.Logging.Level = "loud" }, field: "logging.level"},
		{name: "bad log format", mutate: func(c *config.Config) { c.Logging.Format = "xml" }, field: "logging.format"},
		{name: "negative concurrency", mutate: func(c *config.Config) { c.Processor.Concurrency = -1 }, field: "processor.concurrency"},
		{name: "zero rate", mutate: func(c *config.Config) { c.Fetcher.RequestsPerSecond = -1 }, field: "fetcher.requests_per_second"},
		{name: "empty base url", mutate: func(c *config.Config) { c.Discovery.CompanyBaseURL = "" }, field: "discovery.company_base_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			var verr *config.ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, "config.yml", config.GetConfigPath(config.DefaultConfigPath))

	t.Setenv("CONFIG_PATH", "/etc/lead-classifier.yml")
	assert.Equal(t, "/etc/lead-classifier.yml", config.GetConfigPath(config.DefaultConfigPath))
}
