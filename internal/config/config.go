// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Simonwafula/Nextstepjobs/internal/scrape"
)

// Config holds everything an ingestion run needs. Values come from a JSON
// file, then environment variables, then CLI flags, later sources winning.
type Config struct {
	DatabaseURL string `json:"database_url,omitempty" validate:"required"`
	APIKey      string `json:"api_key,omitempty"` // Gemini API key; AI enrichment is skipped when empty

	SearchTerms []string `json:"search_terms,omitempty"`
	Location    string   `json:"location,omitempty"`

	BatchSize  int `json:"batch_size,omitempty" validate:"omitempty,min=1"`
	Workers    int `json:"workers,omitempty" validate:"omitempty,min=1,max=50"`
	MaxRetries int `json:"max_retries,omitempty" validate:"omitempty,min=1"`

	RequestsPerMinute int `json:"requests_per_minute,omitempty" validate:"omitempty,min=1"`

	UseBrowser bool `json:"use_browser,omitempty"`
	Verbose    bool `json:"verbose,omitempty"`

	// Sites configures additional boards for the config-driven adapter,
	// keyed by site name.
	Sites map[string]scrape.SiteDescriptor `json:"sites,omitempty" validate:"omitempty,dive"`
}

// DefaultSearchTerms is used when no terms are configured.
var DefaultSearchTerms = []string{
	"software engineer", "data analyst", "accountant",
	"project manager", "sales executive",
}

// Default fills unset values.
func (c *Config) Default() {
	if len(c.SearchTerms) == 0 {
		c.SearchTerms = DefaultSearchTerms
	}
	if c.Location == "" {
		c.Location = "Kenya"
	}
}

// Load reads configuration from an optional JSON file and applies
// environment overrides. An empty path skips the file entirely.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.Default()
	return cfg, nil
}

// applyEnv overrides file values with environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("NEXTSTEP_SEARCH_TERMS"); v != "" {
		terms := strings.Split(v, ",")
		c.SearchTerms = c.SearchTerms[:0]
		for _, term := range terms {
			if term = strings.TrimSpace(term); term != "" {
				c.SearchTerms = append(c.SearchTerms, term)
			}
		}
	}
	if v := os.Getenv("NEXTSTEP_LOCATION"); v != "" {
		c.Location = v
	}
	if v, err := strconv.Atoi(os.Getenv("NEXTSTEP_WORKERS")); err == nil && v > 0 {
		c.Workers = v
	}
	if v, err := strconv.Atoi(os.Getenv("NEXTSTEP_BATCH_SIZE")); err == nil && v > 0 {
		c.BatchSize = v
	}
}

// Validate checks field constraints and every configured site descriptor.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
