package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-toolbox/internal/config"
)

// Environment variable names.
const (
	envConfig         = "TOOLBOX_CONFIG"
	envTimeout        = "TOOLBOX_TIMEOUT"
	envOutputDir      = "TOOLBOX_OUTPUT_DIR"
	envWorkers        = "TOOLBOX_WORKERS"
	envPageSize       = "TOOLBOX_PAGE_SIZE"
	envOrientation    = "TOOLBOX_ORIENTATION"
	envLocale         = "TOOLBOX_LOCALE"
	envHolidayURL     = "TOOLBOX_HOLIDAY_URL"
	envRatesURL       = "TOOLBOX_RATES_URL"
	envAddr           = "TOOLBOX_ADDR"
	envGCSCredentials = "TOOLBOX_GCS_CREDENTIALS"
	envGCSEndpoint    = "TOOLBOX_GCS_ENDPOINT"
	envContainer      = "TOOLBOX_CONTAINER"
)

// envSettings holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envSettings struct {
	// Tier 1 - Essential
	ConfigPath string        // TOOLBOX_CONFIG: config file name or path
	Timeout    time.Duration // TOOLBOX_TIMEOUT: per-document synthesis timeout

	// Tier 2 - I/O and services
	OutputDir  string // TOOLBOX_OUTPUT_DIR: directory or gs://bucket/prefix
	Workers    int    // TOOLBOX_WORKERS: parallel conversions
	HolidayURL string // TOOLBOX_HOLIDAY_URL: holiday service base URL
	RatesURL   string // TOOLBOX_RATES_URL: rates service base URL
	Addr       string // TOOLBOX_ADDR: serve listen address

	// Tier 3 - Extended
	PageSize       string // TOOLBOX_PAGE_SIZE: a4, letter, legal
	Orientation    string // TOOLBOX_ORIENTATION: portrait, landscape
	Locale         string // TOOLBOX_LOCALE: en, id
	GCSCredentials string // TOOLBOX_GCS_CREDENTIALS: service account file
	GCSEndpoint    string // TOOLBOX_GCS_ENDPOINT: emulator endpoint
}

// knownEnvVars lists valid TOOLBOX_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	envConfig:         true,
	envTimeout:        true,
	envOutputDir:      true,
	envWorkers:        true,
	envHolidayURL:     true,
	envRatesURL:       true,
	envAddr:           true,
	envPageSize:       true,
	envOrientation:    true,
	envLocale:         true,
	envGCSCredentials: true,
	envGCSEndpoint:    true,
	envContainer:      true,
}

// loadEnvSettings reads configuration from environment variables.
// Malformed numbers and durations are ignored.
func loadEnvSettings() *envSettings {
	s := &envSettings{
		ConfigPath:     os.Getenv(envConfig),
		OutputDir:      os.Getenv(envOutputDir),
		HolidayURL:     os.Getenv(envHolidayURL),
		RatesURL:       os.Getenv(envRatesURL),
		Addr:           os.Getenv(envAddr),
		PageSize:       os.Getenv(envPageSize),
		Orientation:    os.Getenv(envOrientation),
		Locale:         os.Getenv(envLocale),
		GCSCredentials: os.Getenv(envGCSCredentials),
		GCSEndpoint:    os.Getenv(envGCSEndpoint),
	}

	if timeout := os.Getenv(envTimeout); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			s.Timeout = d
		}
	}
	if workers := os.Getenv(envWorkers); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			s.Workers = w
		}
	}
	return s
}

// warnUnknownEnvVars logs warnings for unrecognized TOOLBOX_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "TOOLBOX_") {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvSettings overrides config file values with set variables.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied afterwards by each command).
func applyEnvSettings(s *envSettings, cfg *config.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	set(&cfg.Output.Dir, s.OutputDir)
	set(&cfg.Holiday.BaseURL, s.HolidayURL)
	set(&cfg.Rates.BaseURL, s.RatesURL)
	set(&cfg.Server.Addr, s.Addr)
	set(&cfg.Page.Size, s.PageSize)
	set(&cfg.Page.Orientation, s.Orientation)
	set(&cfg.Calendar.Locale, s.Locale)
	set(&cfg.GCS.CredentialsFile, s.GCSCredentials)
	set(&cfg.GCS.Endpoint, s.GCSEndpoint)

	if s.Workers > 0 {
		cfg.Convert.Workers = s.Workers
	}
}
