package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-toolbox/internal/dateutil"
	"github.com/alnah/go-toolbox/internal/fileutil"
	"github.com/alnah/go-toolbox/internal/layout"
	"github.com/alnah/go-toolbox/internal/password"
	"github.com/alnah/go-toolbox/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppDir is the directory name under the user config dir.
const AppDir = "go-toolbox"

// Field length limits.
const (
	MaxURLLength         = 2048
	MaxPathLength        = 4096
	MaxPageSizeLength    = 10 // "letter", "a4", "legal"
	MaxOrientationLength = 10 // "portrait", "landscape"
	MaxAddrLength        = 255
)

// Defaults.
const (
	DefaultFontSize    = 16.0
	DefaultAddr        = ":8080"
	DefaultMaxUploadMB = 20
	DefaultHolidayURL  = "https://libur.deno.dev"
	DefaultRatesURL    = "https://free.ratesdb.com"
	DefaultHolidayTTL  = "24h"
	DefaultRatesTTL    = "5m"
	DefaultTimeout     = "10s"
)

// Config holds all settings for the library, CLI and server.
type Config struct {
	Page     PageConfig     `yaml:"page"`
	Convert  ConvertConfig  `yaml:"convert"`
	Output   OutputConfig   `yaml:"output"`
	Calendar CalendarConfig `yaml:"calendar"`
	Holiday  UpstreamConfig `yaml:"holiday"`
	Rates    UpstreamConfig `yaml:"rates"`
	Password PasswordConfig `yaml:"password"`
	Server   ServerConfig   `yaml:"server"`
	GCS      GCSConfig      `yaml:"gcs"`
}

// PageConfig defines synthesized page geometry. Units are millimetres,
// font size is points.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "a4", "letter", "legal" (default: "a4")
	Orientation string  `yaml:"orientation"` // "portrait", "landscape"
	Margin      float64 `yaml:"margin"`
	LineHeight  float64 `yaml:"lineHeight"`
	FontSize    float64 `yaml:"fontSize"`
}

// ConvertConfig defines conversion behaviour.
type ConvertConfig struct {
	Workers  int  `yaml:"workers"`  // 0 = derived from GOMAXPROCS
	Validate bool `yaml:"validate"` // check output with pdfcpu
}

// OutputConfig defines where converted documents go.
type OutputConfig struct {
	Dir       string `yaml:"dir"` // directory or gs://bucket/prefix (empty = beside source)
	NoClobber bool   `yaml:"noClobber"`
}

// CalendarConfig defines calendar rendering.
type CalendarConfig struct {
	Locale string `yaml:"locale"` // "en", "id"
}

// UpstreamConfig is a remote JSON source with a cache window.
type UpstreamConfig struct {
	BaseURL string `yaml:"baseURL"`
	TTL     string `yaml:"ttl"`     // Go duration
	Timeout string `yaml:"timeout"` // Go duration
}

// CacheTTL parses TTL; Validate guarantees it succeeds on loaded configs.
func (u UpstreamConfig) CacheTTL() time.Duration {
	d, _ := time.ParseDuration(u.TTL)
	return d
}

// RequestTimeout parses Timeout.
func (u UpstreamConfig) RequestTimeout() time.Duration {
	d, _ := time.ParseDuration(u.Timeout)
	return d
}

// PasswordConfig holds generator defaults.
type PasswordConfig struct {
	Length  int   `yaml:"length"`
	Upper   *bool `yaml:"upper"`
	Lower   *bool `yaml:"lower"`
	Digits  *bool `yaml:"digits"`
	Symbols *bool `yaml:"symbols"`
}

// Options resolves the config into generator options; unset classes are on.
func (p PasswordConfig) Options() password.Options {
	on := func(b *bool) bool { return b == nil || *b }
	length := p.Length
	if length == 0 {
		length = password.DefaultLength
	}
	return password.Options{
		Length:  length,
		Upper:   on(p.Upper),
		Lower:   on(p.Lower),
		Digits:  on(p.Digits),
		Symbols: on(p.Symbols),
	}
}

// ServerConfig defines the HTTP API.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	MaxUploadMB int    `yaml:"maxUploadMB"`
}

// GCSConfig holds bucket sink credentials.
type GCSConfig struct {
	CredentialsFile string `yaml:"credentialsFile"`
	Endpoint        string `yaml:"endpoint"`
}

// Validate checks field values and lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	// Page
	if err := validateFieldLength("page.size", c.Page.Size, MaxPageSizeLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.orientation", c.Page.Orientation, MaxOrientationLength); err != nil {
		return err
	}
	if _, err := c.Layout(); err != nil {
		return fmt.Errorf("page: %w", err)
	}
	if c.Page.FontSize <= 0 || c.Page.FontSize > 72 {
		return fmt.Errorf("%w: page.fontSize must be between 0 and 72, got %.1f", ErrInvalidValue, c.Page.FontSize)
	}

	if c.Convert.Workers < 0 {
		return fmt.Errorf("%w: convert.workers must be >= 0, got %d", ErrInvalidValue, c.Convert.Workers)
	}
	if err := validateFieldLength("output.dir", c.Output.Dir, MaxPathLength); err != nil {
		return err
	}

	if err := dateutil.ValidateLocale(c.Calendar.Locale); err != nil {
		return fmt.Errorf("calendar.locale: %w", err)
	}

	if err := validateUpstream("holiday", c.Holiday); err != nil {
		return err
	}
	if err := validateUpstream("rates", c.Rates); err != nil {
		return err
	}

	if err := c.Password.Options().Validate(); err != nil {
		return fmt.Errorf("password.length: %w", err)
	}

	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("%w: server.maxUploadMB must be > 0, got %d", ErrInvalidValue, c.Server.MaxUploadMB)
	}

	if err := validateFieldLength("gcs.credentialsFile", c.GCS.CredentialsFile, MaxPathLength); err != nil {
		return err
	}
	return validateFieldLength("gcs.endpoint", c.GCS.Endpoint, MaxURLLength)
}

// Layout derives the page geometry.
func (c *Config) Layout() (layout.Page, error) {
	return layout.NewPage(c.Page.Size, c.Page.Orientation, c.Page.Margin, c.Page.LineHeight)
}

func validateUpstream(section string, u UpstreamConfig) error {
	if err := validateFieldLength(section+".baseURL", u.BaseURL, MaxURLLength); err != nil {
		return err
	}
	parsed, err := url.Parse(u.BaseURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("%w: %s.baseURL must be an http(s) URL, got %q", ErrInvalidValue, section, u.BaseURL)
	}
	for field, v := range map[string]string{"ttl": u.TTL, "timeout": u.Timeout} {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: %s.%s must be a positive duration, got %q", ErrInvalidValue, section, field, v)
		}
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Page: PageConfig{
			Size:        "a4",
			Orientation: "portrait",
			Margin:      layout.DefaultMargin,
			LineHeight:  layout.DefaultLineHeight,
			FontSize:    DefaultFontSize,
		},
		Calendar: CalendarConfig{Locale: dateutil.DefaultLocale},
		Holiday:  UpstreamConfig{BaseURL: DefaultHolidayURL, TTL: DefaultHolidayTTL, Timeout: DefaultTimeout},
		Rates:    UpstreamConfig{BaseURL: DefaultRatesURL, TTL: DefaultRatesTTL, Timeout: DefaultTimeout},
		Password: PasswordConfig{Length: password.DefaultLength},
		Server:   ServerConfig{Addr: DefaultAddr, MaxUploadMB: DefaultMaxUploadMB},
	}
}

// NotFoundError reports the locations searched for a config name.
type NotFoundError struct {
	Tried []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: tried %s", ErrConfigNotFound, strings.Join(e.Tried, ", "))
}

// Is matches ErrConfigNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrConfigNotFound }

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Values absent from the file keep their defaults.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	cfg := DefaultConfig()
	if err := yamlutil.ReadFileStrict(configPath, cfg); err != nil && !errors.Is(err, yamlutil.ErrNilData) {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Tried: []string{configPath}}
		}
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-toolbox/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	tried := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		tried = append(tried, localPath)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, AppDir, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			tried = append(tried, userPath)
		}
	}

	return "", &NotFoundError{Tried: tried}
}
