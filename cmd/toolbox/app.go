package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gookit/color"

	toolbox "github.com/alnah/go-toolbox"
	"github.com/alnah/go-toolbox/internal/config"
	"github.com/alnah/go-toolbox/internal/holiday"
	"github.com/alnah/go-toolbox/internal/rates"
)

// loadConfig resolves defaults, the config file, and TOOLBOX_* variables.
// Commands apply their own flags on top and call Validate.
func loadConfig(common commonFlags, env *Environment) (*config.Config, *envSettings, error) {
	settings := loadEnvSettings()
	if !common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	name := common.config
	if name == "" {
		name = settings.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvSettings(settings, cfg)
	return cfg, settings, nil
}

// newSynthesizer builds a Synthesizer from validated config.
func newSynthesizer(cfg *config.Config, timeout time.Duration) (*toolbox.Synthesizer, error) {
	page, err := cfg.Layout()
	if err != nil {
		return nil, err
	}
	opts := []toolbox.Option{
		toolbox.WithPage(page),
		toolbox.WithFontSize(cfg.Page.FontSize),
		toolbox.WithValidation(cfg.Convert.Validate),
	}
	if timeout > 0 {
		opts = append(opts, toolbox.WithTimeout(timeout))
	}
	return toolbox.NewSynthesizer(opts...), nil
}

func newHolidaySource(cfg *config.Config) *holiday.Source {
	client := holiday.NewClient(cfg.Holiday.BaseURL, &http.Client{Timeout: cfg.Holiday.RequestTimeout()})
	return holiday.NewSource(client, cfg.Holiday.CacheTTL())
}

func newRatesClient(cfg *config.Config) *rates.Client {
	return rates.NewClient(cfg.Rates.BaseURL, &http.Client{Timeout: cfg.Rates.RequestTimeout()})
}

// painter colors terminal output unless disabled by flag or NO_COLOR.
type painter struct {
	enabled bool
}

func newPainter(noColor bool) painter {
	return painter{enabled: !noColor && os.Getenv("NO_COLOR") == ""}
}

func (p painter) paint(style color.Style, s string) string {
	if !p.enabled {
		return s
	}
	return style.Sprint(s)
}

func (p painter) holiday(s string) string { return p.paint(color.New(color.FgRed, color.OpBold), s) }
func (p painter) weekend(s string) string { return p.paint(color.New(color.FgYellow), s) }
func (p painter) heading(s string) string { return p.paint(color.New(color.OpBold), s) }
func (p painter) ok(s string) string      { return p.paint(color.New(color.FgGreen), s) }
func (p painter) warn(s string) string    { return p.paint(color.New(color.FgYellow), s) }
func (p painter) fail(s string) string    { return p.paint(color.New(color.FgRed), s) }
