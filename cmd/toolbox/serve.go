package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	toolbox "github.com/alnah/go-toolbox"
	"github.com/alnah/go-toolbox/internal/config"
	"github.com/alnah/go-toolbox/internal/password"
	"github.com/alnah/go-toolbox/internal/rates"
	"github.com/alnah/go-toolbox/internal/server"
)

// runServeCmd serves the HTTP API until ctx is canceled.
func runServeCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseServeFlags(args, env.Stdout)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: serve takes no arguments, got %q", ErrUsage, positional[0])
	}

	cfg, settings, err := loadConfig(flags.common, env)
	if err != nil {
		return err
	}
	if flags.addr != "" {
		cfg.Server.Addr = flags.addr
	}
	if flags.maxUploadMB != 0 {
		cfg.Server.MaxUploadMB = flags.maxUploadMB
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	deps, err := serverDeps(cfg, settings, newLogger(env.Stderr, flags.common))
	if err != nil {
		return err
	}
	return server.New(deps).ListenAndServe(ctx, cfg.Server.Addr)
}

// serverDeps wires the API services from validated config.
func serverDeps(cfg *config.Config, settings *envSettings, logger *slog.Logger) (server.Deps, error) {
	synth, err := newSynthesizer(cfg, settings.Timeout)
	if err != nil {
		return server.Deps{}, err
	}
	ratesClient := newRatesClient(cfg)

	return server.Deps{
		Converter:        synth,
		Calendar:         toolbox.NewCalendar(newHolidaySource(cfg), cfg.Calendar.Locale),
		Rates:            rates.NewService(ratesClient, cfg.Rates.CacheTTL()),
		Fetcher:          ratesClient,
		Passwords:        password.NewGenerator(nil),
		PasswordDefaults: cfg.Password.Options(),
		MaxUpload:        int64(cfg.Server.MaxUploadMB) << 20,
		Logger:           logger,
	}, nil
}

// newLogger writes JSON records; --verbose adds debug, --quiet keeps warnings.
func newLogger(w io.Writer, common commonFlags) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case common.verbose:
		level = slog.LevelDebug
	case common.quiet:
		level = slog.LevelWarn
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
