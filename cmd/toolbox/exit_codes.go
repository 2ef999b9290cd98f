package main

import (
	"context"
	"errors"
	"os"

	toolbox "github.com/alnah/go-toolbox"
	"github.com/alnah/go-toolbox/internal/bmi"
	"github.com/alnah/go-toolbox/internal/calendar"
	"github.com/alnah/go-toolbox/internal/config"
	"github.com/alnah/go-toolbox/internal/dateutil"
	"github.com/alnah/go-toolbox/internal/hints"
	"github.com/alnah/go-toolbox/internal/layout"
	"github.com/alnah/go-toolbox/internal/password"
	"github.com/alnah/go-toolbox/internal/rates"
	"github.com/alnah/go-toolbox/internal/sink"
)

// Exit codes for the toolbox CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Command completed
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, arguments, config, or unsupported input
	ExitIO       = 3 // File not found, unreadable input, unwritable output
	ExitUpstream = 4 // Holiday or rates service unreachable
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Upstream errors (exit 4)
	if errors.Is(err, toolbox.ErrUpstreamFetch) {
		return ExitUpstream
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, ErrDuplicateOutput) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, toolbox.ErrUnsupportedFormat) ||
		errors.Is(err, calendar.ErrInvalidMonth) ||
		errors.Is(err, calendar.ErrInvalidYear) ||
		errors.Is(err, dateutil.ErrUnknownLocale) ||
		errors.Is(err, layout.ErrInvalidPageSize) ||
		errors.Is(err, layout.ErrInvalidOrientation) ||
		errors.Is(err, layout.ErrInvalidMargin) ||
		errors.Is(err, layout.ErrInvalidLineHeight) ||
		errors.Is(err, rates.ErrInvalidCurrency) ||
		errors.Is(err, rates.ErrUnknownRate) ||
		errors.Is(err, rates.ErrInvalidAmount) ||
		errors.Is(err, password.ErrInvalidLength) ||
		errors.Is(err, bmi.ErrInvalidMeasurement) ||
		errors.Is(err, bmi.ErrInvalidUnit) ||
		errors.Is(err, sink.ErrInvalidURI) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, toolbox.ErrDecode) ||
		errors.Is(err, sink.ErrExists) {
		return ExitIO
	}

	return ExitGeneral
}

// hintedError attaches an actionable hint to err.
type hintedError struct {
	err  error
	hint string
}

func (e *hintedError) Error() string { return e.err.Error() }
func (e *hintedError) Unwrap() error { return e.err }

func withHint(err error, hint string) error {
	if err == nil || hint == "" {
		return err
	}
	return &hintedError{err: err, hint: hint}
}

// hintFor returns the hint attached to err or one derived from its kind.
func hintFor(err error) string {
	var he *hintedError
	if errors.As(err, &he) {
		return he.hint
	}
	var nf *config.NotFoundError
	if errors.As(err, &nf) {
		return hints.ForConfigNotFound(nf.Tried)
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, toolbox.ErrUnsupportedFormat):
		return hints.ForUnsupportedFormat(toolbox.SupportedExtensions())
	}
	return ""
}
