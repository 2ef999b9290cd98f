package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-toolbox/internal/config"
)

// ErrUsage marks invalid command lines.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
	noColor bool
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
	lineHeight  float64
	fontSize    float64
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common    commonFlags
	page      pageFlags
	output    string
	direction string
	workers   int
	timeout   string
	validate  bool
	noClobber bool
}

// calendarFlags holds flags for the calendar command.
type calendarFlags struct {
	common  commonFlags
	locale  string
	json    bool
	offline bool
}

// ratesFlags holds flags for the rates command.
type ratesFlags struct {
	common commonFlags
	list   bool
	json   bool
}

// passwordFlags holds flags for the password command.
type passwordFlags struct {
	common    commonFlags
	length    int
	noUpper   bool
	noLower   bool
	noDigits  bool
	noSymbols bool
	count     int
	json      bool
}

// bmiFlags holds flags for the bmi command.
type bmiFlags struct {
	common commonFlags
	unit   string
	json   bool
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common      commonFlags
	addr        string
	maxUploadMB int
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed output")
	fs.BoolVar(&f.noColor, "no-color", false, "disable colored output")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: a4, letter, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in mm")
	fs.Float64Var(&f.lineHeight, "line-height", 0, "text line height in mm")
	fs.Float64Var(&f.fontSize, "font-size", 0, "text font size in points")
}

// apply merges set page flags into cfg.
func (f pageFlags) apply(cfg *config.Config) {
	if f.size != "" {
		cfg.Page.Size = f.size
	}
	if f.orientation != "" {
		cfg.Page.Orientation = f.orientation
	}
	if f.margin != 0 {
		cfg.Page.Margin = f.margin
	}
	if f.lineHeight != 0 {
		cfg.Page.LineHeight = f.lineHeight
	}
	if f.fontSize != 0 {
		cfg.Page.FontSize = f.fontSize
	}
}

func newFlagSet(name string, usage func(io.Writer), w io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	fs.SortFlags = false
	return fs
}

// parse runs fs.Parse and marks failures as usage errors.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

func buildConvertFlagSet(f *convertFlags, w io.Writer) *flag.FlagSet {
	fs := newFlagSet("convert", printConvertUsage, w)
	fs.StringVarP(&f.output, "output", "o", "", "output directory or gs://bucket/prefix")
	fs.StringVarP(&f.direction, "direction", "d", "", "to-pdf or from-pdf")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-document timeout (e.g., 30s, 2m)")
	fs.BoolVar(&f.validate, "validate", false, "check produced PDFs")
	fs.BoolVarP(&f.noClobber, "no-clobber", "n", false, "fail instead of overwriting")
	addPageFlags(fs, &f.page)
	addCommonFlags(fs, &f.common)
	return fs
}

func parseConvertFlags(args []string, w io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := buildConvertFlagSet(f, w)
	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func buildCalendarFlagSet(f *calendarFlags, w io.Writer) *flag.FlagSet {
	fs := newFlagSet("calendar", printCalendarUsage, w)
	fs.StringVarP(&f.locale, "locale", "l", "", "month and weekday names: en, id")
	fs.BoolVar(&f.json, "json", false, "print JSON")
	fs.BoolVar(&f.offline, "offline", false, "skip the holiday service")
	addCommonFlags(fs, &f.common)
	return fs
}

func parseCalendarFlags(args []string, w io.Writer) (*calendarFlags, []string, error) {
	f := &calendarFlags{}
	fs := buildCalendarFlagSet(f, w)
	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func buildRatesFlagSet(f *ratesFlags, w io.Writer) *flag.FlagSet {
	fs := newFlagSet("rates", printRatesUsage, w)
	fs.BoolVar(&f.list, "list", false, "list supported currencies")
	fs.BoolVar(&f.json, "json", false, "print JSON")
	addCommonFlags(fs, &f.common)
	return fs
}

func parseRatesFlags(args []string, w io.Writer) (*ratesFlags, []string, error) {
	f := &ratesFlags{}
	fs := buildRatesFlagSet(f, w)
	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func buildPasswordFlagSet(f *passwordFlags, w io.Writer) *flag.FlagSet {
	fs := newFlagSet("password", printPasswordUsage, w)
	fs.IntVarP(&f.length, "length", "l", 0, "password length (4-128)")
	fs.BoolVar(&f.noUpper, "no-upper", false, "exclude uppercase letters")
	fs.BoolVar(&f.noLower, "no-lower", false, "exclude lowercase letters")
	fs.BoolVar(&f.noDigits, "no-digits", false, "exclude digits")
	fs.BoolVar(&f.noSymbols, "no-symbols", false, "exclude symbols")
	fs.IntVarP(&f.count, "count", "n", 1, "number of passwords")
	fs.BoolVar(&f.json, "json", false, "print JSON")
	addCommonFlags(fs, &f.common)
	return fs
}

func parsePasswordFlags(args []string, w io.Writer) (*passwordFlags, []string, error) {
	f := &passwordFlags{}
	fs := buildPasswordFlagSet(f, w)
	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func buildBMIFlagSet(f *bmiFlags, w io.Writer) *flag.FlagSet {
	fs := newFlagSet("bmi", printBMIUsage, w)
	fs.StringVarP(&f.unit, "unit", "u", "", "metric (kg, cm) or imperial (lb, in)")
	fs.BoolVar(&f.json, "json", false, "print JSON")
	addCommonFlags(fs, &f.common)
	return fs
}

func parseBMIFlags(args []string, w io.Writer) (*bmiFlags, []string, error) {
	f := &bmiFlags{}
	fs := buildBMIFlagSet(f, w)
	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func buildServeFlagSet(f *serveFlags, w io.Writer) *flag.FlagSet {
	fs := newFlagSet("serve", printServeUsage, w)
	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default :8080)")
	fs.IntVar(&f.maxUploadMB, "max-upload-mb", 0, "largest accepted upload in MiB")
	addCommonFlags(fs, &f.common)
	return fs
}

func parseServeFlags(args []string, w io.Writer) (*serveFlags, []string, error) {
	f := &serveFlags{}
	fs := buildServeFlagSet(f, w)
	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
