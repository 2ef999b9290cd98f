package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	toolbox "github.com/alnah/go-toolbox"
	"github.com/alnah/go-toolbox/internal/config"
	"github.com/alnah/go-toolbox/internal/fileutil"
	"github.com/alnah/go-toolbox/internal/hints"
	"github.com/alnah/go-toolbox/internal/sink"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrReadInput          = errors.New("failed to read input file")
	ErrWriteOutput        = errors.New("failed to write PDF")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrDuplicateOutput    = errors.New("several inputs map to the same output name")
)

// MaxInputSize bounds a single input file.
const MaxInputSize = 64 << 20

// fileToConvert represents a single file to process.
type fileToConvert struct {
	InputPath string
	Output    string // PDF file name
}

// conversionResult holds the outcome of a single conversion.
type conversionResult struct {
	InputPath string
	Location  string
	Pages     int
	Err       error
	Duration  time.Duration
}

// runConvertCmd orchestrates the conversion process.
func runConvertCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stdout)
	if err != nil {
		return err
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg, settings, err := loadConfig(flags.common, env)
	if err != nil {
		return err
	}
	mergeConvertFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	dir, err := toolbox.ParseDirection(flags.direction)
	if err != nil {
		return err
	}
	timeout, err := resolveTimeout(flags.timeout, settings.Timeout)
	if err != nil {
		return err
	}

	if len(positional) == 0 {
		return ErrNoInput
	}
	files, err := discoverFiles(positional)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no convertible files in %s", ErrNoInput, strings.Join(positional, ", "))
	}

	out, err := openOutputs(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()
	if err := checkDuplicateOutputs(files, out.shared != nil); err != nil {
		return err
	}

	synth, err := newSynthesizer(cfg, timeout)
	if err != nil {
		return err
	}

	workers := toolbox.ResolveWorkers(cfg.Convert.Workers)
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Workers: %d\n", workers)
	}

	results := convertBatch(ctx, synth, files, dir, out, workers)
	return summarize(results, flags.common, env)
}

// mergeConvertFlags merges CLI flags into config. CLI values override config values.
func mergeConvertFlags(flags *convertFlags, cfg *config.Config) {
	flags.page.apply(cfg)
	if flags.output != "" {
		cfg.Output.Dir = flags.output
	}
	if flags.workers > 0 {
		cfg.Convert.Workers = flags.workers
	}
	if flags.validate {
		cfg.Convert.Validate = true
	}
	if flags.noClobber {
		cfg.Output.NoClobber = true
	}
}

// resolveTimeout picks the flag value over the environment. Zero disables.
func resolveTimeout(flagValue string, envValue time.Duration) (time.Duration, error) {
	if flagValue == "" {
		return envValue, nil
	}
	d, err := time.ParseDuration(flagValue)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid timeout %q: %v", ErrUsage, flagValue, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: timeout must be positive, got %s", ErrUsage, flagValue)
	}
	return d, nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > toolbox.MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, toolbox.MaxWorkers)
	}
	return nil
}

// discoverFiles expands paths. Named files are always included so that an
// unsupported one reports why; directories contribute supported files only.
func discoverFiles(paths []string) ([]fileToConvert, error) {
	supported := toolbox.SupportedExtensions()
	var files []fileToConvert

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, fileToConvert{InputPath: p, Output: fileutil.PDFName(filepath.Base(p))})
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("scanning %s: %w", path, err)
			}
			if d.IsDir() {
				if path != p && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if !slices.Contains(supported, fileutil.Ext(path)) {
				return nil
			}
			files = append(files, fileToConvert{InputPath: path, Output: fileutil.PDFName(d.Name())})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// checkDuplicateOutputs rejects batches where two inputs would write the
// same PDF, either in the shared sink or beside their sources.
func checkDuplicateOutputs(files []fileToConvert, shared bool) error {
	seen := make(map[string]string, len(files))
	for _, f := range files {
		key := f.Output
		if !shared {
			key = filepath.Join(filepath.Dir(f.InputPath), f.Output)
		}
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("%w: %s and %s -> %s", ErrDuplicateOutput, prev, f.InputPath, f.Output)
		}
		seen[key] = f.InputPath
	}
	return nil
}

// outputs routes documents to one shared sink, or beside each source when
// no output location is configured.
type outputs struct {
	shared    sink.Sink
	noClobber bool

	mu    sync.Mutex
	local map[string]*sink.Dir
}

func openOutputs(ctx context.Context, cfg *config.Config) (*outputs, error) {
	o := &outputs{noClobber: cfg.Output.NoClobber, local: map[string]*sink.Dir{}}
	if cfg.Output.Dir == "" {
		return o, nil
	}

	loc, err := sink.ParseLocation(cfg.Output.Dir)
	if err != nil {
		return nil, err
	}
	s, err := sink.Open(ctx, loc, sink.GCSOptions{
		CredentialsFile: cfg.GCS.CredentialsFile,
		Endpoint:        cfg.GCS.Endpoint,
		NoClobber:       cfg.Output.NoClobber,
	})
	if err != nil {
		if loc.IsGCS() {
			return nil, withHint(err, hints.ForGCSCredentials())
		}
		return nil, withHint(fmt.Errorf("%w: %v", ErrWriteOutput, err), hints.ForOutputDirectory())
	}
	o.shared = s
	return o, nil
}

func (o *outputs) sinkFor(f fileToConvert) (sink.Sink, error) {
	if o.shared != nil {
		return o.shared, nil
	}
	dir := filepath.Dir(f.InputPath)

	o.mu.Lock()
	defer o.mu.Unlock()
	if d, ok := o.local[dir]; ok {
		return d, nil
	}
	d, err := sink.NewDir(dir, o.noClobber)
	if err != nil {
		return nil, err
	}
	o.local[dir] = d
	return d, nil
}

func (o *outputs) put(ctx context.Context, f fileToConvert, doc *toolbox.ConvertedDocument) (string, error) {
	s, err := o.sinkFor(f)
	if err != nil {
		return "", err
	}
	return s.Put(ctx, f.Output, doc.Payload)
}

func (o *outputs) Close() error {
	if o.shared != nil {
		return o.shared.Close()
	}
	return nil
}

// convertBatch converts files with at most workers in flight. One failure
// does not stop the others.
func convertBatch(ctx context.Context, conv toolbox.Converter, files []fileToConvert, dir toolbox.Direction, out *outputs, workers int) []conversionResult {
	results := make([]conversionResult, len(files))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, f := range files {
		g.Go(func() error {
			results[i] = convertFile(ctx, conv, f, dir, out)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// convertFile processes a single file and returns the result.
func convertFile(ctx context.Context, conv toolbox.Converter, f fileToConvert, dir toolbox.Direction, out *outputs) conversionResult {
	start := time.Now()
	result := conversionResult{InputPath: f.InputPath}
	done := func(err error) conversionResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	if err := ctx.Err(); err != nil {
		return done(err)
	}

	content, err := readInput(f.InputPath)
	if err != nil {
		return done(err)
	}

	doc, err := conv.Convert(ctx, toolbox.ConvertibleFile{Name: filepath.Base(f.InputPath), Content: content}, dir)
	if err != nil {
		return done(err)
	}

	loc, err := out.put(ctx, f, doc)
	if err != nil {
		if errors.Is(err, sink.ErrExists) {
			return done(err)
		}
		return done(fmt.Errorf("%w: %v", ErrWriteOutput, err))
	}
	result.Location = loc
	result.Pages = doc.Pages
	return done(nil)
}

func readInput(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	if info.Size() > MaxInputSize {
		return nil, fmt.Errorf("%w: %s is %d bytes (max %d)", ErrReadInput, path, info.Size(), MaxInputSize)
	}
	content, err := os.ReadFile(path) // #nosec G304 -- user-named or discovered path
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	return content, nil
}

// summarize prints results and returns the first failure, annotated with
// the failure count for batches.
func summarize(results []conversionResult, common commonFlags, env *Environment) error {
	p := newPainter(common.noColor)
	var failed []conversionResult

	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
			fmt.Fprintf(env.Stderr, "%s %s: %v\n", p.fail("FAILED"), r.InputPath, r.Err)
			continue
		}
		if common.quiet {
			continue
		}
		if common.verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%d pages, %v)\n", r.InputPath, r.Location, r.Pages, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.Location)
		}
	}

	if !common.quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(results)-len(failed), len(failed))
	}

	switch {
	case len(failed) == 0:
		return nil
	case len(results) == 1:
		return failed[0].Err
	}
	errs := make([]error, len(failed))
	for i, r := range failed {
		errs[i] = r.Err
	}
	return &batchError{failed: len(failed), total: len(results), err: errors.Join(errs...)}
}

// batchError summarizes a partially failed batch. Each failure was already
// reported on its own line; errors.Is sees all of them.
type batchError struct {
	failed, total int
	err           error
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d of %d conversion(s) failed", e.failed, e.total)
}

func (e *batchError) Unwrap() error { return e.err }
