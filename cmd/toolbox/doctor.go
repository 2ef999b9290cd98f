package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	flag "github.com/spf13/pflag"

	toolbox "github.com/alnah/go-toolbox"
	"github.com/alnah/go-toolbox/internal/config"
	"github.com/alnah/go-toolbox/internal/pdfcheck"
	"github.com/alnah/go-toolbox/internal/rates"
	"github.com/alnah/go-toolbox/internal/sink"
)

// doctorProbeTimeout bounds each upstream reachability check.
const doctorProbeTimeout = 5 * time.Second

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	common  commonFlags
	json    bool
	offline bool
}

func buildDoctorFlagSet(f *doctorFlags, w io.Writer) *flag.FlagSet {
	fs := newFlagSet("doctor", printDoctorUsage, w)
	fs.BoolVar(&f.json, "json", false, "print JSON")
	fs.BoolVar(&f.offline, "offline", false, "skip upstream reachability checks")
	addCommonFlags(fs, &f.common)
	return fs
}

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string       `json:"status"` // "ready", "warnings", "errors"
	Env      envInfo      `json:"environment"`
	System   systemInfo   `json:"system"`
	Config   configInfo   `json:"config"`
	Upstream upstreamInfo `json:"upstream"`
	Warnings []string     `json:"warnings,omitempty"`
	Errors   []string     `json:"errors,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	GoMaxProcs    int    `json:"gomaxprocs"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
	PDFEngine    bool `json:"pdf_engine"`
}

type configInfo struct {
	Source    string `json:"source"` // "defaults" or the file name
	Output    string `json:"output,omitempty"`
	GCSOutput bool   `json:"gcs_output"`
}

type upstreamInfo struct {
	Checked    bool   `json:"checked"`
	Holidays   bool   `json:"holidays"`
	Rates      bool   `json:"rates"`
	HolidayURL string `json:"holiday_url"`
	RatesURL   string `json:"rates_url"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	flags := &doctorFlags{}
	fs := buildDoctorFlagSet(flags, env.Stdout)
	if err := parse(fs, args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitUsage
	}

	result := runDoctor(ctx, flags, env)

	if flags.json {
		_ = writeJSON(env.Stdout, result)
	} else {
		printDoctorResult(env.Stdout, result, newPainter(flags.common.noColor))
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, flags *doctorFlags, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			GoMaxProcs: runtime.GOMAXPROCS(0),
		},
	}

	checkEnvironment(result)
	checkSystem(ctx, result)

	quiet := flags.common
	quiet.quiet = true
	cfg, _, err := loadConfig(quiet, env)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Config: %v", err))
	} else {
		checkConfig(result, cfg, flags.common.config)
		if !flags.offline {
			checkUpstreams(ctx, result, cfg)
		}
	}

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	hasProxy := os.Getenv("HTTPS_PROXY") != "" || os.Getenv("https_proxy") != ""
	if result.Env.Container && !hasProxy && os.Getenv(envHolidayURL) == "" {
		result.Warnings = append(result.Warnings,
			"Container detected without HTTPS_PROXY; holiday and rate lookups need outbound network")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if os.Getenv(envContainer) == "1" {
		return true, envContainer + "=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory and that a PDF can be produced.
func checkSystem(ctx context.Context, result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, fmt.Sprintf("toolbox-doctor-%d", os.Getpid()))
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	} else {
		_ = os.Remove(testFile)
		result.System.TempWritable = true
	}

	doc, err := toolbox.NewSynthesizer().Convert(ctx,
		toolbox.ConvertibleFile{Name: "doctor.txt", Content: []byte("toolbox doctor")}, toolbox.ToPDF)
	if err == nil {
		err = pdfcheck.Validate(doc.Payload)
	}
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("PDF engine: %v", err))
		return
	}
	result.System.PDFEngine = true
}

func checkConfig(result *doctorResult, cfg *config.Config, flagConfig string) {
	result.Config.Source = "defaults"
	if flagConfig != "" {
		result.Config.Source = flagConfig
	} else if name := os.Getenv(envConfig); name != "" {
		result.Config.Source = name
	}
	result.Upstream.HolidayURL = cfg.Holiday.BaseURL
	result.Upstream.RatesURL = cfg.Rates.BaseURL

	if cfg.Output.Dir == "" {
		return
	}
	result.Config.Output = cfg.Output.Dir
	loc, err := sink.ParseLocation(cfg.Output.Dir)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Output: %v", err))
		return
	}
	if !loc.IsGCS() {
		return
	}
	result.Config.GCSOutput = true
	if cfg.GCS.CredentialsFile == "" && os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" && cfg.GCS.Endpoint == "" {
		result.Warnings = append(result.Warnings,
			"Bucket output without explicit credentials; relying on ambient Google credentials")
	}
}

// checkUpstreams issues one real request to each service.
func checkUpstreams(ctx context.Context, result *doctorResult, cfg *config.Config) {
	result.Upstream.Checked = true
	ctx, cancel := context.WithTimeout(ctx, doctorProbeTimeout)
	defer cancel()

	now := time.Now()
	if _, err := newHolidaySource(cfg).Holidays(ctx, now.Year(), int(now.Month())); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Holiday service unreachable: %v", err))
	} else {
		result.Upstream.Holidays = true
	}

	if _, err := newRatesClient(cfg).Fetch(ctx, rates.DefaultBase); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Rates service unreachable: %v", err))
	} else {
		result.Upstream.Rates = true
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult, p painter) {
	okTag, warnTag, errTag := p.ok("[OK]"), p.warn("[WARN]"), p.fail("[ERROR]")
	check := func(ok bool, label, good, bad string) {
		if ok {
			fmt.Fprintf(w, "  %s %s: %s\n", okTag, label, good)
		} else {
			fmt.Fprintf(w, "  %s %s: %s\n", errTag, label, bad)
		}
	}

	fmt.Fprintln(w, p.heading("toolbox doctor"))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  %s Platform: %s/%s (GOMAXPROCS %d)\n", okTag, r.Env.OS, r.Env.Arch, r.Env.GoMaxProcs)
	if r.Env.Container {
		fmt.Fprintf(w, "  %s Container: detected (%s)\n", okTag, r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintf(w, "  %s CI: detected\n", okTag)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	check(r.System.TempWritable, "Temp directory", "writable", "not writable")
	check(r.System.PDFEngine, "PDF engine", "working", "failed")
	fmt.Fprintln(w)

	if r.Config.Source != "" {
		fmt.Fprintln(w, "Config")
		fmt.Fprintf(w, "  %s Source: %s\n", okTag, r.Config.Source)
		if r.Config.Output != "" {
			fmt.Fprintf(w, "  %s Output: %s\n", okTag, r.Config.Output)
		}
		fmt.Fprintln(w)
	}

	if r.Upstream.Checked {
		fmt.Fprintln(w, "Services")
		tag := func(ok bool) string {
			if ok {
				return okTag
			}
			return warnTag
		}
		fmt.Fprintf(w, "  %s Holidays: %s\n", tag(r.Upstream.Holidays), r.Upstream.HolidayURL)
		fmt.Fprintf(w, "  %s Rates: %s\n", tag(r.Upstream.Rates), r.Upstream.RatesURL)
		fmt.Fprintln(w)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  %s %s\n", warnTag, warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  %s %s\n", errTag, err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
