// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-toolbox/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForUpstream returns hints for a failed holiday or rates fetch. envVar names
// the variable that overrides the service's base URL.
func ForUpstream(envVar string) string {
	var hints []string

	hasProxy := os.Getenv("HTTPS_PROXY") != "" || os.Getenv("https_proxy") != ""
	if IsInContainer() && !hasProxy {
		hints = append(hints, "check the container has outbound network or set HTTPS_PROXY")
	}
	if envVar != "" && os.Getenv(envVar) == "" {
		hints = append(hints, "set "+envVar+" to use a mirror")
	}
	hints = append(hints, "run 'toolbox doctor' to test connectivity")

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for slow networks or large batches, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-toolbox/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(filepathSlash(p), "/go-toolbox/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForUnsupportedFormat lists the extensions that can be converted.
func ForUnsupportedFormat(supported []string) string {
	if len(supported) == 0 {
		return ""
	}
	return format("supported: " + strings.Join(supported, ", "))
}

// ForGCSCredentials returns hints for bucket sink authentication errors.
func ForGCSCredentials() string {
	if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
		return format("set GOOGLE_APPLICATION_CREDENTIALS or gcs.credentialsFile in config")
	}
	return format("check the service account can write to the bucket")
}

func filepathSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
