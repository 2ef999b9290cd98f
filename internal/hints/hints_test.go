package hints

// Notes:
// - ForUpstream and ForGCSCredentials tests cannot use t.Parallel() because they:
//   1. Use t.Setenv() which modifies process environment
//   2. Modify the package-level IsInContainer variable

import (
	"strings"
	"testing"
)

func TestForUpstream_InContainerWithoutProxy(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return true }

	t.Setenv("HTTPS_PROXY", "")
	t.Setenv("https_proxy", "")
	t.Setenv("TOOLBOX_HOLIDAY_URL", "")

	hint := ForUpstream("TOOLBOX_HOLIDAY_URL")

	if !strings.HasPrefix(hint, "\n  hint: ") {
		t.Errorf("hint %q missing prefix", hint)
	}
	for _, want := range []string{"HTTPS_PROXY", "TOOLBOX_HOLIDAY_URL", "toolbox doctor"} {
		if !strings.Contains(hint, want) {
			t.Errorf("hint %q missing %q", hint, want)
		}
	}
}

func TestForUpstream_OverrideAlreadySet(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return false }

	t.Setenv("TOOLBOX_RATES_URL", "https://mirror.example")

	hint := ForUpstream("TOOLBOX_RATES_URL")

	if strings.Contains(hint, "TOOLBOX_RATES_URL") || strings.Contains(hint, "HTTPS_PROXY") {
		t.Errorf("hint %q should only suggest doctor", hint)
	}
	if !strings.Contains(hint, "toolbox doctor") {
		t.Errorf("hint %q missing doctor suggestion", hint)
	}
}

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		searched []string
		want     string
		notWant  string
	}{
		{
			name:     "suggests user config path",
			searched: []string{"work.yaml", "/home/u/.config/go-toolbox/work.yaml"},
			want:     "or create /home/u/.config/go-toolbox/work.yaml",
		},
		{
			name:     "windows path",
			searched: []string{`C:\Users\u\AppData\Roaming\go-toolbox\work.yaml`},
			want:     "or create",
		},
		{
			name:     "no user path",
			searched: []string{"work.yaml"},
			want:     "--config",
			notWant:  "or create",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hint := ForConfigNotFound(tt.searched)
			if !strings.Contains(hint, tt.want) {
				t.Errorf("hint %q missing %q", hint, tt.want)
			}
			if tt.notWant != "" && strings.Contains(hint, tt.notWant) {
				t.Errorf("hint %q should not contain %q", hint, tt.notWant)
			}
		})
	}
}

func TestForUnsupportedFormat(t *testing.T) {
	t.Parallel()

	if got := ForUnsupportedFormat(nil); got != "" {
		t.Errorf("ForUnsupportedFormat(nil) = %q, want empty", got)
	}
	got := ForUnsupportedFormat([]string{"txt", "png"})
	if got != "\n  hint: supported: txt, png" {
		t.Errorf("ForUnsupportedFormat() = %q", got)
	}
}

func TestForGCSCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	if got := ForGCSCredentials(); !strings.Contains(got, "GOOGLE_APPLICATION_CREDENTIALS") {
		t.Errorf("ForGCSCredentials() = %q", got)
	}

	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/tmp/sa.json")
	if got := ForGCSCredentials(); !strings.Contains(got, "service account") {
		t.Errorf("ForGCSCredentials() = %q", got)
	}
}

func TestStaticHints(t *testing.T) {
	t.Parallel()

	for name, hint := range map[string]string{
		"timeout": ForTimeout(),
		"output":  ForOutputDirectory(),
	} {
		if !strings.HasPrefix(hint, "\n  hint: ") {
			t.Errorf("%s hint %q missing prefix", name, hint)
		}
	}
	if formatHints(nil) != "" || format("") != "" {
		t.Error("empty hints should format to empty string")
	}
}
