package fileutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-toolbox/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestExt - Extension extraction
// ---------------------------------------------------------------------------

func TestExt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercases", input: "notes.TXT", want: "txt"},
		{name: "last extension wins", input: "photo.final.JPEG", want: "jpeg"},
		{name: "no extension", input: "README", want: ""},
		{name: "dotfile has none", input: ".profile", want: ""},
		{name: "trailing dot", input: "name.", want: ""},
		{name: "directory dots ignored", input: "dir.d/file", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.Ext(tt.input); got != tt.want {
				t.Errorf("Ext(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestPDFName - Output naming
// ---------------------------------------------------------------------------

func TestPDFName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "report.TXT", want: "report.pdf"},
		{input: "photo.final.jpg", want: "photo.final.pdf"},
		{input: "photo", want: "photo.pdf"},
		{input: "name.", want: "name.pdf"},
		{input: "already.pdf", want: "already.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.PDFName(tt.input); got != tt.want {
				t.Errorf("PDFName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestValidateExtension - Extension validation
// ---------------------------------------------------------------------------

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extension string
		wantErr   error
	}{
		{name: "valid extension txt", extension: "txt", wantErr: nil},
		{name: "empty extension", extension: "", wantErr: fileutil.ErrExtensionEmpty},
		{name: "forward slash path traversal", extension: "../etc/passwd", wantErr: fileutil.ErrExtensionPathTraversal},
		{name: "backslash path traversal", extension: "..\\windows", wantErr: fileutil.ErrExtensionPathTraversal},
		{name: "null byte injection", extension: "pdf\x00exe", wantErr: fileutil.ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fileutil.ValidateExtension(tt.extension)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtension(%q) = %v, want %v", tt.extension, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteAtomic - Temp file then rename
// ---------------------------------------------------------------------------

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path, err := fileutil.WriteAtomic(dir, "out.pdf", []byte("%PDF-1.3"))
	if err != nil {
		t.Fatalf("WriteAtomic() error = %v", err)
	}
	if path != filepath.Join(dir, "out.pdf") {
		t.Errorf("path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error = %v", err)
	}
	if string(data) != "%PDF-1.3" {
		t.Errorf("content = %q", data)
	}

	// Overwrite replaces the content and leaves no temp files behind.
	if _, err := fileutil.WriteAtomic(dir, "out.pdf", []byte("second")); err != nil {
		t.Fatalf("WriteAtomic() overwrite error = %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want 1", len(entries))
	}
}

func TestWriteAtomic_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"", "..", "../escape.pdf", "a/b.pdf"} {
		if _, err := fileutil.WriteAtomic(dir, name, nil); !errors.Is(err, fileutil.ErrInvalidName) {
			t.Errorf("WriteAtomic(%q) error = %v, want ErrInvalidName", name, err)
		}
	}

	_, err := fileutil.WriteAtomic(filepath.Join(dir, "missing"), "x.pdf", nil)
	if err == nil || !strings.Contains(err.Error(), "creating temp file") {
		t.Errorf("WriteAtomic(missing dir) error = %v, want creating temp file", err)
	}
}

// ---------------------------------------------------------------------------
// TestFileExists - File existence check
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()

	testFile := filepath.Join(tempDir, "test.txt")
	if err := os.WriteFile(testFile, []byte("content"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	testDir := filepath.Join(tempDir, "testdir")
	if err := os.Mkdir(testDir, 0o755); err != nil {
		t.Fatalf("failed to create test dir: %v", err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "existing file returns true", path: testFile, want: true},
		{name: "directory returns false", path: testDir, want: false},
		{name: "nonexistent path returns false", path: filepath.Join(tempDir, "nonexistent"), want: false},
		{name: "empty path returns false", path: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.FileExists(tt.path); got != tt.want {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsFilePath - File path detection
// ---------------------------------------------------------------------------

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{input: "work", want: false},
		{input: "./toolbox.yaml", want: true},
		{input: "/etc/toolbox.yaml", want: true},
		{input: "C:\\cfg\\toolbox.yaml", want: true},
		{input: "name.with.dots", want: false},
		{input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.IsFilePath(tt.input); got != tt.want {
				t.Errorf("IsFilePath(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
