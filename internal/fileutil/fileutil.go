// Package fileutil provides file naming and writing helpers.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
	ErrInvalidName            = errors.New("invalid file name")
)

// Ext returns the lowercased extension of name without the dot, or "" when
// name has none. A leading dot (".profile") is not an extension.
func Ext(name string) string {
	base := filepath.Base(name)
	i := strings.LastIndexByte(base, '.')
	if i <= 0 || i == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[i+1:])
}

// PDFName replaces the trailing extension of name with ".pdf", or appends
// ".pdf" when there is none.
//
// Examples:
//   - "report.TXT" -> "report.pdf"
//   - "photo.final.jpg" -> "photo.final.pdf"
//   - "photo" -> "photo.pdf"
func PDFName(name string) string {
	if Ext(name) == "" {
		return strings.TrimSuffix(name, ".") + ".pdf"
	}
	return name[:strings.LastIndexByte(name, '.')] + ".pdf"
}

// ValidateExtension checks that the extension is safe for use in file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// ValidateName rejects names that would escape their directory.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\\\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// WriteAtomic writes data to dir/name through a temp file in dir followed by
// a rename, so readers never observe a partial file. It returns the final path.
func WriteAtomic(dir, name string, data []byte) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}

	tmpFile, err := os.CreateTemp(dir, ".toolbox-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmp := tmpFile.Name()
	cleanup := func() { _ = os.Remove(tmp) }

	if _, writeErr := tmpFile.Write(data); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", fmt.Errorf("writing temp file: %w", writeErr)
	}
	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}

	path := filepath.Join(dir, name)
	if err := os.Rename(tmp, path); err != nil {
		cleanup()
		return "", fmt.Errorf("renaming into place: %w", err)
	}
	return path, nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}
