// Package sink stores converted documents in a local directory or a Google
// Cloud Storage bucket.
package sink

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-toolbox/internal/fileutil"
)

// Sentinel errors.
var (
	ErrExists     = errors.New("object already exists")
	ErrInvalidURI = errors.New("invalid output location")
)

// Sink stores one named payload and returns where it went.
type Sink interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
	Close() error
}

// Location is a parsed output target: a directory, or gs://bucket/prefix.
type Location struct {
	Bucket string // empty for a local directory
	Prefix string
	Dir    string
}

// IsGCS reports whether the location names a bucket.
func (l Location) IsGCS() bool { return l.Bucket != "" }

// ParseLocation interprets s. An empty s means the current directory.
func ParseLocation(s string) (Location, error) {
	rest, ok := strings.CutPrefix(s, "gs://")
	if !ok {
		if s == "" {
			s = "."
		}
		return Location{Dir: s}, nil
	}
	bucket, prefix, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return Location{}, fmt.Errorf("%w: %q has no bucket", ErrInvalidURI, s)
	}
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return Location{Bucket: bucket, Prefix: prefix}, nil
}

// Dir writes files atomically into a local directory.
type Dir struct {
	path      string
	noClobber bool
}

// NewDir returns a directory sink, creating the directory if needed.
func NewDir(path string, noClobber bool) (*Dir, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &Dir{path: path, noClobber: noClobber}, nil
}

// Put writes data to the directory under name.
func (d *Dir) Put(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if d.noClobber {
		if err := fileutil.ValidateName(name); err != nil {
			return "", err
		}
		if _, err := os.Stat(filepath.Join(d.path, name)); err == nil {
			return "", fmt.Errorf("%w: %s", ErrExists, name)
		}
	}
	return fileutil.WriteAtomic(d.path, name, data)
}

// Close is a no-op.
func (d *Dir) Close() error { return nil }
