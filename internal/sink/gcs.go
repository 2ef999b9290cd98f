package sink

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/alnah/go-toolbox/internal/fileutil"
)

// GCSOptions configures a bucket sink.
type GCSOptions struct {
	CredentialsFile string // empty uses application default credentials
	Endpoint        string // emulator or private endpoint
	NoClobber       bool
}

// GCS uploads objects to a bucket under a prefix.
type GCS struct {
	client    *storage.Client
	bucket    *storage.BucketHandle
	prefix    string
	noClobber bool
}

// NewGCS opens a storage client for loc.
func NewGCS(ctx context.Context, loc Location, opts GCSOptions) (*GCS, error) {
	if !loc.IsGCS() {
		return nil, fmt.Errorf("%w: not a gs:// location", ErrInvalidURI)
	}

	var clientOpts []option.ClientOption
	if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint), option.WithoutAuthentication())
	}

	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	return &GCS{
		client:    client,
		bucket:    client.Bucket(loc.Bucket),
		prefix:    loc.Prefix,
		noClobber: opts.NoClobber,
	}, nil
}

// Put uploads data as prefix+name with an application/pdf content type.
func (g *GCS) Put(ctx context.Context, name string, data []byte) (string, error) {
	if err := fileutil.ValidateName(name); err != nil {
		return "", err
	}
	objectName := g.prefix + name

	obj := g.bucket.Object(objectName)
	if g.noClobber {
		obj = obj.If(storage.Conditions{DoesNotExist: true})
	}
	w := obj.NewWriter(ctx)
	w.ContentType = "application/pdf"

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", g.wrap(objectName, err)
	}
	if err := w.Close(); err != nil {
		return "", g.wrap(objectName, err)
	}
	return "gs://" + w.Attrs().Bucket + "/" + objectName, nil
}

func (g *GCS) wrap(objectName string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed {
		return fmt.Errorf("%w: %s", ErrExists, objectName)
	}
	return fmt.Errorf("writing %s: %w", objectName, err)
}

// Close releases the storage client.
func (g *GCS) Close() error {
	return g.client.Close()
}

// Open returns the sink for a parsed location.
func Open(ctx context.Context, loc Location, opts GCSOptions) (Sink, error) {
	if loc.IsGCS() {
		return NewGCS(ctx, loc, opts)
	}
	return NewDir(loc.Dir, opts.NoClobber)
}
