// Package specloader fetches specification documents from files, fs.FS
// entries, or HTTP endpoints on behalf of the compiler.
package specloader

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-structspec/pkg/spec"
)

// Options configures a Loader.
type Options struct {
	// FileSystem serves SourceKindFS lookups.
	FileSystem fs.FS
	// HTTPClient overrides the client used for URL sources.
	HTTPClient *http.Client
	// AllowHTTP enables URL sources with a default client when no
	// HTTPClient is supplied.
	AllowHTTP bool
	// RequestTimeout bounds HTTP fetches.
	RequestTimeout time.Duration
}

// Loader implements spec.Loader by delegating to file, fs.FS, or HTTP
// strategies.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

// Ensure the implementation satisfies the public interface.
var _ spec.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options Options) *Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTP:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
	}
}

// Load fetches a document from the provided source and wraps it in a
// spec.Document.
func (l *Loader) Load(ctx context.Context, src spec.Source) (spec.Document, error) {
	if src == nil {
		return spec.Document{}, errors.New("specloader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case spec.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case spec.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case spec.SourceKindURL:
		if !l.allowHTTP {
			return spec.Document{}, errors.New("specloader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		err = errors.New("specloader: unsupported source kind")
	}
	if err != nil {
		return spec.Document{}, err
	}

	return spec.NewDocument(src, data)
}
