package schema

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// LoadOptions configures how Load resolves a Source.
type LoadOptions struct {
	// FileSystem backs SourceKindFS lookups.
	FileSystem fs.FS
	// HTTPClient enables SourceKindURL lookups. Nil disables remote loading.
	HTTPClient *http.Client
	// RequestTimeout bounds a single remote fetch.
	RequestTimeout time.Duration
}

// Load reads the payload behind src and wraps it in a Document.
func Load(ctx context.Context, src Source, opts LoadOptions) (Document, error) {
	if src.Kind == "" {
		return Document{}, errors.New("schema loader: source is required")
	}
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind {
	case SourceKindEmbedded:
		data = ContactOpenAPI()
	case SourceKindFile:
		data, err = loadFile(src.Location)
	case SourceKindFS:
		data, err = loadFromFS(opts.FileSystem, src.Location)
	case SourceKindURL:
		data, err = loadHTTP(ctx, opts.HTTPClient, src.Location, opts.RequestTimeout)
	default:
		err = fmt.Errorf("unsupported source kind %q", src.Kind)
	}
	if err != nil {
		return Document{}, fmt.Errorf("schema loader: %s: %w", src, err)
	}
	return NewDocument(src, data)
}

func loadFile(path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("file path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(abs)
}

func loadFromFS(filesystem fs.FS, name string) ([]byte, error) {
	if filesystem == nil {
		return nil, errors.New("filesystem is not configured")
	}
	if name == "" {
		return nil, errors.New("fs path is required")
	}
	return fs.ReadFile(filesystem, name)
}

func loadHTTP(ctx context.Context, client *http.Client, url string, timeout time.Duration) ([]byte, error) {
	if client == nil {
		return nil, errors.New("http support disabled")
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New("unexpected status " + resp.Status)
	}
	return io.ReadAll(resp.Body)
}
