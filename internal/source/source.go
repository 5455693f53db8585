// Package source abstracts where the pipeline's data/ tree lives. The
// artifacts are identical whether they are served by a static web host or
// read straight off the disk the producer writes to, so both transports
// implement the same one-method interface and share an error taxonomy:
// absence (HTTP 404, os.IsNotExist) is ErrNotFound and is a normal outcome;
// anything else is a transport failure.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotFound marks an artifact that does not exist. Callers must treat it
// as "no data", never as a failure.
var ErrNotFound = errors.New("artifact not found")

// DefaultTimeout bounds a single fetch. The artifacts are small static
// files; anything slower than this is effectively down.
const DefaultTimeout = 15 * time.Second

// Source fetches one artifact of the data tree by its path relative to the
// data root (e.g. "papers/2025-01-02.json").
type Source interface {
	Fetch(ctx context.Context, relPath string) ([]byte, error)
}

// HTTPSource fetches artifacts from a static web host.
type HTTPSource struct {
	base string
	http *http.Client
}

// NewHTTPSource creates a source rooted at base, which should point at the
// directory containing the data/ tree (the "data" segment itself is part of
// relPath). A nil-safe default client with DefaultTimeout is used.
func NewHTTPSource(base string) *HTTPSource {
	return &HTTPSource{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: DefaultTimeout},
	}
}

// SetClient replaces the underlying HTTP client, mainly for tests.
func (s *HTTPSource) SetClient(c *http.Client) {
	if c != nil {
		s.http = c
	}
}

// Fetch implements Source. A 404 maps to ErrNotFound; any other non-2xx
// status is a transport failure and propagates.
func (s *HTTPSource) Fetch(ctx context.Context, relPath string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.base+"/"+strings.TrimLeft(relPath, "/"), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", relPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("fetch %s: %w", relPath, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", relPath, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", relPath, err)
	}
	return body, nil
}

// FileSource reads artifacts from a local data directory, typically the
// producer's own output tree. Useful for offline use and for running the
// viewer on the machine that runs the pipeline.
type FileSource struct {
	root string
}

// NewFileSource creates a source rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{root: dir}
}

// Root returns the directory the source reads from.
func (s *FileSource) Root() string { return s.root }

// Fetch implements Source. A missing file maps to ErrNotFound.
func (s *FileSource) Fetch(_ context.Context, relPath string) ([]byte, error) {
	// Query strings have no meaning on a filesystem (the registry fetch
	// appends a cache-buster); strip them before resolving.
	if i := strings.IndexByte(relPath, '?'); i >= 0 {
		relPath = relPath[:i]
	}

	clean := path.Clean("/" + relPath)
	full := filepath.Join(s.root, filepath.FromSlash(clean))

	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("read %s: %w", relPath, ErrNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", relPath, err)
	}
	return data, nil
}

// FromBase returns an HTTPSource for http(s) bases and a FileSource for
// everything else (a local path, optionally with a file:// prefix).
func FromBase(base string) (Source, error) {
	if base == "" {
		return nil, errors.New("empty data base")
	}
	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		if _, err := url.Parse(base); err != nil {
			return nil, fmt.Errorf("invalid base URL %q: %w", base, err)
		}
		return NewHTTPSource(base), nil
	}
	dir := strings.TrimPrefix(base, "file://")
	return NewFileSource(dir), nil
}
