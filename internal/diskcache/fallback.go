package diskcache

import (
	"context"
	"errors"
	"strings"

	"github.com/vanderheijden86/dailyview/internal/source"
	"github.com/vanderheijden86/dailyview/pkg/debug"
)

// FallbackSource wraps a Source, mirroring every successful fetch into the
// snapshot store and serving the last snapshot when the source is
// unreachable. A definite not-found is passed through untouched: absence is
// evidence (a report that was never generated, a job not yet completed) and
// must not be papered over with a stale snapshot.
type FallbackSource struct {
	inner source.Source
	store *Store
}

// WrapSource wraps src with snapshot mirroring backed by store.
func WrapSource(src source.Source, store *Store) *FallbackSource {
	return &FallbackSource{inner: src, store: store}
}

// Fetch implements source.Source.
func (f *FallbackSource) Fetch(ctx context.Context, relPath string) ([]byte, error) {
	body, err := f.inner.Fetch(ctx, relPath)
	if err == nil {
		kind, name := snapshotKey(relPath)
		if putErr := f.store.Put(kind, name, body); putErr != nil {
			debug.Log("diskcache: snapshot %s/%s not stored: %v", kind, name, putErr)
		}
		return body, nil
	}

	if errors.Is(err, source.ErrNotFound) {
		return nil, err
	}

	kind, name := snapshotKey(relPath)
	snap, at, ok, getErr := f.store.Get(kind, name)
	if getErr != nil || !ok {
		return nil, err
	}
	debug.Log("diskcache: serving %s/%s snapshot from %s after fetch failure: %v",
		kind, name, at.Format("2006-01-02 15:04"), err)
	return snap, nil
}

// snapshotKey splits a data-tree path into a (kind, name) snapshot key,
// e.g. "data/papers/2025-01-02.json" becomes ("papers", "2025-01-02.json").
func snapshotKey(relPath string) (string, string) {
	if i := strings.IndexByte(relPath, '?'); i >= 0 {
		relPath = relPath[:i]
	}
	relPath = strings.TrimPrefix(relPath, "data/")
	if i := strings.IndexByte(relPath, '/'); i >= 0 {
		return relPath[:i], relPath[i+1:]
	}
	return "index", relPath
}
