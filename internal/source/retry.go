package source

import (
	"context"
	"errors"
	"time"
)

// retryBackoff is the fixed delay between attempts. The artifacts are tiny
// static files; one short pause covers the transient failures worth
// retrying.
const retryBackoff = 500 * time.Millisecond

// RetrySource retries transport failures. Absence (ErrNotFound) is a
// definitive answer and is never retried.
type RetrySource struct {
	inner   Source
	retries int
}

// WithRetries wraps src so that each fetch is attempted up to 1+retries
// times. With retries <= 0 the source is returned unchanged.
func WithRetries(src Source, retries int) Source {
	if retries <= 0 {
		return src
	}
	return &RetrySource{inner: src, retries: retries}
}

// Fetch implements Source.
func (s *RetrySource) Fetch(ctx context.Context, relPath string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= s.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryBackoff):
			}
		}

		body, err := s.inner.Fetch(ctx, relPath)
		if err == nil {
			return body, nil
		}
		if errors.Is(err, ErrNotFound) || ctx.Err() != nil {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}
