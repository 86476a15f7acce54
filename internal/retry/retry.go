package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy controls how many times an operation is attempted and how long to
// wait between attempts.
type Policy struct {
	Attempts int
	Delay    time.Duration
	Backoff  bool // linear backoff: attempt N waits N * Delay
}

// Do runs fn until it succeeds, attempts are exhausted, or the context is
// canceled.
func Do(ctx context.Context, p Policy, fn func() error) error {
	if p.Attempts <= 0 {
		p.Attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= p.Attempts; attempt++ {
		if err := fn(); err != nil {
			lastErr = err

			if attempt == p.Attempts {
				return fmt.Errorf("failed after %d attempts: %w", p.Attempts, err)
			}

			delay := p.Delay
			if p.Backoff {
				delay = time.Duration(attempt) * p.Delay
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				continue
			}
		}
		return nil
	}

	return lastErr
}
