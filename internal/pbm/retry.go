package pbm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// retryPolicy retries pbm commands that fail because another pbm operation
// holds the cluster lock, with exponential backoff.
type retryPolicy struct {
	attempts int
	base     time.Duration
}

var defaultRetry = retryPolicy{attempts: 5, base: 100 * time.Millisecond}

func (p retryPolicy) do(ctx context.Context, opName string, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= p.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !isTransient(err) {
			return fmt.Errorf("%s failed permanently: %w", opName, err)
		}
		if attempt == p.attempts {
			break
		}

		t := time.NewTimer(p.base * (1 << (attempt - 1)))
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}

	return fmt.Errorf("%s failed after %d retries: %w", opName, p.attempts, lastErr)
}

var transientMarkers = []string{
	"another operation",
	"operation is running",
	"is in progress",
	"lock",
}

func isTransient(err error) bool {
	var pe *ProcessError
	if !errors.As(err, &pe) {
		return false
	}
	out := strings.ToLower(pe.Output())
	for _, m := range transientMarkers {
		if strings.Contains(out, m) {
			return true
		}
	}
	return false
}
