package connectors

import (
	"context"
	"math"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// RetryConfig bounds transient-failure retries on real adapters.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig suits authenticated job-board APIs: three attempts with
// exponential backoff capped at ten seconds.
var DefaultRetryConfig = RetryConfig{
	MaxAttempts: 3,
	InitialWait: 500 * time.Millisecond,
	MaxWait:     10 * time.Second,
	Multiplier:  2.0,
}

// retryDo runs fn up to MaxAttempts times, backing off between attempts.
// Only retryable errors (as judged by shouldRetry) are retried; context
// cancellation aborts immediately.
func retryDo[T any](ctx context.Context, rc RetryConfig, log *zap.Logger, fn func() (T, error), shouldRetry func(error) bool) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt < rc.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !shouldRetry(err) {
			return zero, err
		}

		if attempt < rc.MaxAttempts-1 {
			wait := time.Duration(float64(rc.InitialWait) * math.Pow(rc.Multiplier, float64(attempt)))
			if wait > rc.MaxWait {
				wait = rc.MaxWait
			}
			log.Debug("retrying fetch",
				zap.Int("attempt", attempt+1),
				zap.Duration("wait", wait),
				zap.Error(err))
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}
	}
	return zero, lastErr
}

// retryableStatus reports whether an HTTP status is worth retrying.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
