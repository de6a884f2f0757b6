package ports

import "context"

// AttemptLimiter throttles repeated failed logins per account key. Backed by
// Redis in production; a nil limiter disables throttling.
type AttemptLimiter interface {
	// Allow reports whether another attempt is permitted for the key.
	Allow(ctx context.Context, key string) (bool, error)

	// RecordFailure counts a failed attempt against the key.
	RecordFailure(ctx context.Context, key string) error

	// Reset clears the counter after a successful login.
	Reset(ctx context.Context, key string) error
}
