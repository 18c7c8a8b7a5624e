package client

import (
	"github.com/spetersoncode/delve/internal/retry"
)

// RetryConfig holds retry configuration parameters.
type RetryConfig = retry.Config

// DefaultRetryConfig returns exponential backoff with the given number of
// attempts:
//   - 1 second initial delay
//   - 60 second max delay
//   - 2x exponential multiplier
//   - 10% jitter
func DefaultRetryConfig(attempts int) RetryConfig {
	return retry.DefaultConfig(attempts)
}

// DisabledRetryConfig returns a configuration that disables retries (single attempt).
func DisabledRetryConfig() RetryConfig {
	return retry.Disabled()
}

// IsTransientError determines if an error is transient and should be retried.
// It checks categorized provider errors, network timeouts, and connection resets.
func IsTransientError(err error) bool {
	return retry.IsTransient(err)
}
