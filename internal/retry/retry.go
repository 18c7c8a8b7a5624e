// Package retry retries gateway calls that fail with transient errors,
// using exponential backoff.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"net"
	"syscall"
	"time"

	"github.com/spetersoncode/delve"
)

// Config holds retry configuration parameters.
type Config struct {
	// MaxAttempts is the maximum number of attempts.
	// The initial request counts as attempt 1.
	MaxAttempts int

	// InitialDelay is the base delay before the first retry.
	InitialDelay time.Duration

	// MaxDelay is the maximum delay between retries.
	MaxDelay time.Duration

	// Multiplier is the exponential backoff multiplier.
	Multiplier float64

	// Jitter adds randomness to the delay.
	// Delay is multiplied by (1 + random(-jitter, +jitter)).
	Jitter float64
}

// DefaultConfig returns a backoff of 1s doubling up to 60s with 10% jitter
// and the given number of attempts.
func DefaultConfig(attempts int) Config {
	return Config{
		MaxAttempts:  attempts,
		InitialDelay: 1 * time.Second,
		MaxDelay:     60 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.1,
	}
}

// Disabled returns a configuration that makes a single attempt.
func Disabled() Config {
	return Config{MaxAttempts: 1}
}

// Delay calculates the delay for a given attempt number (0-indexed).
// Formula: min(maxDelay, initialDelay * multiplier^attempt) * (1 + jitter)
func (c Config) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	delay := float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(attempt))
	if delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}

	if c.Jitter > 0 {
		jitterFactor := 1.0 + (rand.Float64()*2-1)*c.Jitter
		delay *= jitterFactor
	}

	return time.Duration(delay)
}

// RetryFunc is called before sleeping between attempts.
type RetryFunc func(attempt int, delay time.Duration, err error)

// Do calls fn until it succeeds, returns a non-transient error, or the
// attempts run out. A server Retry-After longer than the backoff wins.
// It respects context cancellation during backoff waits.
func Do[T any](ctx context.Context, cfg Config, onRetry RetryFunc, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	attempts := max(cfg.MaxAttempts, 1)
	for attempt := 0; attempt < attempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !IsTransient(err) || attempt == attempts-1 {
			break
		}

		delay := effectiveDelay(cfg.Delay(attempt), err)
		if onRetry != nil {
			onRetry(attempt+1, delay, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	return zero, lastErr
}

// effectiveDelay returns the delay to use, honoring server's Retry-After if larger.
func effectiveDelay(configured time.Duration, err error) time.Duration {
	var ce delve.CategorizedError
	if errors.As(err, &ce) && ce.RetryAfter() > configured {
		return ce.RetryAfter()
	}
	return configured
}

// IsTransient reports whether err is worth retrying. Categorized errors
// decide for themselves; otherwise network timeouts and connection resets
// count as transient. Context errors never do.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var ce delve.CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == delve.ErrorTransient
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.Temporary()
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNRESET, syscall.ECONNREFUSED, syscall.ETIMEDOUT:
			return true
		}
	}
	return false
}
