package github

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// RetryStrategy defines the retry behavior for GitHub API read operations.
// Mutations are never retried by this layer; a failed mutation fails the run.
type RetryStrategy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Jitter       bool
}

// DefaultRetryStrategy returns a default retry strategy
func DefaultRetryStrategy() RetryStrategy {
	return RetryStrategy{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
	}
}

// RateLimitRetryStrategy returns a retry strategy optimized for rate limits
func RateLimitRetryStrategy() RetryStrategy {
	return RetryStrategy{
		MaxAttempts:  5,
		InitialDelay: 5 * time.Second,
		MaxDelay:     5 * time.Minute,
		Multiplier:   2.0,
		Jitter:       false, // Use exact retry-after values when available
	}
}

// GetStrategyForError returns the retry strategy appropriate for the error type.
// Rate limits wait on a slower schedule; everything else uses the default.
func GetStrategyForError(err error) RetryStrategy {
	if IsRateLimitError(err) {
		return RateLimitRetryStrategy()
	}
	return DefaultRetryStrategy()
}

// GetRetryDelay calculates the delay for a given attempt
func (rs *RetryStrategy) GetRetryDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	delay := float64(rs.InitialDelay) * math.Pow(rs.Multiplier, float64(attempt-1))

	if delay > float64(rs.MaxDelay) {
		delay = float64(rs.MaxDelay)
	}

	if rs.Jitter && delay > 0 {
		// Add up to 25% jitter
		jitter := rand.Float64() * 0.25 * delay
		delay += jitter
	}

	return time.Duration(delay)
}

// ShouldRetry determines if an operation should be retried based on the error
func (rs *RetryStrategy) ShouldRetry(err error, attempt int) bool {
	if err == nil || attempt >= rs.MaxAttempts {
		return false
	}

	ghErr, ok := err.(*GitHubError)
	if !ok {
		return false
	}

	return ghErr.IsRetryable()
}

// RetryWithStrategy executes a read operation with retry logic
func RetryWithStrategy(ctx context.Context, strategy RetryStrategy, operation func() error) error {
	var lastErr error

	for attempt := 1; attempt <= strategy.MaxAttempts; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err

		if !strategy.ShouldRetry(err, attempt) {
			return err
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if attempt < strategy.MaxAttempts {
			delay := strategy.GetRetryDelay(attempt)

			// If error has specific retry-after, use it; otherwise rate limits
			// fall back to the rate-limit schedule
			if ghErr, ok := err.(*GitHubError); ok {
				if ghErr.RetryAfter > 0 {
					delay = ghErr.RetryAfter
				} else if ghErr.Type == ErrorTypeRateLimit {
					rlStrategy := GetStrategyForError(err)
					delay = rlStrategy.GetRetryDelay(attempt)
				}
			}

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return lastErr
}
