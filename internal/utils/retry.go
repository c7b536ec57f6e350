package utils

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"time"
)

// RetryConfig holds the configuration for the retry mechanism.
type RetryConfig struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffFactor   float64
	Timeout         time.Duration
	RetryableErrors []string
}

// RetryableFunc defines the signature for operations that can be retried.
type RetryableFunc[T any] func(ctx context.Context) (T, error)

// ConnectRetryConfig is tuned for reaching backing services at startup,
// when containers may still be coming up. Model calls are never retried.
func ConnectRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   5,
		InitialDelay:  500 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
		Timeout:       3 * time.Second,
		RetryableErrors: []string{
			"timeout",
			"deadline exceeded",
			"connection reset",
			"connection refused",
			"no such host",
			"eof",
			"loading", // Redis is loading the dataset in memory
		},
	}
}

// IsRetryableError checks if the given error is retryable based on defined patterns.
func IsRetryableError(err error, patterns []string) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	for _, pattern := range patterns {
		if strings.Contains(errMsg, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

// backoff returns the wait after the given failed attempt, with up to 10% jitter.
func (c RetryConfig) backoff(attempt int) time.Duration {
	delay := time.Duration(float64(c.InitialDelay) * math.Pow(c.BackoffFactor, float64(attempt-1)))
	if c.MaxDelay > 0 && delay > c.MaxDelay {
		delay = c.MaxDelay
	}
	if jitterRange := int64(delay) / 10; jitterRange > 0 {
		delay += time.Duration(rand.Int63n(jitterRange))
	}
	return delay
}

// WithRetry executes the given operation with retries based on the provided config.
func WithRetry[T any](ctx context.Context, operation RetryableFunc[T], config RetryConfig) (T, error) {
	var lastErr error
	var zero T

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, config.Timeout)
		result, err := operation(attemptCtx)
		cancel()

		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == config.MaxAttempts || !IsRetryableError(err, config.RetryableErrors) {
			break
		}

		select {
		case <-time.After(config.backoff(attempt)):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}

	return zero, lastErr
}

// Retry is WithRetry for operations without a result.
func Retry(ctx context.Context, operation func(ctx context.Context) error, config RetryConfig) error {
	_, err := WithRetry(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, operation(ctx)
	}, config)
	return err
}
