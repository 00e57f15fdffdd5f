// Package retry repeats a failed gateway call with exponential backoff.
// Whether a failure is worth repeating is decided by IsRetryable.
package retry

import (
	"math"
	"time"
)

// DefaultRetries is the number of retries after the first attempt.
const DefaultRetries = 2

// Config sets how often and how patiently a call is repeated.
type Config struct {
	// MaxAttempts counts the first call. Values below 1 mean a single call.
	MaxAttempts int

	// InitialDelay is the wait before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps any single wait. Zero means no cap.
	MaxDelay time.Duration

	// Multiplier grows the wait after each retry. Zero means 2.
	Multiplier float64
}

// DefaultConfig allows 2 retries, waiting 1s then 2s.
func DefaultConfig() Config {
	return WithRetries(DefaultRetries, time.Second)
}

// WithRetries allows retries extra attempts, waiting base * 2^(n-1) before
// the n-th retry, capped at 30s.
func WithRetries(retries int, base time.Duration) Config {
	if retries < 0 {
		retries = 0
	}
	return Config{
		MaxAttempts:  retries + 1,
		InitialDelay: base,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// Disabled makes exactly one attempt.
func Disabled() Config {
	return Config{MaxAttempts: 1}
}

// Delay returns the wait after the given failed attempt (0-indexed):
// min(MaxDelay, InitialDelay * Multiplier^attempt).
func (c Config) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	multiplier := c.Multiplier
	if multiplier <= 0 {
		multiplier = 2.0
	}

	delay := float64(c.InitialDelay) * math.Pow(multiplier, float64(attempt))
	if c.MaxDelay > 0 && delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}
	return time.Duration(delay)
}
