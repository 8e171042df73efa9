// Package retry repeats an operation with backoff until it succeeds, fails
// permanently, or the context ends.
package retry

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

const defaultDelay = 100 * time.Millisecond

// Backoff returns the wait before the next attempt. attempt starts at 1.
type Backoff func(attempt int) time.Duration

// ShouldRetry decides whether an error is worth another attempt.
type ShouldRetry func(error) bool

// Config controls DoWithResult.
type Config struct {
	MaxAttempts int
	Backoff     Backoff
	ShouldRetry ShouldRetry
	// OnRetry, when set, is called before waiting for the next attempt.
	OnRetry func(attempt int, wait time.Duration, err error)
}

func (c *Config) normalize() {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 1
	}
	if c.Backoff == nil {
		c.Backoff = ExponentialBackoff(defaultDelay)
	}
	if c.ShouldRetry == nil {
		c.ShouldRetry = alwaysRetry
	}
}

func alwaysRetry(error) bool { return true }

// ExponentialBackoff doubles delay per attempt and adds up to half of it as jitter.
func ExponentialBackoff(delay time.Duration) Backoff {
	if delay <= 0 {
		delay = defaultDelay
	}
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		base := delay << (attempt - 1)
		half := int64(base / 2)
		if half <= 0 {
			return base
		}
		return base + time.Duration(rand.Int63n(half)+1)
	}
}

// DoWithResult runs fn until it succeeds or the retry budget is spent. The
// last error is returned when every attempt fails.
func DoWithResult[T any](ctx context.Context, c Config, fn func(attempt int) (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	c.normalize()

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for attempt := 1; ; attempt++ {
		result, err := fn(attempt)
		if err == nil {
			return result, nil
		}
		if attempt >= c.MaxAttempts || !c.ShouldRetry(err) {
			return zero, err
		}

		wait := c.Backoff(attempt)
		if c.OnRetry != nil {
			c.OnRetry(attempt, wait, err)
		}
		if timer == nil {
			timer = time.NewTimer(wait)
		} else {
			timer.Reset(wait)
		}
		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("%w: %w", ctx.Err(), err)
		case <-timer.C:
		}
	}
}
