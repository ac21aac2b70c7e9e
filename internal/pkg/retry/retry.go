// Package retry provides a bounded retry combinator with exponential backoff
// and additive jitter for transient infrastructure failures.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"
)

// Policy defines retry behavior for a fallible operation.
type Policy struct {
	MaxAttempts int           // total attempts, including the first
	BaseDelay   time.Duration // delay before the second attempt; doubles each attempt
	MaxDelay    time.Duration // cap on the computed delay
	Jitter      time.Duration // random extra delay in [0, Jitter) per attempt
}

// DefaultPolicy returns the canonical pipeline policy: 3 attempts,
// 500ms base doubling per attempt, up to 200ms of jitter.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    8 * time.Second,
		Jitter:      200 * time.Millisecond,
	}
}

// Do executes fn until it succeeds, the policy's attempts are exhausted, or
// ctx is cancelled. The delay before attempt k+1 is BaseDelay*2^(k-1) capped
// at MaxDelay, plus random jitter so concurrent invocations do not retry in
// lockstep.
func Do(ctx context.Context, p Policy, operation string, fn func(ctx context.Context) error) error {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := fn(ctx); err == nil {
			if attempt > 1 {
				slog.Info("operation succeeded after retry",
					"operation", operation,
					"attempt", attempt,
				)
			}
			return nil
		} else {
			lastErr = err
		}

		if attempt == p.MaxAttempts {
			break
		}

		delay := Delay(p, attempt)
		slog.Warn("operation failed, retrying",
			"operation", operation,
			"attempt", attempt,
			"max_attempts", p.MaxAttempts,
			"backoff", delay,
			"err", lastErr,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	slog.Error("operation failed after exhausting retries",
		"operation", operation,
		"attempts", p.MaxAttempts,
		"err", lastErr,
	)
	return fmt.Errorf("%s: %d attempts: %w", operation, p.MaxAttempts, lastErr)
}

// Delay computes the backoff before attempt+1: BaseDelay doubled per
// completed attempt, capped at MaxDelay, plus jitter in [0, Jitter).
func Delay(p Policy, attempt int) time.Duration {
	delay := p.BaseDelay << (attempt - 1)
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	if p.Jitter > 0 {
		delay += time.Duration(rand.Int63n(int64(p.Jitter)))
	}
	return delay
}
