// Package retry runs an operation on a fixed backoff schedule.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Attempt describes one attempt for observers.
type Attempt struct {
	Number int           // 1-based
	Delay  time.Duration // delay waited before this attempt (0 for the first)
	Err    error         // nil on success
}

// Policy is a bounded retry schedule. Delays are waited before attempts
// 2..N and must grow strictly, so the pressure on a struggling backend
// eases with every retry.
type Policy struct {
	MaxAttempts int
	Delays      []time.Duration
}

// Default returns the standard schedule: three attempts with 1s, 2s
// waits between them (a third delay is kept for callers that raise
// MaxAttempts).
func Default() Policy {
	return Policy{
		MaxAttempts: 3,
		Delays:      []time.Duration{time.Second, 2 * time.Second, 4 * time.Second},
	}
}

// Validate reports whether the schedule is usable.
func (p Policy) Validate() error {
	if p.MaxAttempts < 1 {
		return fmt.Errorf("retry: max attempts must be at least 1, got %d", p.MaxAttempts)
	}
	if len(p.Delays) < p.MaxAttempts-1 {
		return fmt.Errorf("retry: %d attempts need %d delays, got %d", p.MaxAttempts, p.MaxAttempts-1, len(p.Delays))
	}
	for i := 1; i < len(p.Delays); i++ {
		if p.Delays[i] <= p.Delays[i-1] {
			return fmt.Errorf("retry: delays must strictly increase, got %v", p.Delays)
		}
	}
	return nil
}

// delayBefore returns the wait preceding the given 1-based attempt.
func (p Policy) delayBefore(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}
	return p.Delays[attempt-2]
}

// Do runs fn until it succeeds or the schedule is exhausted. The observer,
// if non-nil, sees every attempt including the final one. The last error is
// returned when all attempts fail; a context cancellation during a wait cuts
// the schedule short.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error, observe func(Attempt)) error {
	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		delay := p.delayBefore(attempt)
		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		lastErr = fn(ctx)
		if observe != nil {
			observe(Attempt{Number: attempt, Delay: delay, Err: lastErr})
		}
		if lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("all %d attempts failed: %w", p.MaxAttempts, lastErr)
}
