package resilience

import (
	"context"
	"errors"
	"time"
)

// Retry calls fn until it succeeds, cfg.Attempts retries are spent, ctx is
// done, or fn returns an error for which retryable reports false. The wait
// between calls doubles after each failure. A nil retryable retries every
// error except ErrCircuitOpen.
func Retry(ctx context.Context, cfg RetryConfig, retryable func(error) bool, fn func(context.Context) error) error {
	if retryable == nil {
		retryable = func(err error) bool { return !errors.Is(err, ErrCircuitOpen) }
	}

	wait := cfg.Backoff
	var err error
	for attempt := 0; ; attempt++ {
		err = fn(ctx)
		if err == nil || attempt >= cfg.Attempts || !retryable(err) {
			return err
		}

		if wait <= 0 {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return err
			}
			continue
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
		wait *= 2
	}
}
