package retry

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// Policy bounds repeated attempts of an outbound call: a fixed attempt count
// with exponential backoff between attempts. The zero value performs a single
// attempt with no backoff.
type Policy struct {
	Attempts  int
	BaseDelay time.Duration
}

// Do runs fn under the policy. Every error is treated as retryable until the
// attempt budget is spent; the last error is returned.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	if attempts == 1 {
		return fn(ctx)
	}

	delay := p.BaseDelay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}

	backoff := retry.WithMaxRetries(uint64(attempts-1), retry.NewExponential(delay))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}
