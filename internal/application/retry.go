package application

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const defaultRetryInterval = 100 * time.Millisecond

// retry runs op up to attempts times with exponential backoff starting at
// interval. Errors wrapped with backoff.Permanent stop immediately.
func retry(ctx context.Context, attempts uint, interval time.Duration, op func() error) error {
	if attempts == 0 {
		attempts = 1
	}
	if interval <= 0 {
		interval = defaultRetryInterval
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = interval
	b.MaxInterval = 20 * interval
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, op()
	}, backoff.WithBackOff(b), backoff.WithMaxTries(attempts))
	return err
}
