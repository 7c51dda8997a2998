package base

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/coachpo/teamcowboy/errs"
)

// Retry re-runs op while it fails with a transport error, up to maxTries
// attempts with exponential backoff. Each attempt is signed afresh by op.
func Retry[T any](ctx context.Context, maxTries uint, op func() (T, error)) (T, error) {
	backoffCfg := backoff.NewExponentialBackOff()
	backoffCfg.InitialInterval = 250 * time.Millisecond
	backoffCfg.MaxInterval = 5 * time.Second

	var attempt uint
	for {
		value, err := op()
		attempt++
		if err == nil || !errs.IsCode(err, errs.CodeTransport) || attempt >= maxTries {
			return value, err
		}
		sleep := backoffCfg.NextBackOff()
		if sleep == backoff.Stop {
			return value, err
		}
		select {
		case <-ctx.Done():
			return value, errors.Join(err, ctx.Err())
		case <-time.After(sleep):
		}
	}
}
