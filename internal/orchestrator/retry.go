package orchestrator

import (
	"context"
	"time"

	"emperror.dev/errors"
	"github.com/cenkalti/backoff/v4"

	"github.com/mcobservatory/observatory/internal/probe"
)

// retryTransient retries a single probe attempt once, after a short
// constant delay, when the failure is a connect timeout — the class of
// failure most likely to be transient (a momentarily saturated accept
// queue) rather than a genuinely down server. Any other error, or a
// second failure, is returned as-is. Replaces a hand-rolled
// time.After retry loop with github.com/cenkalti/backoff/v4, per the
// fan-out's retry policy.
func retryTransient(ctx context.Context, attempt func() (probe.Result, error)) (probe.Result, error) {
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(150*time.Millisecond), 1), ctx)

	var result probe.Result
	op := func() error {
		var err error
		result, err = attempt()
		if err != nil && errors.Is(err, probe.ErrConnectTimeout) {
			return err
		}
		if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}

	if err := backoff.Retry(op, policy); err != nil {
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			return result, perm.Unwrap()
		}
		return result, err
	}
	return result, nil
}
