package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
)

// RetryPolicy bounds the exponential backoff applied to node calls and block units.
type RetryPolicy struct {
	Initial    time.Duration
	Max        time.Duration
	MaxRetries uint64
}

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Initial: defaultRetryInitial, Max: defaultRetryMax, MaxRetries: defaultRetries}
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.Initial
	exp.MaxInterval = p.Max
	exp.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(exp, p.MaxRetries), ctx)
}

// retry runs op until it succeeds, fails permanently or the policy is exhausted.
// Ledger consistency failures and cancellation are never retried.
func retry[T any](ctx context.Context, p RetryPolicy, op func() (T, error), notify func(err error, next time.Duration)) (T, error) {
	operation := func() (T, error) {
		v, err := op()
		if err != nil && !retryable(ctx, err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}
	return backoff.RetryNotifyWithData(operation, p.backOff(ctx), notify)
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return false
	}
	return !model.IsFatal(err)
}
