// Package retry is the bounded-retry combinator shared by every call into
// the document store, the mail transport and the HTTP gateway. Failures
// are dominated by a single cold-start event rather than load, so the
// inter-attempt delay is fixed — no exponential growth.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrUnreachable is surfaced after the attempt budget is exhausted. It is
// distinguishable from invalid-code/unauthorized outcomes so callers can
// say "try again later" instead of "wrong code".
var ErrUnreachable = errors.New("service unreachable")

type Config struct {
	Attempts int           // total attempts, not retries
	Delay    time.Duration // fixed pause between failed attempts
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks an error as not worth retrying. Application-level
// outcomes (invalid code, unauthorized, payload too large) go through
// here: retrying cannot change them and would waste the fixed budget.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do runs op up to cfg.Attempts times, pausing cfg.Delay between failed
// attempts. Attempts are strictly sequential: a failed attempt fully
// resolves, delay included, before the next one starts. An error wrapped
// with Permanent propagates immediately without consuming the budget;
// anything else exhausting the budget comes back wrapped in ErrUnreachable.
func Do(ctx context.Context, cfg Config, op func() error) error {
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	var terminal error
	wrapped := func() error {
		err := op()
		if err == nil {
			return nil
		}
		var pe *permanentError
		if errors.As(err, &pe) {
			terminal = pe.err
			return backoff.Permanent(err)
		}
		return err
	}
	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(cfg.Delay), uint64(cfg.Attempts-1)),
		ctx,
	)
	err := backoff.Retry(wrapped, b)
	if err == nil {
		return nil
	}
	if terminal != nil {
		return terminal
	}
	return fmt.Errorf("%w after %d attempts: %v", ErrUnreachable, cfg.Attempts, err)
}
