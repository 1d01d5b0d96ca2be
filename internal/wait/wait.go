// internal/wait/wait.go
package wait

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xkilldash9x/uitest-cli/internal/driver"
)

const (
	// DefaultTimeout bounds a wait when the caller does not say otherwise.
	DefaultTimeout = 10 * time.Second
	// DefaultInterval is the pause between predicate evaluations.
	DefaultInterval = 250 * time.Millisecond
)

// ErrNotReady marks a predicate evaluation as "not yet satisfied". Predicates
// wrap it (or driver.ErrElementNotFound) to request another poll; any other
// error is treated as fatal and propagated immediately.
var ErrNotReady = errors.New("condition not yet satisfied")

// ErrTimeout is matched by errors.Is against *TimeoutError.
var ErrTimeout = errors.New("wait timed out")

// Predicate is one observation of page state. A nil return satisfies the
// wait. Predicates should be cheap and side-effect free beyond the queries
// they issue.
type Predicate func(ctx context.Context) error

// TimeoutError reports an exhausted wait, carrying the last error the
// predicate produced so failures explain *what* never became true.
type TimeoutError struct {
	Timeout time.Duration
	Last    error
}

func (e *TimeoutError) Error() string {
	if e.Last != nil {
		return fmt.Sprintf("wait timed out after %s: %v", e.Timeout, e.Last)
	}
	return fmt.Sprintf("wait timed out after %s", e.Timeout)
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// Policy is a bounded, explicit wait: poll the predicate every Interval until
// it is satisfied or Timeout elapses. This is the only wait discipline in the
// repo; there is deliberately no session-wide implicit fallback to stack on
// top of it.
type Policy struct {
	Timeout  time.Duration
	Interval time.Duration
}

// DefaultPolicy returns the stock 10s/250ms policy.
func DefaultPolicy() Policy {
	return Policy{Timeout: DefaultTimeout, Interval: DefaultInterval}
}

// Wait evaluates pred immediately and then once per interval. A predicate
// that becomes satisfiable at time t is therefore detected within t plus one
// interval. Transient errors (ErrNotReady, driver.ErrElementNotFound) are
// swallowed and retried; anything else aborts the wait at once. Exhaustion
// returns a *TimeoutError; cancellation of the caller's context returns the
// context's error.
func (p Policy) Wait(ctx context.Context, pred Predicate) error {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	if interval > timeout {
		interval = timeout
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last error
	for {
		err := pred(ctx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !transient(err) {
			return err
		}
		last = err

		select {
		case <-ticker.C:
		case <-deadline.C:
			return &TimeoutError{Timeout: timeout, Last: last}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// transient reports whether the error means "poll again" rather than "give up".
func transient(err error) bool {
	return errors.Is(err, ErrNotReady) || errors.Is(err, driver.ErrElementNotFound)
}
