// Package scenario runs browser test scenarios through an explicit lifecycle:
// a session is opened, interactions happen, assertions are checked, and the
// session is closed exactly once no matter how the run ends.
package scenario

import (
	"context"
	"fmt"

	"github.com/xkilldash9x/uitest-cli/internal/driver"
	"github.com/xkilldash9x/uitest-cli/internal/locator"
	"github.com/xkilldash9x/uitest-cli/internal/wait"
	"go.uber.org/zap"
)

// State tracks where an execution is in its lifecycle. Transitions only move
// forward; Closed is terminal.
type State int

const (
	StateUninitialized State = iota
	StateSessionOpen
	StateInteracting
	StateAsserting
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateSessionOpen:
		return "session_open"
	case StateInteracting:
		return "interacting"
	case StateAsserting:
		return "asserting"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Scenario is a named test body. The body receives a live Execution and
// reports failure through its returned error; the runner owns session setup,
// teardown and artifact capture.
type Scenario struct {
	Name string
	Run  func(ctx context.Context, ex *Execution) error
}

// Execution is the live context a scenario body runs against. All page access
// goes through it so the lifecycle state stays accurate.
type Execution struct {
	sess   driver.Session
	policy wait.Policy
	logger *zap.Logger
	state  State
}

// newExecution wraps an open session.
func newExecution(sess driver.Session, policy wait.Policy, logger *zap.Logger) *Execution {
	return &Execution{
		sess:   sess,
		policy: policy,
		logger: logger,
		state:  StateSessionOpen,
	}
}

// State returns the execution's current lifecycle state.
func (ex *Execution) State() State { return ex.state }

// Session exposes the underlying session for operations the helpers do not
// cover. Callers going through it directly bypass state tracking.
func (ex *Execution) Session() driver.Session { return ex.sess }

// Policy returns the wait policy this execution synchronizes with.
func (ex *Execution) Policy() wait.Policy { return ex.policy }

// advance moves the lifecycle forward to at least s. Moving backward out of
// Asserting is allowed (assert, interact more, assert again); leaving Closed
// is not.
func (ex *Execution) advance(s State) error {
	if ex.state == StateClosed {
		return fmt.Errorf("execution already closed (attempted %s)", s)
	}
	ex.state = s
	return nil
}

// Navigate loads url in the session's tab.
func (ex *Execution) Navigate(ctx context.Context, url string) error {
	if err := ex.advance(StateInteracting); err != nil {
		return err
	}
	return ex.sess.Navigate(ctx, url)
}

// SendKeys types text into the element matching loc.
func (ex *Execution) SendKeys(ctx context.Context, loc locator.Locator, text string) error {
	if err := ex.advance(StateInteracting); err != nil {
		return err
	}
	return ex.sess.SendKeys(ctx, loc, text)
}

// Submit submits the form owning the element matching loc.
func (ex *Execution) Submit(ctx context.Context, loc locator.Locator) error {
	if err := ex.advance(StateInteracting); err != nil {
		return err
	}
	return ex.sess.Submit(ctx, loc)
}

// Perform runs a composed action sequence.
func (ex *Execution) Perform(ctx context.Context, seq driver.ActionSequence) error {
	if err := ex.advance(StateInteracting); err != nil {
		return err
	}
	return ex.sess.Perform(ctx, seq)
}

// Await blocks until pred is satisfied, bounded by the execution's wait
// policy.
func (ex *Execution) Await(ctx context.Context, pred wait.Predicate) error {
	if err := ex.advance(StateInteracting); err != nil {
		return err
	}
	return ex.policy.Wait(ctx, pred)
}

// close marks the execution closed and releases the session. Idempotent; only
// the first call touches the session.
func (ex *Execution) close(ctx context.Context) error {
	if ex.state == StateClosed {
		return nil
	}
	ex.state = StateClosed
	return ex.sess.Close(ctx)
}
