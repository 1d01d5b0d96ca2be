// internal/driver/errors.go
package driver

import (
	"errors"
	"fmt"

	"github.com/xkilldash9x/uitest-cli/internal/locator"
)

// ErrElementNotFound marks a lookup that matched nothing at query time.
// Inside a wait predicate this is transient and retried; surfacing from a
// direct lookup it is fatal to the scenario.
var ErrElementNotFound = errors.New("element not found")

// ErrSessionClosed marks an operation attempted on a closed session.
var ErrSessionClosed = errors.New("session is closed")

// NotFoundError wraps ErrElementNotFound with the locator that failed.
type NotFoundError struct {
	Locator locator.Locator
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no element matching %s", e.Locator)
}

func (e *NotFoundError) Unwrap() error { return ErrElementNotFound }

// SessionError marks the underlying browser or session as unusable. It is
// always fatal to the scenario that hits it.
type SessionError struct {
	SessionID string
	Op        string
	Err       error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("session %s: %s: %v", e.SessionID, e.Op, e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }
