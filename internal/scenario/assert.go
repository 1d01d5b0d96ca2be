// internal/scenario/assert.go
package scenario

import (
	"context"
	"fmt"

	"github.com/xkilldash9x/uitest-cli/internal/locator"
)

// AssertionError marks a scenario outcome as a failed expectation, as opposed
// to an infrastructure or timing error. The runner classifies results on it.
type AssertionError struct {
	Message string
}

func (e *AssertionError) Error() string { return "assertion failed: " + e.Message }

// Assertf builds an AssertionError with a formatted message.
func Assertf(format string, args ...any) error {
	return &AssertionError{Message: fmt.Sprintf(format, args...)}
}

// AssertTextEquals checks that the first element matching loc reads exactly
// want. The read is immediate; synchronize with Await first when the text
// appears asynchronously.
func (ex *Execution) AssertTextEquals(ctx context.Context, loc locator.Locator, want string) error {
	if err := ex.advance(StateAsserting); err != nil {
		return err
	}
	got, err := ex.sess.Text(ctx, loc)
	if err != nil {
		return err
	}
	if got != want {
		return Assertf("element %s reads %q, want %q", loc, got, want)
	}
	return nil
}

// AssertAbsent checks that no element matches loc right now. It queries the
// collection form, so absence is an observation rather than a recovered
// lookup error.
func (ex *Execution) AssertAbsent(ctx context.Context, loc locator.Locator) error {
	if err := ex.advance(StateAsserting); err != nil {
		return err
	}
	els, err := ex.sess.FindAll(ctx, loc)
	if err != nil {
		return err
	}
	if len(els) > 0 {
		return Assertf("%d element(s) match %s, want none", len(els), loc)
	}
	return nil
}

// AssertPresent checks that at least one element matches loc right now.
func (ex *Execution) AssertPresent(ctx context.Context, loc locator.Locator) error {
	if err := ex.advance(StateAsserting); err != nil {
		return err
	}
	els, err := ex.sess.FindAll(ctx, loc)
	if err != nil {
		return err
	}
	if len(els) == 0 {
		return Assertf("no element matches %s, want at least one", loc)
	}
	return nil
}
