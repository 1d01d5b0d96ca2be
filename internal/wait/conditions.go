// internal/wait/conditions.go
package wait

import (
	"context"
	"fmt"

	"github.com/xkilldash9x/uitest-cli/internal/driver"
	"github.com/xkilldash9x/uitest-cli/internal/locator"
)

// ElementPresent is satisfied once at least one element matches loc.
func ElementPresent(s driver.Session, loc locator.Locator) Predicate {
	return func(ctx context.Context) error {
		// Find's not-found error is the transient signal here.
		_, err := s.Find(ctx, loc)
		return err
	}
}

// ElementVisible is satisfied once an element matching loc exists and is
// rendered. Use this before interacting with inputs that appear after load.
func ElementVisible(s driver.Session, loc locator.Locator) Predicate {
	return func(ctx context.Context) error {
		el, err := s.Find(ctx, loc)
		if err != nil {
			return err
		}
		visible, err := el.Visible(ctx)
		if err != nil {
			return err
		}
		if !visible {
			return fmt.Errorf("element %s present but not visible: %w", loc, ErrNotReady)
		}
		return nil
	}
}

// ElementAbsent is satisfied once no element matches loc. It queries the
// collection form, so zero matches is an ordinary observation, not an error.
func ElementAbsent(s driver.Session, loc locator.Locator) Predicate {
	return func(ctx context.Context) error {
		els, err := s.FindAll(ctx, loc)
		if err != nil {
			return err
		}
		if len(els) > 0 {
			return fmt.Errorf("%d element(s) still match %s: %w", len(els), loc, ErrNotReady)
		}
		return nil
	}
}

// TextEquals is satisfied once the first element matching loc reads exactly
// want.
func TextEquals(s driver.Session, loc locator.Locator, want string) Predicate {
	return func(ctx context.Context) error {
		got, err := s.Text(ctx, loc)
		if err != nil {
			return err
		}
		if got != want {
			return fmt.Errorf("element %s reads %q, want %q: %w", loc, got, want, ErrNotReady)
		}
		return nil
	}
}
