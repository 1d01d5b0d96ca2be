// internal/driver/driver.go
package driver

import (
	"context"

	"github.com/xkilldash9x/uitest-cli/internal/locator"
)

// Driver manages the browser process and hands out isolated sessions.
// Scenarios never share a session; each one asks the driver for its own.
type Driver interface {
	// NewSession opens a fresh, isolated browsing session (a tab).
	NewSession(ctx context.Context) (Session, error)
	// Shutdown waits for open sessions to close and terminates the browser.
	Shutdown(ctx context.Context) error
}

// Session is the session-oriented automation boundary. Everything above this
// interface is driver-agnostic; everything below it belongs to the
// implementation (chromedp in this repo).
//
// Find returns ErrElementNotFound when no element matches *right now*; it
// never polls. Callers that need to tolerate slow pages wrap lookups in an
// explicit wait.Policy instead. FindAll is the absence-safe variant: zero
// matches yield an empty slice and a nil error.
type Session interface {
	// ID returns the unique identifier of this session.
	ID() string

	// Navigate loads the target URL and waits for the load event.
	Navigate(ctx context.Context, url string) error

	// Find resolves a single element. Absence is an ErrElementNotFound error.
	Find(ctx context.Context, loc locator.Locator) (Element, error)

	// FindAll resolves every matching element; an empty result is not an error.
	FindAll(ctx context.Context, loc locator.Locator) ([]Element, error)

	// Text reads the visible text of the first element matching loc.
	Text(ctx context.Context, loc locator.Locator) (string, error)

	// SendKeys types text into the element matching loc.
	SendKeys(ctx context.Context, loc locator.Locator, text string) error

	// Submit submits the form owning the element matching loc.
	Submit(ctx context.Context, loc locator.Locator) error

	// Perform executes a composed pointer/keyboard action sequence.
	Perform(ctx context.Context, seq ActionSequence) error

	// Screenshot captures the current page render as PNG bytes.
	Screenshot(ctx context.Context) ([]byte, error)

	// Close releases the session. It is safe to call more than once; only the
	// first call does work.
	Close(ctx context.Context) error
}

// Element is a resolved handle to a page element. Handles can go stale when
// the DOM changes after resolution; operations on a stale handle re-resolve
// from the element's locator, so the locator remains the source of truth.
type Element interface {
	// Locator returns the locator this element was resolved from.
	Locator() locator.Locator
	// Text reads the element's visible text.
	Text(ctx context.Context) (string, error)
	// Visible reports whether the element is currently rendered.
	Visible(ctx context.Context) (bool, error)
	// SendKeys types text into the element.
	SendKeys(ctx context.Context, text string) error
	// Click clicks the element.
	Click(ctx context.Context) error
	// Submit submits the form owning the element.
	Submit(ctx context.Context) error
}
