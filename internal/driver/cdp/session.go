// internal/driver/cdp/session.go
package cdp

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/uitest-cli/internal/driver"
	"github.com/xkilldash9x/uitest-cli/internal/locator"
)

// Ensure Session implements the boundary interface.
var _ driver.Session = (*Session)(nil)

// Session drives a single, isolated browser tab over CDP.
//
// Lookups are immediate: Find and FindAll observe the page as it is right
// now and never poll. Synchronization is the caller's job, via an explicit
// wait policy. This keeps exactly one wait discipline per session; there is
// no implicit per-lookup grace period to compound with explicit waits.
type Session struct {
	id     string
	logger *zap.Logger

	// tabCtx is the chromedp context owning the tab. All CDP operations run
	// against it, bounded by the caller's context via combineContext.
	tabCtx    context.Context
	tabCancel context.CancelFunc

	mu      sync.Mutex
	closed  bool
	onClose func()
}

// newSession attaches a new tab to the allocator context.
func newSession(allocCtx context.Context, logger *zap.Logger, onClose func()) *Session {
	id := uuid.New().String()
	tabCtx, cancel := chromedp.NewContext(allocCtx)

	return &Session{
		id:        id,
		logger:    logger.With(zap.String("session_id", id[:8])),
		tabCtx:    tabCtx,
		tabCancel: cancel,
		onClose:   onClose,
	}
}

// ID returns the unique identifier of this session.
func (s *Session) ID() string { return s.id }

// run executes chromedp actions against the tab, respecting the caller's
// deadline. A dead tab context is reported as a SessionError.
func (s *Session) run(ctx context.Context, op string, actions ...chromedp.Action) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return &driver.SessionError{SessionID: s.id, Op: op, Err: driver.ErrSessionClosed}
	}

	runCtx, cancel := combineContext(s.tabCtx, ctx)
	defer cancel()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if s.tabCtx.Err() != nil {
			return &driver.SessionError{SessionID: s.id, Op: op, Err: s.tabCtx.Err()}
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// Navigate loads the target URL and waits for the load event.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.logger.Debug("Navigating", zap.String("url", url))
	return s.run(ctx, "navigate", chromedp.Navigate(url))
}

// nodes resolves the locator immediately; zero matches is an empty slice.
func (s *Session) nodes(ctx context.Context, loc locator.Locator) ([]*cdp.Node, error) {
	sel, opt := toQuery(loc)
	var found []*cdp.Node
	// AtLeast(0) turns off chromedp's own wait-for-match behavior.
	err := s.run(ctx, "find", chromedp.Nodes(sel, &found, opt, chromedp.AtLeast(0)))
	if err != nil {
		return nil, err
	}
	return found, nil
}

// Find resolves a single element; absence is an ErrElementNotFound error.
// Absence-tolerant callers should use FindAll instead of recovering from
// this error.
func (s *Session) Find(ctx context.Context, loc locator.Locator) (driver.Element, error) {
	found, err := s.nodes(ctx, loc)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, &driver.NotFoundError{Locator: loc}
	}
	return &element{sess: s, loc: loc, node: found[0]}, nil
}

// FindAll resolves every matching element. Zero matches yield an empty
// slice and a nil error, making it the correct absence check.
func (s *Session) FindAll(ctx context.Context, loc locator.Locator) ([]driver.Element, error) {
	found, err := s.nodes(ctx, loc)
	if err != nil {
		return nil, err
	}
	els := make([]driver.Element, 0, len(found))
	for _, n := range found {
		els = append(els, &element{sess: s, loc: loc, node: n})
	}
	return els, nil
}

// Text reads the visible text of the first element matching loc.
func (s *Session) Text(ctx context.Context, loc locator.Locator) (string, error) {
	// Presence check first, so a missing element is a NotFoundError rather
	// than an open-ended chromedp wait.
	if _, err := s.Find(ctx, loc); err != nil {
		return "", err
	}
	sel, opt := toQuery(loc)
	var text string
	// AtLeast(0) here too: if the element vanishes between the presence check
	// and the read, the read must not block on chromedp's own wait.
	if err := s.run(ctx, "text", chromedp.Text(sel, &text, opt, chromedp.AtLeast(0))); err != nil {
		return "", err
	}
	return text, nil
}

// SendKeys types text into the element matching loc.
func (s *Session) SendKeys(ctx context.Context, loc locator.Locator, text string) error {
	if _, err := s.Find(ctx, loc); err != nil {
		return err
	}
	sel, opt := toQuery(loc)
	return s.run(ctx, "send_keys", chromedp.SendKeys(sel, text, opt, chromedp.AtLeast(0)))
}

// Submit submits the form owning the element matching loc.
func (s *Session) Submit(ctx context.Context, loc locator.Locator) error {
	if _, err := s.Find(ctx, loc); err != nil {
		return err
	}
	sel, opt := toQuery(loc)
	return s.run(ctx, "submit", chromedp.Submit(sel, opt, chromedp.AtLeast(0)))
}

// Screenshot captures the current page render as PNG bytes.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := s.run(ctx, "screenshot", chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, err
	}
	return buf, nil
}

// Close releases the tab. Only the first call does work; later calls are
// no-ops, so deferred cleanup paths can call it unconditionally.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	onClose := s.onClose
	s.mu.Unlock()

	s.logger.Debug("Closing session")
	s.tabCancel()

	// Wait for the tab context to wind down, respecting the caller's
	// deadline plus a hard cap.
	waitCtx, cancelWait := context.WithTimeout(ctx, 10*time.Second)
	defer cancelWait()
	select {
	case <-s.tabCtx.Done():
	case <-waitCtx.Done():
		s.logger.Warn("Deadline exceeded waiting for tab to close", zap.Error(waitCtx.Err()))
	}

	if onClose != nil {
		onClose()
	}
	return nil
}

// combineContext derives a context from parent that is also canceled when
// secondary is canceled. It preserves parent's values, which is what keeps
// chromedp's internal target wiring intact.
func combineContext(parent, secondary context.Context) (context.Context, context.CancelFunc) {
	combined, cancel := context.WithCancel(parent)

	go func() {
		select {
		case <-secondary.Done():
			cancel()
		case <-combined.Done():
		}
	}()

	return combined, cancel
}
