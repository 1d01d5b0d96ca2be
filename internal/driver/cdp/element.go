// internal/driver/cdp/element.go
package cdp

import (
	"context"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/chromedp"

	"github.com/xkilldash9x/uitest-cli/internal/driver"
	"github.com/xkilldash9x/uitest-cli/internal/locator"
)

var _ driver.Element = (*element)(nil)

// element is a resolved handle. The cached node can go stale the moment the
// DOM mutates, so every operation re-resolves from the immutable locator;
// the cached node only serves consumers that want the resolution-time view.
type element struct {
	sess *Session
	loc  locator.Locator
	node *cdp.Node
}

// Locator returns the locator this element was resolved from.
func (e *element) Locator() locator.Locator { return e.loc }

// refresh re-resolves the element's node from its locator.
func (e *element) refresh(ctx context.Context) (*cdp.Node, error) {
	found, err := e.sess.nodes(ctx, e.loc)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, &driver.NotFoundError{Locator: e.loc}
	}
	return found[0], nil
}

// Text reads the element's visible text.
func (e *element) Text(ctx context.Context) (string, error) {
	return e.sess.Text(ctx, e.loc)
}

// Visible reports whether the element is currently rendered. An element with
// no box model (display:none, detached subtree) is present but not visible.
func (e *element) Visible(ctx context.Context) (bool, error) {
	node, err := e.refresh(ctx)
	if err != nil {
		return false, err
	}

	visible := false
	err = e.sess.run(ctx, "visible", chromedp.ActionFunc(func(ctx context.Context) error {
		box, boxErr := dom.GetBoxModel().WithNodeID(node.NodeID).Do(ctx)
		// GetBoxModel fails for unrendered nodes; that is the answer, not
		// an error.
		visible = boxErr == nil && box != nil && box.Width > 0 && box.Height > 0
		return nil
	}))
	if err != nil {
		return false, err
	}
	return visible, nil
}

// SendKeys types text into the element.
func (e *element) SendKeys(ctx context.Context, text string) error {
	return e.sess.SendKeys(ctx, e.loc, text)
}

// Click clicks the element.
func (e *element) Click(ctx context.Context) error {
	if _, err := e.refresh(ctx); err != nil {
		return err
	}
	sel, opt := toQuery(e.loc)
	return e.sess.run(ctx, "click", chromedp.Click(sel, opt, chromedp.AtLeast(0)))
}

// Submit submits the form owning the element.
func (e *element) Submit(ctx context.Context) error {
	return e.sess.Submit(ctx, e.loc)
}
