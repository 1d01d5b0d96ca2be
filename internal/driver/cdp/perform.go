// internal/driver/cdp/perform.go
package cdp

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"

	"github.com/xkilldash9x/uitest-cli/internal/driver"
)

// Perform executes a composed pointer/keyboard sequence as a unit. Steps are
// translated to raw CDP input dispatches where chromedp has no ready-made
// action (pointer moves), and to chromedp actions otherwise.
func (s *Session) Perform(ctx context.Context, seq driver.ActionSequence) error {
	for i, act := range seq {
		if err := s.performOne(ctx, act); err != nil {
			return fmt.Errorf("action %d (%s): %w", i, act.Kind, err)
		}
	}
	return nil
}

func (s *Session) performOne(ctx context.Context, act driver.Action) error {
	switch act.Kind {
	case driver.ActionMoveTo:
		return s.moveTo(ctx, act)
	case driver.ActionSendKeys:
		return s.SendKeys(ctx, act.Target, act.Text)
	case driver.ActionPressKey:
		return s.run(ctx, "press_key", chromedp.KeyEvent(act.Key))
	case driver.ActionClick:
		if _, err := s.Find(ctx, act.Target); err != nil {
			return err
		}
		sel, opt := toQuery(act.Target)
		return s.run(ctx, "click", chromedp.Click(sel, opt, chromedp.AtLeast(0)))
	default:
		return fmt.Errorf("unsupported action kind %q", act.Kind)
	}
}

// moveTo scrolls the target into view and dispatches a raw pointer move to
// its center.
func (s *Session) moveTo(ctx context.Context, act driver.Action) error {
	found, err := s.nodes(ctx, act.Target)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return &driver.NotFoundError{Locator: act.Target}
	}
	node := found[0]

	sel, opt := toQuery(act.Target)
	return s.run(ctx, "move_to",
		chromedp.ScrollIntoView(sel, opt, chromedp.AtLeast(0)),
		chromedp.ActionFunc(func(ctx context.Context) error {
			quads, err := dom.GetContentQuads().WithNodeID(node.NodeID).Do(ctx)
			if err != nil || len(quads) == 0 || len(quads[0]) < 8 {
				return fmt.Errorf("cannot determine element geometry for %s: %w",
					act.Target, driver.ErrElementNotFound)
			}
			quad := quads[0]
			x := (quad[0] + quad[2] + quad[4] + quad[6]) / 4
			y := (quad[1] + quad[3] + quad[5] + quad[7]) / 4
			return input.DispatchMouseEvent(input.MouseMoved, x, y).Do(ctx)
		}),
	)
}
