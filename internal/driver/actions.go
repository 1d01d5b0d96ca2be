// internal/driver/actions.go
package driver

import "github.com/xkilldash9x/uitest-cli/internal/locator"

// ActionKind enumerates the primitives a composed sequence may contain.
type ActionKind string

const (
	// ActionMoveTo scrolls the target into view and moves the pointer over it.
	ActionMoveTo ActionKind = "move_to"
	// ActionSendKeys types text into the target element.
	ActionSendKeys ActionKind = "send_keys"
	// ActionPressKey dispatches a single key (e.g. Enter) to the focused element.
	ActionPressKey ActionKind = "press_key"
	// ActionClick clicks the target element.
	ActionClick ActionKind = "click"
)

// KeyEnter is the Enter key for ActionPressKey steps.
const KeyEnter = "\r"

// Action is one step of a composed sequence.
type Action struct {
	Kind   ActionKind
	Target locator.Locator // unset for ActionPressKey
	Text   string          // ActionSendKeys payload
	Key    string          // ActionPressKey payload
}

// ActionSequence is an ordered list of input primitives, executed as a unit
// by Session.Perform. Nothing runs until Perform is called.
type ActionSequence []Action

// MoveTo appends a pointer move over the target.
func (s ActionSequence) MoveTo(target locator.Locator) ActionSequence {
	return append(s, Action{Kind: ActionMoveTo, Target: target})
}

// SendKeys appends typing into the target.
func (s ActionSequence) SendKeys(target locator.Locator, text string) ActionSequence {
	return append(s, Action{Kind: ActionSendKeys, Target: target, Text: text})
}

// PressKey appends a single key dispatch to the focused element.
func (s ActionSequence) PressKey(key string) ActionSequence {
	return append(s, Action{Kind: ActionPressKey, Key: key})
}

// Click appends a click on the target.
func (s ActionSequence) Click(target locator.Locator) ActionSequence {
	return append(s, Action{Kind: ActionClick, Target: target})
}
