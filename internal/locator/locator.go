// internal/locator/locator.go
package locator

import "fmt"

// Strategy identifies how a locator's value should be interpreted when
// querying the page.
type Strategy string

const (
	ByID       Strategy = "id"
	ByName     Strategy = "name"
	ByCSS      Strategy = "css selector"
	ByXPath    Strategy = "xpath"
	ByTagName  Strategy = "tag name"
	ByLinkText Strategy = "link text"
)

// Locator is a declarative (strategy, value) pair identifying zero, one, or
// many page elements. It is a plain value type: construct it once and pass it
// around by value. Malformed selector values are not detected here; they fail
// at query time, when the driver evaluates them against a live page.
type Locator struct {
	Strategy Strategy
	Value    string
}

// ID locates an element by its id attribute.
func ID(value string) Locator { return Locator{Strategy: ByID, Value: value} }

// Name locates an element by its name attribute.
func Name(value string) Locator { return Locator{Strategy: ByName, Value: value} }

// CSS locates elements by a CSS selector.
func CSS(value string) Locator { return Locator{Strategy: ByCSS, Value: value} }

// XPath locates elements by an XPath expression.
func XPath(value string) Locator { return Locator{Strategy: ByXPath, Value: value} }

// TagName locates elements by tag name.
func TagName(value string) Locator { return Locator{Strategy: ByTagName, Value: value} }

// LinkText locates anchor elements by their exact visible text.
func LinkText(value string) Locator { return Locator{Strategy: ByLinkText, Value: value} }

// IsZero reports whether the locator has not been populated.
func (l Locator) IsZero() bool {
	return l.Strategy == "" && l.Value == ""
}

// Validate checks strategy applicability only. Selector syntax is the
// driver's problem.
func (l Locator) Validate() error {
	switch l.Strategy {
	case ByID, ByName, ByCSS, ByXPath, ByTagName, ByLinkText:
	default:
		return fmt.Errorf("unknown locator strategy %q", l.Strategy)
	}
	if l.Value == "" {
		return fmt.Errorf("locator value must not be empty (strategy %q)", l.Strategy)
	}
	return nil
}

func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.Strategy, l.Value)
}
