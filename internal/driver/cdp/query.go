// internal/driver/cdp/query.go
package cdp

import (
	"fmt"
	"strings"

	"github.com/chromedp/chromedp"

	"github.com/xkilldash9x/uitest-cli/internal/locator"
)

// toQuery translates a locator into a chromedp selector plus query option.
// Translation is purely syntactic; a malformed value surfaces as a query-time
// error from the browser, never here.
func toQuery(loc locator.Locator) (string, chromedp.QueryOption) {
	switch loc.Strategy {
	case locator.ByID:
		// Attribute form avoids CSS identifier escaping rules for ids
		// containing dots or colons.
		return fmt.Sprintf(`[id=%q]`, loc.Value), chromedp.ByQueryAll
	case locator.ByName:
		return fmt.Sprintf(`[name=%q]`, loc.Value), chromedp.ByQueryAll
	case locator.ByCSS:
		return loc.Value, chromedp.ByQueryAll
	case locator.ByTagName:
		return loc.Value, chromedp.ByQueryAll
	case locator.ByXPath:
		return loc.Value, chromedp.BySearch
	case locator.ByLinkText:
		return fmt.Sprintf(`//a[normalize-space(.)=%s]`, xpathLiteral(loc.Value)), chromedp.BySearch
	default:
		// Unknown strategies fall through as raw CSS so the failure is
		// observable at query time, mirroring malformed selector handling.
		return loc.Value, chromedp.ByQueryAll
	}
}

// xpathLiteral quotes a string for embedding in an XPath 1.0 expression,
// which has no escape sequences inside string literals.
func xpathLiteral(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, `'`) {
		return `'` + s + `'`
	}
	// Contains both quote kinds: build it with concat().
	parts := strings.Split(s, `"`)
	for i, p := range parts {
		parts[i] = `"` + p + `"`
	}
	return "concat(" + strings.Join(parts, `,'"',`) + ")"
}
