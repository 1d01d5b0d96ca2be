// Package page implements page objects: named maps from logical field names
// to locators, bound to a browser session. Construction is explicit; there is
// no struct-tag reflection, so a page's fields are visible at the call site
// and misconfigurations fail at build time rather than at first use.
package page

import (
	"context"
	"errors"
	"fmt"

	"github.com/xkilldash9x/uitest-cli/internal/driver"
	"github.com/xkilldash9x/uitest-cli/internal/locator"
)

// Field names a single element of a page.
type Field struct {
	Name    string
	Locator locator.Locator
}

// F is a convenience constructor for a Field.
func F(name string, loc locator.Locator) Field {
	return Field{Name: name, Locator: loc}
}

// Page binds a set of named locators to a session. Lookups always go through
// the session; a Page never caches element handles across calls.
type Page struct {
	sess   driver.Session
	fields map[string]locator.Locator

	// cached holds the handles produced by the last Resolve call, keyed by
	// field name. Entries for absent elements are simply missing.
	cached map[string]driver.Element
}

// New builds a page object over sess. Duplicate or invalid fields are
// construction errors, not lookup-time surprises.
func New(sess driver.Session, fields ...Field) (*Page, error) {
	p := &Page{
		sess:   sess,
		fields: make(map[string]locator.Locator, len(fields)),
	}
	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("page field with empty name (locator %s)", f.Locator)
		}
		if err := f.Locator.Validate(); err != nil {
			return nil, fmt.Errorf("page field %q: %w", f.Name, err)
		}
		if _, dup := p.fields[f.Name]; dup {
			return nil, fmt.Errorf("duplicate page field %q", f.Name)
		}
		p.fields[f.Name] = f.Locator
	}
	return p, nil
}

// Locator returns the locator registered under name.
func (p *Page) Locator(name string) (locator.Locator, error) {
	loc, ok := p.fields[name]
	if !ok {
		return locator.Locator{}, fmt.Errorf("page has no field %q", name)
	}
	return loc, nil
}

// Element performs a fresh lookup of the named field. Absence surfaces as the
// session's not-found error.
func (p *Page) Element(ctx context.Context, name string) (driver.Element, error) {
	loc, err := p.Locator(name)
	if err != nil {
		return nil, err
	}
	return p.sess.Find(ctx, loc)
}

// Resolve looks up every field once and caches the handles. Fields that are
// absent right now are skipped silently; other lookup failures abort. This
// mirrors a page load: optional widgets may be missing without it being an
// error.
func (p *Page) Resolve(ctx context.Context) error {
	cached := make(map[string]driver.Element, len(p.fields))
	for name, loc := range p.fields {
		el, err := p.sess.Find(ctx, loc)
		if err != nil {
			if IsNotFound(err) {
				continue
			}
			return fmt.Errorf("resolving field %q: %w", name, err)
		}
		cached[name] = el
	}
	p.cached = cached
	return nil
}

// Cached returns the handle captured by the last Resolve, if any. The handle
// re-resolves on use, so staleness is recovered transparently as long as the
// element still matches its locator.
func (p *Page) Cached(name string) (driver.Element, bool) {
	el, ok := p.cached[name]
	return el, ok
}

// IsNotFound reports whether err means the element does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, driver.ErrElementNotFound)
}
