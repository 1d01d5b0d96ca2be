// internal/page/page_test.go
package page

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/uitest-cli/internal/driver"
	"github.com/xkilldash9x/uitest-cli/internal/locator"
)

type stubElement struct {
	loc  locator.Locator
	text string
}

func (e *stubElement) Locator() locator.Locator                        { return e.loc }
func (e *stubElement) Text(ctx context.Context) (string, error)        { return e.text, nil }
func (e *stubElement) Visible(ctx context.Context) (bool, error)       { return true, nil }
func (e *stubElement) SendKeys(ctx context.Context, text string) error { return nil }
func (e *stubElement) Click(ctx context.Context) error                 { return nil }
func (e *stubElement) Submit(ctx context.Context) error                { return nil }

// stubSession serves elements for a fixed set of locators and counts lookups.
type stubSession struct {
	elements map[string]*stubElement
	findErr  error
	finds    int
}

func (s *stubSession) ID() string                                   { return "stub" }
func (s *stubSession) Navigate(ctx context.Context, u string) error { return nil }

func (s *stubSession) Find(ctx context.Context, loc locator.Locator) (driver.Element, error) {
	s.finds++
	if s.findErr != nil {
		return nil, s.findErr
	}
	el, ok := s.elements[loc.String()]
	if !ok {
		return nil, &driver.NotFoundError{Locator: loc}
	}
	return el, nil
}

func (s *stubSession) FindAll(ctx context.Context, loc locator.Locator) ([]driver.Element, error) {
	el, err := s.Find(ctx, loc)
	if err != nil {
		if errors.Is(err, driver.ErrElementNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return []driver.Element{el}, nil
}

func (s *stubSession) Text(ctx context.Context, loc locator.Locator) (string, error) {
	el, err := s.Find(ctx, loc)
	if err != nil {
		return "", err
	}
	return el.Text(ctx)
}

func (s *stubSession) SendKeys(ctx context.Context, loc locator.Locator, text string) error {
	_, err := s.Find(ctx, loc)
	return err
}

func (s *stubSession) Submit(ctx context.Context, loc locator.Locator) error {
	_, err := s.Find(ctx, loc)
	return err
}

func (s *stubSession) Perform(ctx context.Context, seq driver.ActionSequence) error { return nil }
func (s *stubSession) Screenshot(ctx context.Context) ([]byte, error)               { return nil, nil }
func (s *stubSession) Close(ctx context.Context) error                              { return nil }

func newStubSession(els ...*stubElement) *stubSession {
	m := make(map[string]*stubElement, len(els))
	for _, el := range els {
		m[el.loc.String()] = el
	}
	return &stubSession{elements: m}
}

func TestNew(t *testing.T) {
	sess := newStubSession()

	t.Run("builds with distinct fields", func(t *testing.T) {
		pg, err := New(sess,
			F("search_box", locator.Name("q")),
			F("submit", locator.CSS("button[type=submit]")),
		)
		require.NoError(t, err)
		require.NotNil(t, pg)

		loc, err := pg.Locator("search_box")
		require.NoError(t, err)
		assert.Equal(t, locator.Name("q"), loc)
	})

	t.Run("rejects duplicate field names", func(t *testing.T) {
		_, err := New(sess,
			F("search_box", locator.Name("q")),
			F("search_box", locator.ID("q")),
		)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `duplicate page field "search_box"`)
	})

	t.Run("rejects invalid locator", func(t *testing.T) {
		_, err := New(sess, F("broken", locator.Locator{}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `page field "broken"`)
	})

	t.Run("rejects empty field name", func(t *testing.T) {
		_, err := New(sess, F("", locator.ID("x")))
		require.Error(t, err)
	})
}

func TestElement(t *testing.T) {
	box := &stubElement{loc: locator.Name("q")}
	sess := newStubSession(box)

	pg, err := New(sess, F("search_box", locator.Name("q")), F("missing", locator.ID("nope")))
	require.NoError(t, err)

	t.Run("fresh lookup each call", func(t *testing.T) {
		before := sess.finds
		el, err := pg.Element(context.Background(), "search_box")
		require.NoError(t, err)
		assert.Equal(t, box, el)

		_, err = pg.Element(context.Background(), "search_box")
		require.NoError(t, err)
		assert.Equal(t, before+2, sess.finds, "every Element call must hit the session")
	})

	t.Run("absent element surfaces not-found", func(t *testing.T) {
		_, err := pg.Element(context.Background(), "missing")
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})

	t.Run("unknown field is an error", func(t *testing.T) {
		_, err := pg.Element(context.Background(), "nonexistent")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `no field "nonexistent"`)
	})
}

func TestResolve(t *testing.T) {
	box := &stubElement{loc: locator.Name("q"), text: ""}
	sess := newStubSession(box)

	pg, err := New(sess,
		F("search_box", locator.Name("q")),
		F("optional_banner", locator.ID("promo")),
	)
	require.NoError(t, err)

	t.Run("caches present, skips absent", func(t *testing.T) {
		require.NoError(t, pg.Resolve(context.Background()))

		el, ok := pg.Cached("search_box")
		require.True(t, ok)
		assert.Equal(t, box, el)

		_, ok = pg.Cached("optional_banner")
		assert.False(t, ok, "absent optional element must be skipped, not errored")
	})

	t.Run("session errors abort", func(t *testing.T) {
		sess.findErr = &driver.SessionError{SessionID: "stub", Op: "find", Err: driver.ErrSessionClosed}
		err := pg.Resolve(context.Background())
		require.Error(t, err)
		var serr *driver.SessionError
		assert.ErrorAs(t, err, &serr)
	})
}
