// internal/driver/cdp/cdp_e2e_test.go
//
// End-to-end tests against a real headless browser. They are skipped unless
// UITEST_E2E=1 and a Chrome/Chromium binary is installed.
package cdp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/uitest-cli/internal/config"
	"github.com/xkilldash9x/uitest-cli/internal/driver"
	"github.com/xkilldash9x/uitest-cli/internal/locator"
	"github.com/xkilldash9x/uitest-cli/internal/wait"
)

const searchPageHTML = `<!DOCTYPE html>
<html>
<head><title>Fixture Search</title></head>
<body>
  <h1>Fixture Search</h1>
  <form action="/search" method="get">
    <input type="text" name="q" id="search-input">
    <button type="submit">Search</button>
  </form>
  <a href="/about">About this site</a>
</body>
</html>`

func resultsPageHTML(query string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>Results</title></head>
<body>
  <div class="search-results">
    <div class="result"><a href="#">%s</a></div>
    <div class="result"><a href="#">Second hit</a></div>
  </div>
</body>
</html>`, query)
}

func newFixtureServer() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, searchPageHTML)
	})
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, resultsPageHTML(r.URL.Query().Get("q")))
	})
	return httptest.NewServer(mux)
}

func newE2EDriver(t *testing.T) *Driver {
	t.Helper()
	if os.Getenv("UITEST_E2E") != "1" {
		t.Skip("set UITEST_E2E=1 to run browser end-to-end tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	t.Cleanup(cancel)

	d, err := New(ctx, zap.NewNop(), config.BrowserConfig{Headless: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		require.NoError(t, d.Shutdown(shutdownCtx))
	})
	return d
}

func TestE2ESearchFlow(t *testing.T) {
	d := newE2EDriver(t)
	srv := newFixtureServer()
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	sess, err := d.NewSession(ctx)
	require.NoError(t, err)
	defer sess.Close(ctx)

	require.NoError(t, sess.Navigate(ctx, srv.URL))

	box := locator.Name("q")
	firstResult := locator.CSS(".search-results .result:first-child a")
	policy := wait.Policy{Timeout: 10 * time.Second, Interval: 100 * time.Millisecond}

	require.NoError(t, policy.Wait(ctx, wait.ElementVisible(sess, box)))
	require.NoError(t, sess.SendKeys(ctx, box, "Seattle Code Camp"))
	require.NoError(t, sess.Submit(ctx, box))

	require.NoError(t, policy.Wait(ctx, wait.ElementPresent(sess, firstResult)))
	text, err := sess.Text(ctx, firstResult)
	require.NoError(t, err)
	assert.Equal(t, "Seattle Code Camp", text)
}

func TestE2EComposedActions(t *testing.T) {
	d := newE2EDriver(t)
	srv := newFixtureServer()
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	sess, err := d.NewSession(ctx)
	require.NoError(t, err)
	defer sess.Close(ctx)

	require.NoError(t, sess.Navigate(ctx, srv.URL))

	box := locator.Name("q")
	policy := wait.Policy{Timeout: 10 * time.Second, Interval: 100 * time.Millisecond}
	require.NoError(t, policy.Wait(ctx, wait.ElementVisible(sess, box)))

	seq := driver.ActionSequence{}.
		MoveTo(box).
		Click(box).
		SendKeys(box, "Seattle Code Camp").
		PressKey(driver.KeyEnter)
	require.NoError(t, sess.Perform(ctx, seq))

	firstResult := locator.CSS(".search-results .result:first-child a")
	require.NoError(t, policy.Wait(ctx, wait.ElementPresent(sess, firstResult)))
	text, err := sess.Text(ctx, firstResult)
	require.NoError(t, err)
	assert.Equal(t, "Seattle Code Camp", text)
}

func TestE2ELookupSemantics(t *testing.T) {
	d := newE2EDriver(t)
	srv := newFixtureServer()
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	sess, err := d.NewSession(ctx)
	require.NoError(t, err)
	defer sess.Close(ctx)

	require.NoError(t, sess.Navigate(ctx, srv.URL))

	t.Run("find is immediate and not-found is typed", func(t *testing.T) {
		start := time.Now()
		_, err := sess.Find(ctx, locator.ID("does-not-exist"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, driver.ErrElementNotFound))
		assert.Less(t, time.Since(start), 5*time.Second, "a missing element must not trigger an implicit wait")
	})

	t.Run("findall absence is an empty slice", func(t *testing.T) {
		els, err := sess.FindAll(ctx, locator.CSS(".no-such-class"))
		require.NoError(t, err)
		assert.Empty(t, els)
	})

	t.Run("link text lookup", func(t *testing.T) {
		el, err := sess.Find(ctx, locator.LinkText("About this site"))
		require.NoError(t, err)
		text, err := el.Text(ctx)
		require.NoError(t, err)
		assert.Equal(t, "About this site", text)
	})

	t.Run("screenshot produces data", func(t *testing.T) {
		png, err := sess.Screenshot(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, png)
	})

	t.Run("closed session rejects operations", func(t *testing.T) {
		extra, err := d.NewSession(ctx)
		require.NoError(t, err)
		require.NoError(t, extra.Close(ctx))

		err = extra.Navigate(ctx, srv.URL)
		require.Error(t, err)
		assert.True(t, errors.Is(err, driver.ErrSessionClosed))
	})
}
