// internal/locator/locator_test.go
package locator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		loc      Locator
		strategy Strategy
		value    string
	}{
		{"id", ID("login"), ByID, "login"},
		{"name", Name("q"), ByName, "q"},
		{"css", CSS("div.results > a"), ByCSS, "div.results > a"},
		{"xpath", XPath("//button[@type='submit']"), ByXPath, "//button[@type='submit']"},
		{"tag name", TagName("h1"), ByTagName, "h1"},
		{"link text", LinkText("Sign in"), ByLinkText, "Sign in"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.strategy, tc.loc.Strategy)
			assert.Equal(t, tc.value, tc.loc.Value)
			require.NoError(t, tc.loc.Validate())
		})
	}
}

func TestValidate(t *testing.T) {
	t.Run("rejects unknown strategy", func(t *testing.T) {
		loc := Locator{Strategy: "partial link text", Value: "Sign"}
		err := loc.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown locator strategy")
	})

	t.Run("rejects empty value", func(t *testing.T) {
		err := ID("").Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must not be empty")
	})

	t.Run("rejects zero locator", func(t *testing.T) {
		var loc Locator
		assert.True(t, loc.IsZero())
		assert.Error(t, loc.Validate())
	})
}

func TestString(t *testing.T) {
	assert.Equal(t, "css selector=#main", CSS("#main").String())
	assert.Equal(t, "id=login", ID("login").String())
}
