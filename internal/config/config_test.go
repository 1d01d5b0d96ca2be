// internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "uitest-cli", cfg.Logger.ServiceName)

	assert.True(t, cfg.Browser.Headless)
	assert.False(t, cfg.Browser.IgnoreTLSErrors)
	assert.Equal(t, 90*time.Second, cfg.Browser.NavigationTimeout)

	assert.Equal(t, 10*time.Second, cfg.Wait.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Wait.PollInterval)

	assert.Equal(t, 1, cfg.Runner.Concurrency)
	assert.InDelta(t, 4.0, cfg.Runner.SessionsPerSecond, 0.001)

	assert.Equal(t, "artifacts", cfg.Artifacts.Dir)
	assert.True(t, cfg.Artifacts.OnFailureOnly, "screenshots default to failure-only capture")

	assert.Equal(t, "Seattle Code Camp", cfg.Scenario.Query)
	assert.Equal(t, "Seattle Code Camp", cfg.Scenario.ExpectedText)

	assert.Equal(t, "junit", cfg.Report.Format)
	assert.Empty(t, cfg.Database.URL, "run history is opt-in")
}

func TestNewConfigFromViper(t *testing.T) {
	t.Run("overrides apply over defaults", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("wait.timeout", "3s")
		v.Set("wait.poll_interval", "100ms")
		v.Set("runner.concurrency", 8)
		v.Set("report.format", "json")
		v.Set("artifacts.on_failure_only", false)

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		wantWait := WaitConfig{Timeout: 3 * time.Second, PollInterval: 100 * time.Millisecond}
		assert.Empty(t, cmp.Diff(wantWait, cfg.Wait))
		assert.Equal(t, 8, cfg.Runner.Concurrency)
		assert.Equal(t, "json", cfg.Report.Format)
		assert.False(t, cfg.Artifacts.OnFailureOnly)
	})

	t.Run("unset keys keep their defaults", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("scenario.target_url", "https://example.test/")

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)

		want := NewDefaultConfig()
		want.Scenario.TargetURL = "https://example.test/"
		assert.Empty(t, cmp.Diff(want, cfg))
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("wait.timeout", "0s")

		_, err := NewConfigFromViper(v)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "wait.timeout")
	})
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return NewDefaultConfig()
	}

	t.Run("interval must not exceed timeout", func(t *testing.T) {
		cfg := base()
		cfg.Wait.Timeout = 100 * time.Millisecond
		cfg.Wait.PollInterval = time.Second
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must not exceed")
	})

	t.Run("concurrency must be positive", func(t *testing.T) {
		cfg := base()
		cfg.Runner.Concurrency = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("session rate must be positive", func(t *testing.T) {
		cfg := base()
		cfg.Runner.SessionsPerSecond = -1
		assert.Error(t, cfg.Validate())
	})

	t.Run("report format is constrained", func(t *testing.T) {
		cfg := base()
		cfg.Report.Format = "tap"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "report.format")
	})

	t.Run("defaults validate", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})
}
