// internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	Browser   BrowserConfig   `mapstructure:"browser" yaml:"browser"`
	Wait      WaitConfig      `mapstructure:"wait" yaml:"wait"`
	Runner    RunnerConfig    `mapstructure:"runner" yaml:"runner"`
	Artifacts ArtifactsConfig `mapstructure:"artifacts" yaml:"artifacts"`
	Database  DatabaseConfig  `mapstructure:"database" yaml:"database"`
	Scenario  ScenarioConfig  `mapstructure:"scenario" yaml:"scenario"`
	Report    ReportConfig    `mapstructure:"report" yaml:"report"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// BrowserConfig holds settings for the headless browser process.
type BrowserConfig struct {
	Headless          bool          `mapstructure:"headless" yaml:"headless"`
	IgnoreTLSErrors   bool          `mapstructure:"ignore_tls_errors" yaml:"ignore_tls_errors"`
	Args              []string      `mapstructure:"args" yaml:"args"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
}

// WaitConfig tunes the explicit wait policy applied at interaction points.
// There is no implicit per-lookup fallback to configure; explicit waits are
// the only wait discipline.
type WaitConfig struct {
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
}

// RunnerConfig controls scenario execution.
type RunnerConfig struct {
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
	// SessionsPerSecond throttles browser session creation so a large suite
	// does not stampede the browser process with simultaneous tab launches.
	SessionsPerSecond float64 `mapstructure:"sessions_per_second" yaml:"sessions_per_second"`
}

// ArtifactsConfig controls diagnostic artifact capture.
type ArtifactsConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
	// OnFailureOnly limits screenshot capture to failed scenarios. Set to
	// false to capture a screenshot after every run.
	OnFailureOnly bool `mapstructure:"on_failure_only" yaml:"on_failure_only"`
}

// DatabaseConfig holds the optional run-history database connection. An
// empty URL disables persistence.
type DatabaseConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

// ScenarioConfig parametrizes the built-in search scenario.
type ScenarioConfig struct {
	TargetURL    string `mapstructure:"target_url" yaml:"target_url"`
	Query        string `mapstructure:"query" yaml:"query"`
	ExpectedText string `mapstructure:"expected_text" yaml:"expected_text"`
}

// ReportConfig controls result report generation.
type ReportConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "uitest-cli")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.ignore_tls_errors", false)
	v.SetDefault("browser.navigation_timeout", "90s")

	// -- Wait --
	v.SetDefault("wait.timeout", "10s")
	v.SetDefault("wait.poll_interval", "250ms")

	// -- Runner --
	v.SetDefault("runner.concurrency", 1)
	v.SetDefault("runner.sessions_per_second", 4.0)

	// -- Artifacts --
	v.SetDefault("artifacts.dir", "artifacts")
	v.SetDefault("artifacts.on_failure_only", true)

	// -- Scenario --
	v.SetDefault("scenario.query", "Seattle Code Camp")
	v.SetDefault("scenario.expected_text", "Seattle Code Camp")

	// -- Report --
	v.SetDefault("report.format", "junit")
	v.SetDefault("report.output", "")
}

// NewConfigFromViper creates a validated configuration from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	cfg, err := NewConfigFromViper(v)
	if err != nil {
		// Defaults must always unmarshal and validate.
		panic(fmt.Sprintf("failed to build default config: %v", err))
	}
	return cfg
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.Wait.Timeout <= 0 {
		return fmt.Errorf("wait.timeout must be a positive duration")
	}
	if c.Wait.PollInterval <= 0 {
		return fmt.Errorf("wait.poll_interval must be a positive duration")
	}
	if c.Wait.PollInterval > c.Wait.Timeout {
		return fmt.Errorf("wait.poll_interval must not exceed wait.timeout")
	}
	if c.Runner.Concurrency <= 0 {
		return fmt.Errorf("runner.concurrency must be a positive integer")
	}
	if c.Runner.SessionsPerSecond <= 0 {
		return fmt.Errorf("runner.sessions_per_second must be positive")
	}
	switch c.Report.Format {
	case "junit", "json":
	default:
		return fmt.Errorf("report.format must be 'junit' or 'json', got %q", c.Report.Format)
	}
	return nil
}
