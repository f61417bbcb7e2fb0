// Package config provides centralized configuration for the end-to-end suite.
// It loads configuration from an optional .env file, environment variables and
// CLI flags, validates required fields, and provides sensible defaults.
//
// Environment variables use the E2E_ prefix so suite settings never collide
// with the deployment settings of the application under test.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Browser engines playwright can launch for us.
const (
	BrowserChromium = "chromium"
	BrowserFirefox  = "firefox"
	BrowserWebKit   = "webkit"
)

// Config holds all suite configuration.
type Config struct {
	// Deployment under test
	BaseURL string

	// Browser settings
	Browser  string
	Headless bool

	// Wait settings. DefaultTimeout bounds every polling wait unless the
	// caller passes its own; PollInterval is the tick between condition checks.
	DefaultTimeout time.Duration
	PollInterval   time.Duration

	// Where browser downloads land; also where waits for downloaded files look.
	DownloadDir string

	// Download-test switches. TestFileDownload forces the download scenarios
	// on regardless of browser/platform; VerifyFileDownload additionally
	// checks the downloaded bytes.
	TestFileDownload   bool
	VerifyFileDownload bool
}

// ValidationError represents a configuration validation error with multiple issues.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// ParseFlags parses CLI flags and returns them. Call before LoadConfig.
func ParseFlags() (baseURL, browser string, headed bool) {
	flag.StringVar(&baseURL, "base-url", "", "Base URL of the deployment under test (overrides E2E_BASE_URL)")
	flag.StringVar(&browser, "browser", "", "Browser engine: chromium, firefox or webkit (overrides E2E_BROWSER)")
	flag.BoolVar(&headed, "headed", false, "Run the browser with a visible window")
	flag.Parse()
	return baseURL, browser, headed
}

// LoadConfig loads configuration from .env (when present), environment
// variables and CLI flag values. Non-empty flag values win over env vars.
func LoadConfig(baseURL, browser string, headed bool) (*Config, error) {
	// Missing .env is fine; env vars may be set directly.
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.BaseURL = strings.TrimSpace(getEnvOrDefault("E2E_BASE_URL", ""))
	if baseURL != "" {
		cfg.BaseURL = strings.TrimSpace(baseURL)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	cfg.Browser = strings.ToLower(getEnvOrDefault("E2E_BROWSER", BrowserChromium))
	if browser != "" {
		cfg.Browser = strings.ToLower(strings.TrimSpace(browser))
	}

	cfg.Headless = parseBoolOrDefault("E2E_HEADLESS", true)
	if headed {
		cfg.Headless = false
	}

	cfg.DefaultTimeout = parseDurationOrDefault("E2E_DEFAULT_TIMEOUT", time.Second)
	cfg.PollInterval = parseDurationOrDefault("E2E_POLL_INTERVAL", 100*time.Millisecond)
	cfg.DownloadDir = getEnvOrDefault("E2E_DOWNLOAD_DIR", os.TempDir())

	cfg.TestFileDownload = parseBoolOrDefault("E2E_TEST_FILE_DOWNLOAD", false)
	cfg.VerifyFileDownload = parseBoolOrDefault("E2E_VERIFY_FILE_DOWNLOAD", false)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that all required configuration is present and valid.
func (c *Config) Validate() error {
	var errs []string

	if c.BaseURL == "" {
		errs = append(errs, "E2E_BASE_URL is required (set env var or use --base-url)")
	} else if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		errs = append(errs, fmt.Sprintf("E2E_BASE_URL must be an http(s) URL, got %q", c.BaseURL))
	}

	switch c.Browser {
	case BrowserChromium, BrowserFirefox, BrowserWebKit:
	default:
		errs = append(errs, fmt.Sprintf("E2E_BROWSER must be chromium, firefox or webkit, got %q", c.Browser))
	}

	if c.DefaultTimeout <= 0 {
		errs = append(errs, "E2E_DEFAULT_TIMEOUT must be positive")
	}
	if c.PollInterval <= 0 {
		errs = append(errs, "E2E_POLL_INTERVAL must be positive")
	}
	if c.PollInterval > 0 && c.DefaultTimeout > 0 && c.PollInterval > c.DefaultTimeout {
		errs = append(errs, "E2E_POLL_INTERVAL must not exceed E2E_DEFAULT_TIMEOUT")
	}
	if c.DownloadDir == "" {
		errs = append(errs, "E2E_DOWNLOAD_DIR must not be empty")
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// Helper functions for parsing environment variables

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func parseBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
