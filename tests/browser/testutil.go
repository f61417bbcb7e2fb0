// Package browser contains the Playwright end-to-end suites for the login
// helpers and wait primitives, driven against the local fixture app.
// All test files use BrowserTestEnv via SetupBrowserTestEnv(t).
//
// Prerequisites:
// - Install Playwright browsers: go run github.com/playwright-community/playwright-go/cmd/playwright install chromium
// - Run tests with: go test -v ./tests/browser/...
package browser

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/tiplinehq/tipline-e2e/internal/apptest"
	"github.com/tiplinehq/tipline-e2e/internal/config"
	"github.com/tiplinehq/tipline-e2e/internal/session"
)

// browserMaxTimeout bounds every wait in this suite. Keep waits at or below
// this; a helper that needs longer is hiding a bug.
const browserMaxTimeout = 5 * time.Second

var fixtureMu sync.Mutex
var sharedFixture *BrowserTestEnv

// BrowserTestEnv is the unified environment for all browser tests: one
// fixture app and one browser session shared across the whole suite.
type BrowserTestEnv struct {
	App         *apptest.Server
	Cfg         *config.Config
	Session     *session.Session
	DownloadDir string
}

// SetupBrowserTestEnv returns the shared environment, creating it on first
// use and resetting per-test fixture state. Tests are skipped when the
// Playwright driver is not installed.
func SetupBrowserTestEnv(t *testing.T) *BrowserTestEnv {
	t.Helper()

	fixtureMu.Lock()
	defer fixtureMu.Unlock()

	if sharedFixture == nil {
		sharedFixture = createBrowserTestEnv(t)
	}
	sharedFixture.App.Reset()
	return sharedFixture
}

func createBrowserTestEnv(t *testing.T) *BrowserTestEnv {
	t.Helper()

	app, err := apptest.Start()
	if err != nil {
		t.Fatalf("start fixture app: %v", err)
	}

	downloadDir, err := os.MkdirTemp("", "e2e-downloads-*")
	if err != nil {
		app.Close()
		t.Fatalf("create download dir: %v", err)
	}

	cfg := &config.Config{
		BaseURL:        app.URL,
		Browser:        config.BrowserChromium,
		Headless:       true,
		DefaultTimeout: browserMaxTimeout,
		PollInterval:   50 * time.Millisecond,
		DownloadDir:    downloadDir,
	}
	if err := cfg.Validate(); err != nil {
		app.Close()
		t.Fatalf("fixture config invalid: %v", err)
	}

	sess, err := session.New(context.Background(), cfg)
	if err != nil {
		app.Close()
		_ = os.RemoveAll(downloadDir)
		t.Skip("Playwright not available:", err)
	}

	return &BrowserTestEnv{
		App:         app,
		Cfg:         cfg,
		Session:     sess,
		DownloadDir: downloadDir,
	}
}

func cleanupSharedBrowserTestEnv() {
	fixtureMu.Lock()
	defer fixtureMu.Unlock()

	if sharedFixture == nil {
		return
	}
	if sharedFixture.Session != nil {
		sharedFixture.Session.Close()
	}
	if sharedFixture.App != nil {
		sharedFixture.App.Close()
	}
	if sharedFixture.DownloadDir != "" {
		_ = os.RemoveAll(sharedFixture.DownloadDir)
	}
	sharedFixture = nil
}

func TestMain(m *testing.M) {
	code := m.Run()
	cleanupSharedBrowserTestEnv()
	os.Exit(code)
}

// routeLog reads the SPA's recorded hashchange log.
func routeLog(t *testing.T, env *BrowserTestEnv) []string {
	t.Helper()

	raw, err := env.Session.Page().Evaluate("() => window.__routeLog")
	if err != nil {
		t.Fatalf("read route log: %v", err)
	}
	entries, ok := raw.([]interface{})
	if !ok {
		t.Fatalf("route log has unexpected shape: %T", raw)
	}
	log := make([]string, 0, len(entries))
	for _, e := range entries {
		s, _ := e.(string)
		log = append(log, s)
	}
	return log
}
