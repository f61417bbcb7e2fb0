// Package session wraps a single playwright browser session shared by a test
// run. One session means one browser, one page, and one capability descriptor
// captured before any predicate can read it. Helper calls are expected to be
// invoked sequentially; the session spawns no concurrent work of its own.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"

	"github.com/tiplinehq/tipline-e2e/internal/config"
	"github.com/tiplinehq/tipline-e2e/internal/errs"
	"github.com/tiplinehq/tipline-e2e/internal/obs"
	"github.com/tiplinehq/tipline-e2e/internal/urlutil"
	"github.com/tiplinehq/tipline-e2e/internal/wait"
)

// Session is a live browser session against the deployment under test.
type Session struct {
	cfg     *config.Config
	pw      *playwright.Playwright
	browser playwright.Browser
	bctx    playwright.BrowserContext
	page    playwright.Page
	caps    Capabilities
	runID   string
}

// New starts playwright, launches the configured browser, opens the session
// page and captures the capability descriptor. The descriptor is written
// exactly once here, before New returns, so every later predicate reads an
// immutable value.
func New(ctx context.Context, cfg *config.Config) (*Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, errs.Wrap(errs.Unavailable, "playwright driver is not installed", err)
	}

	var browserType playwright.BrowserType
	switch cfg.Browser {
	case config.BrowserFirefox:
		browserType = pw.Firefox
	case config.BrowserWebKit:
		browserType = pw.WebKit
	default:
		browserType = pw.Chromium
	}

	browser, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless:      playwright.Bool(cfg.Headless),
		DownloadsPath: playwright.String(cfg.DownloadDir),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, errs.Wrap(errs.Unavailable, fmt.Sprintf("could not launch %s", cfg.Browser), err)
	}

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		AcceptDownloads: playwright.Bool(true),
	})
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("create browser context: %w", err)
	}
	bctx.SetDefaultTimeout(float64(cfg.DefaultTimeout.Milliseconds()))

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("create page: %w", err)
	}
	page.SetDefaultTimeout(float64(cfg.DefaultTimeout.Milliseconds()))

	s := &Session{
		cfg:     cfg,
		pw:      pw,
		browser: browser,
		bctx:    bctx,
		page:    page,
		runID:   uuid.NewString()[:8],
	}

	if err := s.captureCapabilities(); err != nil {
		s.Close()
		return nil, err
	}

	obs.From(s.Context(ctx)).Info("browser session started",
		"version", s.caps.Version)
	return s, nil
}

// captureCapabilities queries the driver for browser name, version and
// platform and caches them on the session.
func (s *Session) captureCapabilities() error {
	raw, err := s.page.Evaluate("() => navigator.platform")
	if err != nil {
		return fmt.Errorf("query platform capability: %w", err)
	}
	platform, _ := raw.(string)

	s.caps = Capabilities{
		Browser:  normalizeBrowserName(s.cfg.Browser),
		Platform: normalizePlatform(platform),
		Version:  s.browser.Version(),
	}
	return nil
}

// Context returns ctx with this session's correlation fields attached.
func (s *Session) Context(ctx context.Context) context.Context {
	return obs.WithCorrelation(ctx, obs.Correlation{
		RunID:    s.runID,
		Browser:  s.caps.Browser,
		Platform: s.caps.Platform,
		BaseURL:  s.cfg.BaseURL,
	})
}

// Capabilities returns the descriptor captured at session start.
func (s *Session) Capabilities() Capabilities {
	return s.caps
}

// Page exposes the underlying driver page for suite-specific interactions.
func (s *Session) Page() playwright.Page {
	return s.page
}

// SupportsFileUpload reports whether upload scenarios can run in this session.
func (s *Session) SupportsFileUpload() bool {
	return s.caps.UploadCapable()
}

// SupportsFileDownload reports whether download scenarios can run: either the
// configuration requests them explicitly, or the browser/platform combination
// downloads without a user dialog.
func (s *Session) SupportsFileDownload() bool {
	if s.cfg.TestFileDownload {
		return true
	}
	return s.caps.AutoDownloadCapable()
}

// VerifyFileDownload reports whether downloaded bytes should be checked.
func (s *Session) VerifyFileDownload() bool {
	return s.cfg.VerifyFileDownload
}

// Navigate opens path (absolute or relative to the configured base URL) and
// waits for DOMContentLoaded.
func (s *Session) Navigate(ctx context.Context, path string) error {
	target := urlutil.BuildAbsolute(s.cfg.BaseURL, path)
	obs.From(s.Context(ctx)).Debug("navigate", "url", target)

	_, err := s.page.Goto(target, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(s.cfg.DefaultTimeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("navigate to %s: %w", target, err)
	}
	return nil
}

// CurrentFragment returns the fragment of the page's current URL.
func (s *Session) CurrentFragment() string {
	return urlutil.Fragment(s.page.URL())
}

// WaitUntilReady waits, bounded by timeout (the configured default when
// zero), first until the element is attached to the document and then,
// separately, until it is displayed. Driver wait failures propagate to the
// caller unmodified.
func (s *Session) WaitUntilReady(selector string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = s.cfg.DefaultTimeout
	}
	ms := playwright.Float(float64(timeout.Milliseconds()))

	locator := s.page.Locator(selector).First()
	if err := locator.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: ms,
	}); err != nil {
		return fmt.Errorf("wait for %s to be present: %w", selector, err)
	}
	if err := locator.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: ms,
	}); err != nil {
		return fmt.Errorf("wait for %s to be displayed: %w", selector, err)
	}
	return nil
}

// WaitForURLFragment polls until the current URL fragment equals target
// exactly. Near-misses ("/status2" for "/status") never satisfy the wait.
func (s *Session) WaitForURLFragment(ctx context.Context, target string) error {
	err := wait.Until(ctx, s.cfg.DefaultTimeout, s.cfg.PollInterval, func(context.Context) (bool, error) {
		return s.CurrentFragment() == target, nil
	})
	if err != nil {
		if errs.IsDeadline(err) {
			return errs.Wrap(errs.DeadlineExceeded,
				fmt.Sprintf("url fragment never became %q (last %q)", target, s.CurrentFragment()), err)
		}
		return err
	}
	return nil
}

// SetLocation sets the page's URL fragment through the driver.
func (s *Session) SetLocation(fragment string) error {
	if _, err := s.page.Evaluate("frag => { window.location.hash = frag; }", fragment); err != nil {
		return fmt.Errorf("set location to %q: %w", fragment, err)
	}
	return nil
}

// EmulateUserRefresh simulates a client-side-route refresh without a full
// page reload: capture the current fragment, clear the location, restore it.
// The ordering is fixed; exactly two location sets happen, clear then restore.
func (s *Session) EmulateUserRefresh(ctx context.Context) error {
	fragment := s.CurrentFragment()
	obs.From(s.Context(ctx)).Debug("emulate user refresh", "fragment", fragment)

	if err := s.SetLocation(""); err != nil {
		return err
	}
	return s.SetLocation(fragment)
}

// Click clicks the first element matching selector.
func (s *Session) Click(selector string) error {
	if err := s.page.Locator(selector).First().Click(); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	return nil
}

// Fill replaces the value of the input matching selector.
func (s *Session) Fill(selector, value string) error {
	if err := s.page.Locator(selector).First().Fill(value); err != nil {
		return fmt.Errorf("fill %s: %w", selector, err)
	}
	return nil
}

// SelectByLabel picks the option whose visible text matches label exactly.
func (s *Session) SelectByLabel(selector, label string) error {
	_, err := s.page.Locator(selector).First().SelectOption(playwright.SelectOptionValues{
		Labels: &[]string{label},
	})
	if err != nil {
		return fmt.Errorf("select %q in %s: %w", label, selector, err)
	}
	return nil
}

// Close tears the session down. Safe to call more than once.
func (s *Session) Close() {
	if s.page != nil {
		_ = s.page.Close()
		s.page = nil
	}
	if s.bctx != nil {
		_ = s.bctx.Close()
		s.bctx = nil
	}
	if s.browser != nil {
		_ = s.browser.Close()
		s.browser = nil
	}
	if s.pw != nil {
		_ = s.pw.Stop()
		s.pw = nil
	}
}
