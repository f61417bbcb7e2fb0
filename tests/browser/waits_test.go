package browser

import (
	"context"
	"testing"
	"time"

	"github.com/tiplinehq/tipline-e2e/internal/errs"
	"github.com/tiplinehq/tipline-e2e/internal/helpers"
)

func TestBrowser_WaitUntilReady_PresentThenDisplayed(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	env := SetupBrowserTestEnv(t)
	ctx := context.Background()

	if err := env.Session.Navigate(ctx, "/#/"); err != nil {
		t.Fatalf("navigate failed: %v", err)
	}
	if err := env.Session.WaitUntilReady(helpers.ReceiptInput, 0); err != nil {
		t.Fatalf("receipt input never became ready: %v", err)
	}
}

func TestBrowser_WaitUntilReady_MissingElementFails(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	env := SetupBrowserTestEnv(t)
	ctx := context.Background()

	if err := env.Session.Navigate(ctx, "/#/"); err != nil {
		t.Fatalf("navigate failed: %v", err)
	}
	if err := env.Session.WaitUntilReady("#no-such-element", 500*time.Millisecond); err == nil {
		t.Fatal("expected wait failure for missing element")
	}
}

func TestBrowser_WaitForURLFragment_ExactMatchOnly(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	env := SetupBrowserTestEnv(t)
	ctx := context.Background()

	// /status2 is a near miss; the wait for /status must run to its deadline.
	if err := env.Session.Navigate(ctx, "/#/status2"); err != nil {
		t.Fatalf("navigate failed: %v", err)
	}
	err := env.Session.WaitForURLFragment(ctx, "/status")
	if !errs.IsDeadline(err) {
		t.Fatalf("expected deadline for near-miss fragment, got %v", err)
	}

	if err := env.Session.SetLocation("/status"); err != nil {
		t.Fatalf("set location failed: %v", err)
	}
	if err := env.Session.WaitForURLFragment(ctx, "/status"); err != nil {
		t.Fatalf("exact fragment did not satisfy the wait: %v", err)
	}
}

func TestBrowser_WaitForURLFragment_PrefixIsNotAMatch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	env := SetupBrowserTestEnv(t)
	ctx := context.Background()

	if err := env.Session.Navigate(ctx, "/#/stat"); err != nil {
		t.Fatalf("navigate failed: %v", err)
	}
	err := env.Session.WaitForURLFragment(ctx, "/status")
	if !errs.IsDeadline(err) {
		t.Fatalf("expected deadline for prefix fragment, got %v", err)
	}
}
