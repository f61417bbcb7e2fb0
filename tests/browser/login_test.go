package browser

import (
	"context"
	"testing"

	"github.com/tiplinehq/tipline-e2e/internal/fixtures"
	"github.com/tiplinehq/tipline-e2e/internal/helpers"
)

func TestBrowser_LoginAdmin(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	env := SetupBrowserTestEnv(t)
	ctx := context.Background()

	if err := helpers.LoginAdmin(ctx, env.Session); err != nil {
		t.Fatalf("admin login failed: %v", err)
	}
	if got := env.Session.CurrentFragment(); got != "/admin/landing" {
		t.Fatalf("expected admin landing route, got %q", got)
	}
}

func TestBrowser_LoginWhistleblower(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	env := SetupBrowserTestEnv(t)
	ctx := context.Background()

	receipt := fixtures.NewReceipt()
	env.App.RegisterReceipt(receipt)

	if err := helpers.LoginWhistleblower(ctx, env.Session, receipt); err != nil {
		t.Fatalf("whistleblower login failed: %v", err)
	}
	if got := env.Session.CurrentFragment(); got != "/status" {
		t.Fatalf("expected status route, got %q", got)
	}
}

func TestBrowser_LoginWhistleblower_BadReceiptStaysOnHome(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	env := SetupBrowserTestEnv(t)
	ctx := context.Background()

	err := helpers.LoginWhistleblower(ctx, env.Session, fixtures.NewReceipt())
	if err == nil {
		t.Fatal("expected login to fail for unregistered receipt")
	}
}

func TestBrowser_LoginReceiver_StandardURL(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	env := SetupBrowserTestEnv(t)
	ctx := context.Background()

	err := helpers.LoginReceiver(ctx, env.Session,
		fixtures.Receiver1.Username, fixtures.Receiver1.UserPassword, "")
	if err != nil {
		t.Fatalf("receiver login failed: %v", err)
	}
	if got := env.Session.CurrentFragment(); got != "/receiver/tips" {
		t.Fatalf("standard receiver login must land on tips, got %q", got)
	}
}

func TestBrowser_LoginReceiver_CustomURLKeepsFragment(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	env := SetupBrowserTestEnv(t)
	ctx := context.Background()

	err := helpers.LoginReceiver(ctx, env.Session,
		fixtures.Receiver2.Username, fixtures.Receiver2.UserPassword, "/#/other")
	if err != nil {
		t.Fatalf("receiver login via custom URL failed: %v", err)
	}
	if got := env.Session.CurrentFragment(); got != "/other" {
		t.Fatalf("custom receiver login must stay on its fragment, got %q", got)
	}
}

func TestBrowser_Logout(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	env := SetupBrowserTestEnv(t)
	ctx := context.Background()

	if err := helpers.LoginAdmin(ctx, env.Session); err != nil {
		t.Fatalf("admin login failed: %v", err)
	}
	if err := helpers.Logout(ctx, env.Session, ""); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if got := env.Session.CurrentFragment(); got != "/" {
		t.Fatalf("logout must land on home route, got %q", got)
	}
}

func TestBrowser_Capabilities(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	env := SetupBrowserTestEnv(t)

	caps := env.Session.Capabilities()
	if caps.Browser != "chrome" {
		t.Fatalf("chromium session must report chrome, got %q", caps.Browser)
	}
	if caps.Platform == "" || caps.Version == "" {
		t.Fatalf("capability descriptor incomplete: %+v", caps)
	}
	if !env.Session.SupportsFileUpload() {
		t.Fatal("chrome must be upload capable")
	}
}
