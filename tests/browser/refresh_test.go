package browser

import (
	"context"
	"testing"
)

func TestBrowser_EmulateUserRefresh_ClearsThenRestores(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	env := SetupBrowserTestEnv(t)
	ctx := context.Background()

	if err := env.Session.Navigate(ctx, "/#/admin"); err != nil {
		t.Fatalf("navigate failed: %v", err)
	}
	before := len(routeLog(t, env))

	if err := env.Session.EmulateUserRefresh(ctx); err != nil {
		t.Fatalf("emulate user refresh failed: %v", err)
	}
	if err := env.Session.WaitForURLFragment(ctx, "/admin"); err != nil {
		t.Fatalf("fragment not restored after refresh: %v", err)
	}

	log := routeLog(t, env)
	if len(log) != before+2 {
		t.Fatalf("expected exactly two location sets, route log grew by %d: %v", len(log)-before, log)
	}
	if log[len(log)-2] != "" {
		t.Fatalf("first location set must clear the fragment, got %q", log[len(log)-2])
	}
	if log[len(log)-1] != "#/admin" {
		t.Fatalf("second location set must restore the fragment, got %q", log[len(log)-1])
	}
}

func TestBrowser_EmulateUserRefresh_WorksForAnyRoute(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	env := SetupBrowserTestEnv(t)
	ctx := context.Background()

	for _, route := range []string{"/status", "/receiver/tips", "/"} {
		if err := env.Session.Navigate(ctx, "/#"+route); err != nil {
			t.Fatalf("navigate to %q failed: %v", route, err)
		}
		if err := env.Session.EmulateUserRefresh(ctx); err != nil {
			t.Fatalf("refresh on %q failed: %v", route, err)
		}
		if err := env.Session.WaitForURLFragment(ctx, route); err != nil {
			t.Fatalf("fragment %q not restored: %v", route, err)
		}
	}
}
