// Package helpers provides the pre-built login and logout sequences the
// suites share. Each sequence is straight-line driver glue: navigate, fill,
// click, then wait for the route the app lands on. A failed wait is fatal to
// the calling test step; nothing here retries.
package helpers

import (
	"context"
	"fmt"

	"github.com/tiplinehq/tipline-e2e/internal/fixtures"
	"github.com/tiplinehq/tipline-e2e/internal/obs"
	"github.com/tiplinehq/tipline-e2e/internal/session"
	"github.com/tiplinehq/tipline-e2e/internal/urlutil"
)

// Selectors of the app's login surface.
const (
	UsernameInput  = "input[name='username']"
	PasswordInput  = "input[name='password']"
	ReceiptInput   = "input[name='receipt']"
	ReceiverSelect = "select[name='receiver']"
	LoginButton    = "#login-button"
	LogoutLink     = "#logout-link"

	// The admin form's submit is identified by its visible text.
	loginTextButton = `button:has-text("Log in")`
)

// Routes the app lands on after each login.
const (
	adminLandingRoute  = "/admin/landing"
	statusRoute        = "/status"
	receiverTipsRoute  = "/receiver/tips"
	defaultReceiverURL = "/#/login"
)

// LoginAdmin signs the fixed admin fixture in via /#/admin and waits for the
// admin landing route.
func LoginAdmin(ctx context.Context, s *session.Session) error {
	ctx = obs.WithStep(s.Context(ctx), "login_admin")
	obs.From(ctx).Debug("logging in admin")

	if err := s.Navigate(ctx, "/#/admin"); err != nil {
		return fmt.Errorf("login admin: %w", err)
	}
	if err := s.WaitUntilReady(UsernameInput, 0); err != nil {
		return fmt.Errorf("login admin: %w", err)
	}
	if err := s.Fill(UsernameInput, fixtures.Admin.Username); err != nil {
		return fmt.Errorf("login admin: %w", err)
	}
	if err := s.Fill(PasswordInput, fixtures.Admin.UserPassword); err != nil {
		return fmt.Errorf("login admin: %w", err)
	}
	if err := s.Click(loginTextButton); err != nil {
		return fmt.Errorf("login admin: %w", err)
	}
	if err := s.WaitForURLFragment(ctx, adminLandingRoute); err != nil {
		return fmt.Errorf("login admin: %w", err)
	}
	return nil
}

// LoginWhistleblower opens the home page, enters the receipt code and waits
// for the submission status route.
func LoginWhistleblower(ctx context.Context, s *session.Session, receipt string) error {
	ctx = obs.WithStep(s.Context(ctx), "login_whistleblower")
	obs.From(ctx).Debug("logging in whistleblower")

	if err := s.Navigate(ctx, "/#/"); err != nil {
		return fmt.Errorf("login whistleblower: %w", err)
	}
	if err := s.WaitUntilReady(ReceiptInput, 0); err != nil {
		return fmt.Errorf("login whistleblower: %w", err)
	}
	if err := s.Fill(ReceiptInput, receipt); err != nil {
		return fmt.Errorf("login whistleblower: %w", err)
	}
	if err := s.Click(LoginButton); err != nil {
		return fmt.Errorf("login whistleblower: %w", err)
	}
	if err := s.WaitForURLFragment(ctx, statusRoute); err != nil {
		return fmt.Errorf("login whistleblower: %w", err)
	}
	return nil
}

// LoginReceiver signs a receiver in through loginURL ("/#/login" when empty):
// pick the receiver by its exact visible name, enter the password, submit,
// and wait for the post-login route.
func LoginReceiver(ctx context.Context, s *session.Session, username, password, loginURL string) error {
	ctx = obs.WithStep(s.Context(ctx), "login_receiver")
	if loginURL == "" {
		loginURL = defaultReceiverURL
	}
	obs.From(ctx).Debug("logging in receiver", "username", username, "url", loginURL)

	if err := s.Navigate(ctx, loginURL); err != nil {
		return fmt.Errorf("login receiver: %w", err)
	}
	if err := s.WaitUntilReady(ReceiverSelect, 0); err != nil {
		return fmt.Errorf("login receiver: %w", err)
	}
	if err := s.SelectByLabel(ReceiverSelect, username); err != nil {
		return fmt.Errorf("login receiver: %w", err)
	}
	if err := s.Fill(PasswordInput, password); err != nil {
		return fmt.Errorf("login receiver: %w", err)
	}
	if err := s.Click(LoginButton); err != nil {
		return fmt.Errorf("login receiver: %w", err)
	}
	if err := s.WaitForURLFragment(ctx, ReceiverLandingRoute(loginURL)); err != nil {
		return fmt.Errorf("login receiver: %w", err)
	}
	return nil
}

// ReceiverLandingRoute derives the route a receiver login through loginURL
// ends on: the standard login page lands on the tips list, a custom login URL
// lands back on its own fragment.
func ReceiverLandingRoute(loginURL string) string {
	fragment := urlutil.Fragment(loginURL)
	if fragment == "/login" {
		return receiverTipsRoute
	}
	return fragment
}

// Logout clicks the logout control and waits for the given redirect route
// ("/" when empty).
func Logout(ctx context.Context, s *session.Session, redirect string) error {
	ctx = obs.WithStep(s.Context(ctx), "logout")
	if redirect == "" {
		redirect = "/"
	}
	obs.From(ctx).Debug("logging out", "redirect", redirect)

	if err := s.Click(LogoutLink); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	if err := s.WaitForURLFragment(ctx, redirect); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
