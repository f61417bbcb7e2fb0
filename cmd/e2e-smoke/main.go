// e2e-smoke drives the login surface of a running deployment once and exits
// non-zero on failure. It is the quick "is the instance alive and loggable"
// check run before the full suite.
//
// Usage:
//
//	e2e-smoke --base-url https://demo.tipline.dev [--browser firefox] [--headed]
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tiplinehq/tipline-e2e/internal/config"
	"github.com/tiplinehq/tipline-e2e/internal/helpers"
	"github.com/tiplinehq/tipline-e2e/internal/obs"
	"github.com/tiplinehq/tipline-e2e/internal/session"
)

func main() {
	obs.Init()

	baseURL, browser, headed := config.ParseFlags()
	cfg, err := config.LoadConfig(baseURL, browser, headed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "e2e-smoke: %v\n", err)
		os.Exit(2)
	}

	if err := run(context.Background(), cfg); err != nil {
		obs.Pkg("smoke").Error("smoke check failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	sess, err := session.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx = sess.Context(ctx)
	log := obs.From(ctx)

	caps := sess.Capabilities()
	log.Info("capability report",
		"version", caps.Version,
		"file_upload", sess.SupportsFileUpload(),
		"file_download", sess.SupportsFileDownload(),
		"verify_download", sess.VerifyFileDownload(),
	)

	if err := helpers.LoginAdmin(ctx, sess); err != nil {
		return err
	}
	log.Info("admin login ok", "fragment", sess.CurrentFragment())

	if err := helpers.Logout(ctx, sess, ""); err != nil {
		return err
	}
	log.Info("logout ok")
	return nil
}
