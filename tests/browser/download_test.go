package browser

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tiplinehq/tipline-e2e/internal/wait"
)

func TestBrowser_FileDownload(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	env := SetupBrowserTestEnv(t)
	ctx := context.Background()

	if !env.Session.SupportsFileDownload() {
		t.Skipf("downloads not supported for %+v", env.Session.Capabilities())
	}

	content := []byte("%PDF-1.4 downloaded attachment body")
	env.App.SeedAttachment(t, "report.pdf", content)

	if err := env.Session.Navigate(ctx, "/#/status"); err != nil {
		t.Fatalf("navigate failed: %v", err)
	}
	if err := env.Session.WaitUntilReady("#download-link", 0); err != nil {
		t.Fatalf("download link never became ready: %v", err)
	}

	download, err := env.Session.Page().ExpectDownload(func() error {
		return env.Session.Click("#download-link")
	})
	if err != nil {
		t.Fatalf("download did not start: %v", err)
	}

	path := filepath.Join(env.DownloadDir, download.SuggestedFilename())
	if err := download.SaveAs(path); err != nil {
		t.Fatalf("save download: %v", err)
	}

	if err := wait.ForFile(ctx, path, 2*time.Second, 50*time.Millisecond); err != nil {
		t.Fatalf("downloaded file never became ready: %v", err)
	}

	if env.Session.VerifyFileDownload() {
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read downloaded file: %v", err)
		}
		if string(got) != string(content) {
			t.Fatalf("downloaded bytes mismatch: got %d bytes", len(got))
		}
	}
}
