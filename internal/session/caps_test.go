package session

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// randomizeCase flips letter casing arbitrarily so the predicates are checked
// for case-insensitivity.
func randomizeCase(rt *rapid.T, s string) string {
	out := []rune(s)
	for i, r := range out {
		if rapid.Bool().Draw(rt, "upper") {
			out[i] = []rune(strings.ToUpper(string(r)))[0]
		} else {
			out[i] = []rune(strings.ToLower(string(r)))[0]
		}
	}
	return string(out)
}

func TestUploadCapable_AllowListAnyCasing(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(rt *rapid.T) {
		name := rapid.SampledFrom([]string{
			"chrome", "firefox", "internet explorer", "edge",
		}).Draw(rt, "browser")

		caps := Capabilities{Browser: randomizeCase(rt, name)}
		if !caps.UploadCapable() {
			rt.Fatalf("expected upload capable for %q", caps.Browser)
		}
	})
}

func TestUploadCapable_RejectsOtherBrowsers(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(rt *rapid.T) {
		name := rapid.SampledFrom([]string{
			"webkit", "safari", "opera", "konqueror", "phantomjs", "",
		}).Draw(rt, "browser")

		caps := Capabilities{Browser: name}
		if caps.UploadCapable() {
			rt.Fatalf("expected upload not capable for %q", name)
		}
	})
}

func TestAutoDownloadCapable_OnlyChromeOnLinux(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(rt *rapid.T) {
		browser := rapid.SampledFrom([]string{"chrome", "firefox", "webkit", "edge"}).Draw(rt, "browser")
		platform := rapid.SampledFrom([]string{"linux", "windows", "mac"}).Draw(rt, "platform")

		caps := Capabilities{
			Browser:  randomizeCase(rt, browser),
			Platform: randomizeCase(rt, platform),
		}
		want := browser == "chrome" && platform == "linux"
		if got := caps.AutoDownloadCapable(); got != want {
			rt.Fatalf("AutoDownloadCapable mismatch for %q/%q: got=%v want=%v",
				caps.Browser, caps.Platform, got, want)
		}
	})
}

func TestAutoDownloadCapable_ChromeOnWindowsIsFalse(t *testing.T) {
	t.Parallel()

	caps := Capabilities{Browser: "Chrome", Platform: "Windows"}
	if caps.AutoDownloadCapable() {
		t.Fatal("Chrome on Windows must not be download capable")
	}
}

func TestNormalizeBrowserName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"chromium": "chrome",
		"Chromium": "chrome",
		"chrome":   "chrome",
		"msedge":   "edge",
		"firefox":  "firefox",
		"webkit":   "webkit",
		" WebKit ": "webkit",
	}
	for in, want := range cases {
		if got := normalizeBrowserName(in); got != want {
			t.Fatalf("normalizeBrowserName(%q) mismatch: got=%q want=%q", in, got, want)
		}
	}
}

func TestNormalizePlatform(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Linux x86_64":  "linux",
		"Linux aarch64": "linux",
		"Win32":         "windows",
		"Win64":         "windows",
		"MacIntel":      "mac",
		"FreeBSD amd64": "freebsd amd64",
	}
	for in, want := range cases {
		if got := normalizePlatform(in); got != want {
			t.Fatalf("normalizePlatform(%q) mismatch: got=%q want=%q", in, got, want)
		}
	}
}
