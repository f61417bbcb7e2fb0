package session

import (
	"strings"
)

// Capabilities is the descriptor of the launched browser, captured exactly
// once when the session starts and immutable afterwards. Comparisons are
// case-insensitive against fixed allow-lists.
type Capabilities struct {
	Browser  string // chrome, firefox, webkit, edge, internet explorer
	Platform string // OS family: linux, windows, mac
	Version  string
}

// uploadCapable lists the browsers whose file-input automation is reliable
// enough to run the upload scenarios against.
var uploadCapable = map[string]bool{
	"chrome":            true,
	"firefox":           true,
	"internet explorer": true,
	"edge":              true,
}

// UploadCapable reports whether the upload scenarios can run on this browser.
func (c Capabilities) UploadCapable() bool {
	return uploadCapable[strings.ToLower(c.Browser)]
}

// AutoDownloadCapable reports whether downloads complete without a user
// dialog. Chrome on Linux is the only combination where that holds.
func (c Capabilities) AutoDownloadCapable() bool {
	return strings.EqualFold(c.Browser, "chrome") && strings.EqualFold(c.Platform, "linux")
}

// normalizeBrowserName maps the engine names the driver reports onto the
// browser identifiers the capability allow-lists use.
func normalizeBrowserName(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "chromium", "chrome":
		return "chrome"
	case "msedge", "edge":
		return "edge"
	default:
		return strings.ToLower(strings.TrimSpace(name))
	}
}

// normalizePlatform reduces a navigator.platform value ("Linux x86_64",
// "MacIntel", "Win32") to its OS family token.
func normalizePlatform(navPlatform string) string {
	p := strings.ToLower(strings.TrimSpace(navPlatform))
	switch {
	case strings.HasPrefix(p, "linux"):
		return "linux"
	case strings.HasPrefix(p, "win"):
		return "windows"
	case strings.HasPrefix(p, "mac"):
		return "mac"
	default:
		return p
	}
}
