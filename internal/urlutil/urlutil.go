// Package urlutil handles the URL shapes of a hash-routed single page app:
// the client-side route lives in the fragment, the part after the first '#'.
package urlutil

import (
	"strings"
)

// Fragment returns the client-side route of raw: everything after the first
// '#'. A URL without a fragment yields "".
func Fragment(raw string) string {
	if i := strings.Index(raw, "#"); i >= 0 {
		return raw[i+1:]
	}
	return ""
}

// BuildAbsolute builds an absolute URL from a base origin and a path.
func BuildAbsolute(base, path string) string {
	base = NormalizeBaseURL(base)
	if path == "" {
		return base
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if strings.HasPrefix(path, "/") {
		return base + path
	}
	return base + "/" + path
}

// NormalizeBaseURL trims whitespace and any trailing slashes.
func NormalizeBaseURL(base string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return ""
	}
	return strings.TrimRight(base, "/")
}
