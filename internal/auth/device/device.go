// Package device turns raw User-Agent strings into human-readable device
// names for login audit trails.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

// ParseUserAgent returns a short "Browser on Platform" label. Unknown or
// empty input degrades gracefully rather than erroring.
func ParseUserAgent(ua string) string {
	if strings.TrimSpace(ua) == "" {
		return "Unknown Device"
	}
	parsed := useragent.New(ua)
	browser, _ := parsed.Browser()
	platform := parsed.OS()
	if platform == "" {
		platform = parsed.Platform()
	}
	if browser == "" {
		browser = "Unknown Browser"
	}
	if platform == "" {
		platform = "Unknown Platform"
	}
	return strings.TrimSpace(browser + " on " + platform)
}
