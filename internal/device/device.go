// Package device turns a raw User-Agent header into the structured client
// breakdown stored with each conversation log.
package device

import (
	"fmt"
	"strings"

	"github.com/jordanarrivado/ajs-portfolio/internal/domain"
	"github.com/mssola/useragent"
)

const (
	TypeMobile = "mobile"
	TypeTablet = "tablet"
	TypeBot    = "bot"

	// UnknownAgent is stored when the client sent no User-Agent
	UnknownAgent = "unknown"
)

// Parse derives the device breakdown from a User-Agent string
func Parse(raw string) domain.Device {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == UnknownAgent {
		return domain.Device{}
	}

	ua := useragent.New(raw)
	browser, version := ua.Browser()
	osInfo := ua.OSInfo()

	d := domain.Device{
		Browser: domain.NameVersion{Name: browser, Version: version},
		OS:      domain.NameVersion{Name: osInfo.Name, Version: osInfo.Version},
	}

	switch {
	case ua.Bot():
		d.Device.Type = TypeBot
	case isTablet(raw):
		d.Device.Type = TypeTablet
	case ua.Mobile():
		d.Device.Type = TypeMobile
	}

	return d
}

func isTablet(raw string) bool {
	lower := strings.ToLower(raw)
	if strings.Contains(lower, "ipad") || strings.Contains(lower, "tablet") {
		return true
	}
	// Android tablets omit the "Mobile" token
	return strings.Contains(lower, "android") && !strings.Contains(lower, "mobile")
}

// Summary renders a one-line description used in the system prompt,
// e.g. "Chrome 120.0.0.0 on Windows 10 (Desktop)".
func Summary(d domain.Device) string {
	browser := joinNonEmpty(d.Browser.Name, d.Browser.Version)
	os := joinNonEmpty(d.OS.Name, d.OS.Version)

	if browser == "" && os == "" {
		return "an unknown device"
	}
	if browser == "" {
		browser = "an unknown browser"
	}
	if os == "" {
		os = "an unknown OS"
	}

	class := domain.DefaultDeviceType
	if d.Device.Type != "" {
		class = strings.ToUpper(d.Device.Type[:1]) + d.Device.Type[1:]
	}

	return fmt.Sprintf("%s on %s (%s)", browser, os, class)
}

// Agent returns the raw string to store, substituting a marker for blanks
func Agent(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return UnknownAgent
	}
	return raw
}

func joinNonEmpty(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
