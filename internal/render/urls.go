package render

import (
	"html/template"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Href normalizes a user-entered link for use in an anchor, prepending a
// scheme when the user typed a bare host.
func Href(raw string) template.URL {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") && !strings.HasPrefix(s, "mailto:") {
		s = "https://" + s
	}
	return template.URL(s)
}

// URLLabel derives a compact display label (eTLD+1) for a link, falling back
// to the hostname or the raw string when parsing fails.
func URLLabel(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	candidate := s
	if !strings.HasPrefix(candidate, "http://") && !strings.HasPrefix(candidate, "https://") {
		candidate = "https://" + candidate
	}
	parsed, err := url.Parse(candidate)
	if err != nil {
		return s
	}
	host := parsed.Hostname()
	if host == "" {
		return s
	}
	if etld, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return strings.TrimPrefix(etld, "www.")
	}
	return strings.TrimPrefix(host, "www.")
}
