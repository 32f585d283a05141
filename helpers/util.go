package helpers

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var adCountRe = regexp.MustCompile(`([0-9][0-9,]*)`)

// ParseAdCount extracts the numeric ad count from the portal's display text,
// e.g. "~63 ads" or "1,200 ads". The second return value is false when the
// text carries no number.
func ParseAdCount(text string) (int, bool) {
	match := adCountRe.FindString(text)
	if match == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.ReplaceAll(match, ",", ""))
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseRegion strips the "Based in:" prefix from the portal's location line,
// e.g. "Based in: South Korea" becomes "South Korea".
func ParseRegion(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, ":"); idx >= 0 && strings.HasPrefix(strings.ToLower(text), "based in") {
		text = text[idx+1:]
	}
	return strings.TrimSpace(text)
}

// AbsoluteURL resolves href against base. Relative creative and advertiser
// links come back from the DOM without an origin.
func AbsoluteURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	h, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}

// CanonicalURL normalizes a detail URL for use as a dedup key: fragments are
// dropped and trailing slashes trimmed, queries are kept because the portal
// encodes the region there.
func CanonicalURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return strings.TrimSpace(raw)
	}
	u.Fragment = ""
	u.Path = strings.TrimRight(u.Path, "/")
	return u.String()
}
