package locale

import "regexp"

var (
	// langAttrPattern matches a lang attribute anywhere in the body. This is a
	// plain text search, not an HTML parse: it fires on any element carrying a
	// lang attribute, not just the document root. That looseness is the
	// documented behavior and must not be tightened.
	langAttrPattern = regexp.MustCompile(`lang=["']([-a-zA-Z]+)`)

	// cookieLocalePattern matches the one known cookie locale marker.
	cookieLocalePattern = regexp.MustCompile(`ae=l=([-a-zA-Z]+)`)
)

// Extract returns the locale tag the server used for a response, if any.
// The body's lang attribute wins over the cookie marker; both searches are
// case-sensitive on the marker text and return the first match.
func Extract(body, cookieHeader string) (string, bool) {
	if m := langAttrPattern.FindStringSubmatch(body); m != nil {
		return m[1], true
	}
	if m := cookieLocalePattern.FindStringSubmatch(cookieHeader); m != nil {
		return m[1], true
	}
	return "", false
}
