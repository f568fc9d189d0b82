// Package url provides lexical URL helpers used by the navigation policies.
// Nothing here resolves names or touches the network.
package url

import (
	"net/url"
	"strings"
)

// BlankPage is the only internal page a context may show.
const BlankPage = "about:blank"

// Normalize adds an https:// prefix to URL-like input typed by the user.
// Returns the input unchanged if it already has a scheme or doesn't look like a URL.
func Normalize(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	if HasScheme(input) {
		return input
	}
	if LooksLikeURL(input) {
		return "https://" + input
	}
	return input
}

// HasScheme reports whether input starts with one of the schemes users type.
func HasScheme(input string) bool {
	lower := strings.ToLower(input)
	for _, p := range []string{"http://", "https://", "about:", "file://", "data:", "javascript:"} {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

// LooksLikeURL checks if the input appears to be a URL rather than free text.
func LooksLikeURL(input string) bool {
	if input == "" {
		return false
	}
	if HasScheme(input) {
		return true
	}
	// Contains a dot and no spaces = likely a URL
	return strings.Contains(input, ".") && !strings.Contains(input, " ")
}

// Scheme returns the lower-cased text before the first ':' or "" when the
// input has none.
func Scheme(raw string) string {
	i := strings.IndexByte(raw, ':')
	if i <= 0 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(raw[:i]))
}

// Parts is the lexical breakdown the security checks need.
type Parts struct {
	Scheme string
	// Host is lower-cased with any port removed.
	Host     string
	Path     string
	RawQuery string
	Opaque   string
}

// Split parses raw into Parts. ok is false for empty or unparseable input.
func Split(raw string) (Parts, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Parts{}, false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return Parts{}, false
	}
	return Parts{
		Scheme:   strings.ToLower(u.Scheme),
		Host:     strings.TrimSuffix(strings.ToLower(u.Hostname()), "."),
		Path:     u.Path,
		RawQuery: u.RawQuery,
		Opaque:   u.Opaque,
	}, true
}

// Host returns the lower-cased host of raw without port, or "".
func Host(raw string) string {
	p, ok := Split(raw)
	if !ok {
		return ""
	}
	return p.Host
}

// IsBlank reports whether raw is exactly the blank page.
func IsBlank(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), BlankPage)
}
