package entity

import (
	"sort"
	"strings"
)

// CoreDomains are always allowed, whatever the persisted list contains.
var CoreDomains = []string{
	"chatgpt.com",
	"openai.com",
	"auth0.openai.com",
	"cdn.openai.com",
	"static.openai.com",
	"api.openai.com",
	"oaistatic.com",
	"oaiusercontent.com",
	"accounts.google.com",
	"googleapis.com",
	"gstatic.com",
	"sentry.io",
	"cloudflare.com",
	"azureedge.net",
}

// NormalizeDomain lower-cases and trims a domain entry. A leading "*." or
// "." is dropped since suffix matching already covers subdomains.
func NormalizeDomain(domain string) string {
	d := strings.ToLower(strings.TrimSpace(domain))
	d = strings.TrimPrefix(d, "*.")
	d = strings.TrimPrefix(d, ".")
	return strings.TrimSuffix(d, ".")
}

// Allowlist is a set of allowed domains. A host matches an entry when it is
// equal to it or ends with "." + entry.
type Allowlist struct {
	domains map[string]struct{}
}

// NewAllowlist builds a set from domains.
func NewAllowlist(domains ...string) *Allowlist {
	a := &Allowlist{domains: make(map[string]struct{}, len(domains))}
	for _, d := range domains {
		a.Add(d)
	}
	return a
}

// Add inserts a domain. It reports whether the set changed.
func (a *Allowlist) Add(domain string) bool {
	d := NormalizeDomain(domain)
	if d == "" {
		return false
	}
	if _, ok := a.domains[d]; ok {
		return false
	}
	a.domains[d] = struct{}{}
	return true
}

// Has reports whether the exact entry is present.
func (a *Allowlist) Has(domain string) bool {
	_, ok := a.domains[NormalizeDomain(domain)]
	return ok
}

// Matches reports whether host equals an entry or is a subdomain of one.
func (a *Allowlist) Matches(host string) bool {
	if a == nil {
		return false
	}
	h := NormalizeDomain(host)
	if h == "" {
		return false
	}
	for {
		if _, ok := a.domains[h]; ok {
			return true
		}
		dot := strings.IndexByte(h, '.')
		if dot < 0 {
			return false
		}
		h = h[dot+1:]
	}
}

// Len returns the number of entries.
func (a *Allowlist) Len() int {
	if a == nil {
		return 0
	}
	return len(a.domains)
}

// Domains returns the entries sorted.
func (a *Allowlist) Domains() []string {
	if a == nil {
		return nil
	}
	out := make([]string, 0, len(a.domains))
	for d := range a.domains {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy.
func (a *Allowlist) Clone() *Allowlist {
	return NewAllowlist(a.Domains()...)
}
