// Package navigation holds the pure navigation policies: the security
// interceptor, the OAuth keep-in-context rule and the chain combining them.
package navigation

import (
	"github.com/bnema/siteshell/internal/domain/entity"
	"github.com/bnema/siteshell/internal/domain/url"
)

var allowedSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"about": true,
}

// ShouldBlock evaluates rawURL against the persisted allowlist and the
// session-only allowed set. Checks run in order: format, scheme, internal
// pages, allowlist, session set. Matching is purely lexical.
func ShouldBlock(rawURL string, allowlist, sessionAllowed *entity.Allowlist) entity.Verdict {
	scheme := url.Scheme(rawURL)
	if scheme == "" {
		return entity.Blocked(entity.BlockReasonInvalidFormat, "", "")
	}
	if !allowedSchemes[scheme] {
		return entity.Blocked(entity.BlockReasonSchemeNotAllowed, scheme, "")
	}
	if scheme == "about" {
		if url.IsBlank(rawURL) {
			return entity.Allowed(scheme, "")
		}
		return entity.Blocked(entity.BlockReasonInternalPageBlocked, scheme, "")
	}

	parts, ok := url.Split(rawURL)
	if !ok || parts.Host == "" {
		return entity.Blocked(entity.BlockReasonInvalidFormat, scheme, "")
	}

	if allowlist.Matches(parts.Host) || sessionAllowed.Matches(parts.Host) {
		return entity.Allowed(scheme, parts.Host)
	}
	return entity.Blocked(entity.BlockReasonDomainNotAllowlisted, scheme, parts.Host)
}
