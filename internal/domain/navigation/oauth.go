package navigation

import (
	"strings"

	"github.com/bnema/siteshell/internal/domain/entity"
	"github.com/bnema/siteshell/internal/domain/url"
)

// DefaultOAuthProviders are identity-provider host patterns. A host matches
// when it contains a pattern.
var DefaultOAuthProviders = []string{
	"accounts.google.com",
	"oauth2.googleapis.com",
	"accounts.youtube.com",
	"myaccount.google.com",
	"oauth.googleusercontent.com",
}

// DefaultOAuthPathKeywords mark an authentication endpoint on a provider host.
var DefaultOAuthPathKeywords = []string{"oauth", "auth", "signin", "login"}

// DefaultOAuthQueryKeywords mark an authorization request in the query.
var DefaultOAuthQueryKeywords = []string{"oauth", "response_type"}

// OAuthPolicy decides whether an identity-provider navigation stays inside
// the embedded context. It only applies to top-level navigations that
// already passed ShouldBlock.
type OAuthPolicy struct {
	Mode          entity.OAuthMode
	Providers     []string
	PathKeywords  []string
	QueryKeywords []string
}

// DefaultOAuthPolicy keeps login flows in context.
func DefaultOAuthPolicy() OAuthPolicy {
	return OAuthPolicy{
		Mode:          entity.OAuthModeKeepInContext,
		Providers:     DefaultOAuthProviders,
		PathKeywords:  DefaultOAuthPathKeywords,
		QueryKeywords: DefaultOAuthQueryKeywords,
	}
}

// IsOAuthURL reports whether rawURL is an authentication request on a known
// identity provider.
func (p OAuthPolicy) IsOAuthURL(rawURL string) bool {
	parts, ok := url.Split(strings.ToLower(rawURL))
	if !ok || parts.Host == "" {
		return false
	}
	if !containsAny(parts.Host, p.Providers) {
		return false
	}
	return containsAny(strings.ToLower(parts.Path), p.PathKeywords) ||
		containsAny(strings.ToLower(parts.RawQuery), p.QueryKeywords)
}

// KeepInContext reports whether the navigation must stay in the embedded
// context instead of being diverted to the system browser. Non-OAuth URLs
// are never diverted.
func (p OAuthPolicy) KeepInContext(rawURL string) bool {
	if !p.IsOAuthURL(rawURL) {
		return true
	}
	return p.Mode != entity.OAuthModeExternal
}

func containsAny(s string, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern != "" && strings.Contains(s, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}
