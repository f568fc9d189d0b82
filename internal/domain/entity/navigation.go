package entity

// BlockReason explains why a navigation was refused.
type BlockReason int

const (
	// BlockReasonNone means the navigation is allowed.
	BlockReasonNone BlockReason = iota
	// BlockReasonInvalidFormat covers empty or unparseable URLs.
	BlockReasonInvalidFormat
	// BlockReasonSchemeNotAllowed covers anything but http, https and about.
	BlockReasonSchemeNotAllowed
	// BlockReasonInternalPageBlocked covers about: pages other than about:blank.
	BlockReasonInternalPageBlocked
	// BlockReasonDomainNotAllowlisted means the host matched no allowed domain.
	BlockReasonDomainNotAllowlisted
)

func (r BlockReason) String() string {
	switch r {
	case BlockReasonNone:
		return "none"
	case BlockReasonInvalidFormat:
		return "invalid_format"
	case BlockReasonSchemeNotAllowed:
		return "scheme_not_allowed"
	case BlockReasonInternalPageBlocked:
		return "internal_page_blocked"
	case BlockReasonDomainNotAllowlisted:
		return "domain_not_allowlisted"
	default:
		return "unknown"
	}
}

// Verdict is the outcome of a security check.
type Verdict struct {
	Blocked bool
	Reason  BlockReason
	Scheme  string
	Host    string
}

// Allowed builds a non-blocking verdict.
func Allowed(scheme, host string) Verdict {
	return Verdict{Scheme: scheme, Host: host}
}

// Blocked builds a blocking verdict.
func Blocked(reason BlockReason, scheme, host string) Verdict {
	return Verdict{Blocked: true, Reason: reason, Scheme: scheme, Host: host}
}

// Promptable reports whether the user may be asked to override the block.
func (v Verdict) Promptable() bool {
	return v.Blocked && v.Reason == BlockReasonDomainNotAllowlisted && v.Host != ""
}

// NavigationRequest is one navigation attempt reported by the engine.
type NavigationRequest struct {
	ContextID   ContextID
	WorkspaceID WorkspaceID
	URL         string
	TopLevel    bool
}

// DomainDecision is the user's answer to an unknown-domain prompt.
type DomainDecision int

const (
	// DomainDecisionCancel aborts the navigation. A dismissed prompt maps here.
	DomainDecisionCancel DomainDecision = iota
	// DomainDecisionAllowOnce allows the host until the process exits.
	DomainDecisionAllowOnce
	// DomainDecisionAlwaysAllow adds the host to the persisted allowlist.
	DomainDecisionAlwaysAllow
)

func (d DomainDecision) String() string {
	switch d {
	case DomainDecisionAllowOnce:
		return "allow_once"
	case DomainDecisionAlwaysAllow:
		return "always_allow"
	default:
		return "cancel"
	}
}

// OAuthMode selects what happens to identity-provider navigations.
type OAuthMode string

const (
	// OAuthModeKeepInContext keeps the login flow inside the embedded context.
	OAuthModeKeepInContext OAuthMode = "keep_in_context"
	// OAuthModeExternal hands the login flow to the system browser.
	OAuthModeExternal OAuthMode = "external"
)

// NavigationAction is the final answer given to the engine.
type NavigationAction int

const (
	NavigationAllow NavigationAction = iota
	NavigationBlock
	// NavigationPrompt blocks now and asks the user; an allow answer reloads
	// the URL in the originating context.
	NavigationPrompt
	// NavigationExternal blocks now and opens the URL in the system browser.
	NavigationExternal
)

func (a NavigationAction) String() string {
	switch a {
	case NavigationAllow:
		return "allow"
	case NavigationBlock:
		return "block"
	case NavigationPrompt:
		return "prompt"
	case NavigationExternal:
		return "external"
	default:
		return "unknown"
	}
}
