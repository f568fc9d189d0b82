package navigation

import "github.com/bnema/siteshell/internal/domain/entity"

// Decision is the combined outcome of the policy chain.
type Decision struct {
	Action  entity.NavigationAction
	Verdict entity.Verdict
	OAuth   bool
}

// Decide runs the security check and then, for top-level frames only, the
// OAuth policy. Unknown domains on top-level frames escalate to a prompt;
// every other block is silent.
func Decide(req entity.NavigationRequest, allowlist, sessionAllowed *entity.Allowlist, oauth OAuthPolicy) Decision {
	verdict := ShouldBlock(req.URL, allowlist, sessionAllowed)
	if verdict.Blocked {
		if req.TopLevel && verdict.Promptable() {
			return Decision{Action: entity.NavigationPrompt, Verdict: verdict}
		}
		return Decision{Action: entity.NavigationBlock, Verdict: verdict}
	}

	if !req.TopLevel {
		return Decision{Action: entity.NavigationAllow, Verdict: verdict}
	}

	isOAuth := oauth.IsOAuthURL(req.URL)
	if isOAuth && !oauth.KeepInContext(req.URL) {
		return Decision{Action: entity.NavigationExternal, Verdict: verdict, OAuth: true}
	}
	return Decision{Action: entity.NavigationAllow, Verdict: verdict, OAuth: isOAuth}
}
