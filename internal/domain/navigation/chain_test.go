package navigation_test

import (
	"testing"

	"github.com/bnema/siteshell/internal/domain/entity"
	"github.com/bnema/siteshell/internal/domain/navigation"
	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	allowlist := entity.NewAllowlist(entity.CoreDomains...)
	external := navigation.DefaultOAuthPolicy()
	external.Mode = entity.OAuthModeExternal
	googleLogin := "https://accounts.google.com/o/oauth2/auth?response_type=code"

	tests := []struct {
		name     string
		url      string
		topLevel bool
		oauth    navigation.OAuthPolicy
		want     entity.NavigationAction
		wantAuth bool
	}{
		{"allowed top-level", "https://chatgpt.com/c/1", true, navigation.DefaultOAuthPolicy(), entity.NavigationAllow, false},
		{"unknown top-level prompts", "https://example.com", true, navigation.DefaultOAuthPolicy(), entity.NavigationPrompt, false},
		{"unknown subframe silent", "https://example.com", false, navigation.DefaultOAuthPolicy(), entity.NavigationBlock, false},
		{"bad scheme never prompts", "file:///etc/passwd", true, navigation.DefaultOAuthPolicy(), entity.NavigationBlock, false},
		{"oauth kept in context", googleLogin, true, navigation.DefaultOAuthPolicy(), entity.NavigationAllow, true},
		{"oauth external mode", googleLogin, true, external, entity.NavigationExternal, true},
		{"oauth ignored for subframes", googleLogin, false, external, entity.NavigationAllow, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := entity.NavigationRequest{URL: tt.url, TopLevel: tt.topLevel}
			d := navigation.Decide(req, allowlist, nil, tt.oauth)
			assert.Equal(t, tt.want, d.Action)
			assert.Equal(t, tt.wantAuth, d.OAuth)
		})
	}
}

func TestDecide_OAuthNeverOverridesBlock(t *testing.T) {
	req := entity.NavigationRequest{URL: "https://accounts.google.com/o/oauth2/auth", TopLevel: true}
	d := navigation.Decide(req, entity.NewAllowlist("chatgpt.com"), nil, navigation.DefaultOAuthPolicy())
	assert.Equal(t, entity.NavigationPrompt, d.Action)
	assert.False(t, d.OAuth)
}
