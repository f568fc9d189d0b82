package navigation_test

import (
	"testing"

	"github.com/bnema/siteshell/internal/domain/entity"
	"github.com/bnema/siteshell/internal/domain/navigation"
	"github.com/stretchr/testify/assert"
)

func TestOAuthPolicy_IsOAuthURL(t *testing.T) {
	p := navigation.DefaultOAuthPolicy()

	tests := []struct {
		url  string
		want bool
	}{
		{"https://accounts.google.com/o/oauth2/v2/auth?client_id=x", true},
		{"https://accounts.google.com/signin/v2/identifier", true},
		{"https://oauth2.googleapis.com/token?response_type=code", true},
		{"https://accounts.google.com/?response_type=code", true},
		{"https://accounts.google.com/", false},
		{"https://chatgpt.com/auth/login", false},
		{"https://www.google.com/search?q=oauth", false},
		{"not a url", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, p.IsOAuthURL(tt.url))
		})
	}
}

func TestOAuthPolicy_KeepInContext(t *testing.T) {
	login := "https://accounts.google.com/o/oauth2/auth"

	keep := navigation.DefaultOAuthPolicy()
	assert.True(t, keep.KeepInContext(login))

	external := navigation.DefaultOAuthPolicy()
	external.Mode = entity.OAuthModeExternal
	assert.False(t, external.KeepInContext(login))
	assert.True(t, external.KeepInContext("https://chatgpt.com/"))
}

func TestOAuthPolicy_CustomProviders(t *testing.T) {
	p := navigation.DefaultOAuthPolicy()
	p.Providers = []string{"login.microsoftonline.com"}

	assert.True(t, p.IsOAuthURL("https://login.microsoftonline.com/common/oauth2/authorize"))
	assert.False(t, p.IsOAuthURL("https://accounts.google.com/o/oauth2/auth"))
}
