package styles

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/siteshell/internal/domain/entity"
	"github.com/bnema/siteshell/internal/domain/navigation"
)

func TestRenderer_Allowlist(t *testing.T) {
	r := NewRenderer(NewTheme())
	out := r.RenderAllowlist([]string{"chatgpt.com", "github.com"}, []string{"github.com"})

	assert.Contains(t, out, "chatgpt.com")
	assert.Contains(t, out, "github.com")
	assert.Contains(t, out, "2 total, 1 added")
}

func TestRenderer_Check(t *testing.T) {
	r := NewRenderer(NewTheme())

	blocked := navigation.Decision{
		Action:  entity.NavigationPrompt,
		Verdict: entity.Blocked(entity.BlockReasonDomainNotAllowlisted, "https", "evil.example"),
	}
	out := r.RenderCheck("https://evil.example/", blocked)
	assert.Contains(t, out, "ask the user")
	assert.Contains(t, out, "domain_not_allowlisted")
	assert.Contains(t, out, "evil.example")

	oauth := navigation.Decision{Action: entity.NavigationAllow, Verdict: entity.Allowed("https", "accounts.google.com"), OAuth: true}
	out = r.RenderCheck("https://accounts.google.com/o/oauth2/auth", oauth)
	assert.Contains(t, out, "allow")
	assert.Contains(t, out, "identity provider")
}

func TestRenderer_Session(t *testing.T) {
	r := NewRenderer(NewTheme())
	snap := entity.SessionSnapshot{
		1: {ID: 1, Name: "Research", Tabs: []entity.TabSnapshot{{URL: "https://chatgpt.com/c/1", Title: "Papers"}}, NoteContent: "read later\nmore"},
		0: {ID: 0, Name: "Chat", Tabs: []entity.TabSnapshot{{URL: "https://chatgpt.com", Title: "ChatGPT"}}},
	}
	out := r.RenderSession(snap, "/tmp/sessions.json")

	assert.Contains(t, out, "1 Chat")
	assert.Contains(t, out, "2 Research")
	assert.Contains(t, out, "read later")
	assert.NotContains(t, out, "more", "only the first note line is shown")
	assert.Less(t, strings.Index(out, "1 Chat"), strings.Index(out, "2 Research"))
}

func TestRenderer_Error(t *testing.T) {
	r := NewRenderer(NewTheme())
	assert.Contains(t, r.RenderError(errors.New("config invalid")), "config invalid")
}


func TestRenderer_Doctor(t *testing.T) {
	r := NewRenderer(NewTheme())

	report := DoctorReport{Checks: []DoctorCheck{
		{Name: "browser", OK: true, Detail: "/usr/bin/chromium"},
		{Name: "clipboard", OK: false, Optional: true, Detail: "install wl-clipboard or xclip"},
	}}
	assert.True(t, report.OK())
	out := r.RenderDoctor(report)
	assert.Contains(t, out, "ready")
	assert.Contains(t, out, "/usr/bin/chromium")

	report.Checks = append(report.Checks, DoctorCheck{Name: "data", Detail: "permission denied"})
	assert.False(t, report.OK())
	assert.Contains(t, r.RenderDoctor(report), "requirements missing")
}
