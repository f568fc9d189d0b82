package styles

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bnema/siteshell/internal/domain/build"
	"github.com/bnema/siteshell/internal/domain/entity"
	"github.com/bnema/siteshell/internal/domain/navigation"
)

// Renderer formats one-shot command output.
type Renderer struct {
	theme *Theme
}

// NewRenderer creates a renderer for CLI output.
func NewRenderer(theme *Theme) *Renderer {
	return &Renderer{theme: theme}
}

// RenderError renders an error line.
func (r *Renderer) RenderError(err error) string {
	return r.theme.ErrorStyle.Render(fmt.Sprintf("%s %v", IconX, err))
}

// RenderSuccess renders a success line.
func (r *Renderer) RenderSuccess(msg string) string {
	return r.theme.SuccessStyle.Render(IconCheck+" ") + r.theme.Normal.Render(msg)
}

// RenderInfo renders a neutral line.
func (r *Renderer) RenderInfo(msg string) string {
	return r.theme.Subtle.Render(IconInfo+" ") + r.theme.Normal.Render(msg)
}

// RenderPath renders a labelled path.
func (r *Renderer) RenderPath(label, path string) string {
	return r.theme.Subtitle.Render(fmt.Sprintf("%-10s", label)) + " " + r.theme.Normal.Render(path)
}

// RenderAllowlist lists every domain, marking the ones the user added.
func (r *Renderer) RenderAllowlist(all, user []string) string {
	t := r.theme
	added := make(map[string]bool, len(user))
	for _, d := range user {
		added[d] = true
	}

	var b strings.Builder
	b.WriteString(t.Title.Render(IconShield + " Allowed domains"))
	b.WriteString(t.Subtle.Render(fmt.Sprintf("  %d total, %d added", len(all), len(user))))
	b.WriteString("\n\n")
	for _, d := range all {
		if added[d] {
			b.WriteString("  " + t.Highlight.Render(d) + " " + t.Tag.Render("user"))
		} else {
			b.WriteString("  " + t.Normal.Render(d))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderCheck explains what the navigation guard would do with rawURL as a
// top-level navigation.
func (r *Renderer) RenderCheck(rawURL string, d navigation.Decision) string {
	t := r.theme

	var verdict string
	switch d.Action {
	case entity.NavigationAllow:
		verdict = t.SuccessStyle.Render(IconCheck + " allow")
	case entity.NavigationPrompt:
		verdict = t.WarningStyle.Render(IconWarning + " ask the user")
	case entity.NavigationExternal:
		verdict = t.WarningStyle.Render(IconExternal + " open in system browser")
	default:
		verdict = t.ErrorStyle.Render(IconX + " block")
	}

	lines := []string{
		t.Title.Render(rawURL),
		"  " + verdict,
	}
	if d.Verdict.Blocked {
		lines = append(lines, t.Subtle.Render("  reason: "+d.Verdict.Reason.String()))
	}
	if d.Verdict.Host != "" {
		lines = append(lines, t.Subtle.Render("  host:   "+d.Verdict.Host))
	}
	if d.OAuth {
		lines = append(lines, t.Subtle.Render("  oauth:  identity provider flow"))
	}
	return strings.Join(lines, "\n")
}

// RenderSession prints every workspace of a saved session.
func (r *Renderer) RenderSession(snap entity.SessionSnapshot, path string) string {
	t := r.theme

	ids := make([]int, 0, len(snap))
	for id := range snap {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)

	var b strings.Builder
	b.WriteString(t.Title.Render(IconSession + " Session"))
	b.WriteString(t.Subtle.Render(fmt.Sprintf("  %d tabs  %s", snap.TabCount(), path)))
	b.WriteString("\n")

	for _, id := range ids {
		ws := snap[entity.WorkspaceID(id)]
		b.WriteString("\n")
		b.WriteString(t.Highlight.Render(fmt.Sprintf("%d %s", id+1, ws.Name)))
		if ws.NotePanelVisible {
			b.WriteString(" " + t.Tag.Render("notes open"))
		}
		b.WriteString("\n")
		for i, tab := range ws.Tabs {
			marker := "  "
			if i == ws.ActiveTabIndex {
				marker = t.Highlight.Render(IconCursor + " ")
			}
			title := entity.TruncateTitle(tab.Title)
			b.WriteString(fmt.Sprintf("  %s%s %s\n", marker, t.Normal.Render(title), t.Subtle.Render(tab.URL)))
		}
		if note := strings.TrimSpace(ws.NoteContent); note != "" {
			first, _, _ := strings.Cut(note, "\n")
			b.WriteString(t.Subtle.Render(fmt.Sprintf("    %s %s\n", IconNote, truncate(first, 60))))
		}
	}
	return b.String()
}

// RenderVersion renders the build banner.
func (r *Renderer) RenderVersion(info build.Info) string {
	return r.theme.Highlight.Render(IconVersion+" ") + r.theme.Normal.Render(info.String()) +
		"\n" + r.theme.Subtle.Render(build.RepoURL())
}
