package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// DoctorCheck is one line of the doctor report.
type DoctorCheck struct {
	Name   string
	OK     bool
	Detail string
	// Optional checks warn instead of failing the report.
	Optional bool
}

// DoctorReport is the result of a doctor run.
type DoctorReport struct {
	Checks []DoctorCheck
}

// OK reports whether every required check passed.
func (r DoctorReport) OK() bool {
	for _, c := range r.Checks {
		if !c.OK && !c.Optional {
			return false
		}
	}
	return true
}

// RenderDoctor renders the doctor report.
func (r *Renderer) RenderDoctor(report DoctorReport) string {
	t := r.theme

	header := t.Title.Render(IconGlobe + " siteshell doctor")
	if report.OK() {
		header += "  " + t.SuccessStyle.Render("ready")
	} else {
		header += "  " + t.ErrorStyle.Render("requirements missing")
	}

	width := 0
	for _, c := range report.Checks {
		width = max(width, lipgloss.Width(c.Name))
	}

	lines := make([]string, 0, len(report.Checks))
	for _, c := range report.Checks {
		var mark string
		switch {
		case c.OK:
			mark = t.SuccessStyle.Render(IconCheck)
		case c.Optional:
			mark = t.WarningStyle.Render(IconWarning)
		default:
			mark = t.ErrorStyle.Render(IconX)
		}
		name := t.Normal.Render(fmt.Sprintf("%-*s", width, c.Name))
		lines = append(lines, fmt.Sprintf("  %s %s  %s", mark, name, t.Subtle.Render(c.Detail)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, "", strings.Join(lines, "\n"))
}
