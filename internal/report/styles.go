package report

import "github.com/charmbracelet/lipgloss"

var (
	colorOK      = lipgloss.Color("#4CAF50")
	colorNOK     = lipgloss.Color("#F44336")
	colorWarning = lipgloss.Color("#FFB74D")
	colorAccent  = lipgloss.Color("#1E88E5")
	colorMuted   = lipgloss.Color("#90A4AE")
)

// Styles groups the text styles used by the printer.
type Styles struct {
	Header  lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	OK      lipgloss.Style
	NOK     lipgloss.Style
	Warning lipgloss.Style
	Muted   lipgloss.Style
}

// NewStyles returns colored styles, or unstyled ones when color is false.
// Colors are dropped automatically when the output is not a terminal.
func NewStyles(color bool) Styles {
	if !color {
		plain := lipgloss.NewStyle()
		return Styles{
			Header:  plain,
			Label:   plain,
			Value:   plain,
			OK:      plain,
			NOK:     plain,
			Warning: plain,
			Muted:   plain,
		}
	}

	return Styles{
		Header:  lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
		Label:   lipgloss.NewStyle().Foreground(colorMuted),
		Value:   lipgloss.NewStyle().Bold(true),
		OK:      lipgloss.NewStyle().Foreground(colorOK).Bold(true),
		NOK:     lipgloss.NewStyle().Foreground(colorNOK).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(colorWarning),
		Muted:   lipgloss.NewStyle().Foreground(colorMuted),
	}
}
