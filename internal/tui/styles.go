package tui

import "github.com/charmbracelet/lipgloss"

var (
	primary = lipgloss.Color("#10b981")
	accent  = lipgloss.Color("#facc15")
	muted   = lipgloss.Color("#64748b")
	danger  = lipgloss.Color("#f87171")
)

type styles struct {
	Header   lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style
	Arabic   lipgloss.Style
	Cursor   lipgloss.Style
	Playing  lipgloss.Style
	Mark     lipgloss.Style
	Panel    lipgloss.Style
	Error    lipgloss.Style
	Status   lipgloss.Style
}

func newStyles() styles {
	return styles{
		Header: lipgloss.NewStyle().
			Background(primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),
		Title: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true),
		Subtitle: lipgloss.NewStyle().
			Foreground(muted).
			Italic(true),
		Muted: lipgloss.NewStyle().
			Foreground(muted),
		Arabic: lipgloss.NewStyle().
			Bold(true),
		Cursor: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
		Playing: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true),
		Mark: lipgloss.NewStyle().
			Foreground(accent),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		Error: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(danger).
			Foreground(danger).
			Padding(1, 2),
		Status: lipgloss.NewStyle().
			Foreground(accent).
			Italic(true),
	}
}
