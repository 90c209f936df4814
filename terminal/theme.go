package terminal

import "github.com/charmbracelet/lipgloss"

// Theme holds the colors used by the renderers.
type Theme struct {
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Error  lipgloss.Color
	Border lipgloss.Color
}

// DefaultTheme returns the default palette.
func DefaultTheme() Theme {
	return Theme{
		Accent: lipgloss.Color("#7AA2F7"),
		Text:   lipgloss.Color("#C0CAF5"),
		Muted:  lipgloss.Color("#565F89"),
		Error:  lipgloss.Color("#F7768E"),
		Border: lipgloss.Color("#3B4261"),
	}
}

type styles struct {
	title  lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	muted  lipgloss.Style
	card   lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
	bar    lipgloss.Style
	border lipgloss.Style
	errBox lipgloss.Style
	errMsg lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title:  lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		label:  lipgloss.NewStyle().Foreground(t.Muted),
		value:  lipgloss.NewStyle().Foreground(t.Text),
		muted:  lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		card:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Border).Padding(0, 1),
		header: lipgloss.NewStyle().Bold(true).Foreground(t.Accent).Padding(0, 1),
		cell:   lipgloss.NewStyle().Foreground(t.Text).Padding(0, 1),
		bar:    lipgloss.NewStyle().Foreground(t.Accent),
		border: lipgloss.NewStyle().Foreground(t.Border),
		errBox: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Error).Padding(0, 1),
		errMsg: lipgloss.NewStyle().Foreground(t.Error),
	}
}
