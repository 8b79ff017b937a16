package tui

import "github.com/charmbracelet/lipgloss"

// Theme bảng màu đỏ - vàng theo giao diện web
type Theme struct {
	Gold    lipgloss.Color
	Red     lipgloss.Color
	DarkRed lipgloss.Color
	Navy    lipgloss.Color
	Blue    lipgloss.Color
	Muted   lipgloss.Color
	Inverse lipgloss.Color
}

var DefaultTheme = Theme{
	Gold:    lipgloss.Color("#facc15"),
	Red:     lipgloss.Color("#b91c1c"),
	DarkRed: lipgloss.Color("#450a0a"),
	Navy:    lipgloss.Color("#002855"),
	Blue:    lipgloss.Color("#2563eb"),
	Muted:   lipgloss.Color("241"),
	Inverse: lipgloss.Color("#ffffff"),
}

type styles struct {
	title        lipgloss.Style
	input        lipgloss.Style
	matchBox     lipgloss.Style
	noMatchBox   lipgloss.Style
	emptyBox     lipgloss.Style
	matchBadge   lipgloss.Style
	noMatchBadge lipgloss.Style
	historyBox   lipgloss.Style
	muted        lipgloss.Style
	status       lipgloss.Style
}

func newStyles(theme Theme) styles {
	box := lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center, lipgloss.Center).
		Border(lipgloss.ThickBorder())

	return styles{
		title: lipgloss.NewStyle().Bold(true).Foreground(theme.Gold),
		input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Gold).
			Padding(0, 2),
		matchBox: box.
			Foreground(theme.Inverse).
			Background(theme.Navy).
			BorderForeground(theme.Blue),
		noMatchBox: box.
			Foreground(theme.DarkRed).
			Background(theme.Gold).
			BorderForeground(theme.Inverse),
		emptyBox: box.
			Foreground(theme.Muted).
			BorderForeground(theme.Muted),
		matchBadge: lipgloss.NewStyle().
			Foreground(theme.Inverse).
			Background(theme.Blue).
			Padding(0, 1),
		noMatchBadge: lipgloss.NewStyle().
			Foreground(theme.Inverse).
			Background(theme.Red).
			Padding(0, 1),
		historyBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Muted).
			Padding(0, 1),
		muted:  lipgloss.NewStyle().Foreground(theme.Muted),
		status: lipgloss.NewStyle().Foreground(theme.Gold).Italic(true),
	}
}
