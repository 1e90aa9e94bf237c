package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	ColorPrimary   = lipgloss.Color("205") // Pink
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange
	ColorText      = lipgloss.Color("252")

	StyleTitle   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
)

// Theme is the palette of the contact book TUI. Light is the starting theme.
type Theme struct {
	Name     string
	Title    lipgloss.Style
	Label    lipgloss.Style
	Input    lipgloss.Style
	Focused  lipgloss.Style
	Row      lipgloss.Style
	Selected lipgloss.Style
	Subtle   lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Dialog   lipgloss.Style
}

func newTheme(name string, fg, border, accent lipgloss.Color) Theme {
	return Theme{
		Name:  name,
		Title: lipgloss.NewStyle().Foreground(accent).Bold(true),
		Label: lipgloss.NewStyle().Foreground(fg).Width(8),
		Input: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		Focused: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		Row:      lipgloss.NewStyle().Foreground(fg),
		Selected: lipgloss.NewStyle().Foreground(accent).Bold(true),
		Subtle:   lipgloss.NewStyle().Foreground(ColorSecondary),
		Success:  lipgloss.NewStyle().Foreground(ColorSuccess),
		Error:    lipgloss.NewStyle().Foreground(ColorError),
		Dialog: lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(ColorWarning).
			Padding(0, 1),
	}
}

var (
	LightTheme = newTheme("light", lipgloss.Color("0"), lipgloss.Color("0"), lipgloss.Color("25"))
	DarkTheme  = newTheme("dark", lipgloss.Color("15"), lipgloss.Color("15"), ColorPrimary)
)
