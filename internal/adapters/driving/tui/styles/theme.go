// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette for the TUI.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Success indicates positive outcomes.
	Success lipgloss.Color

	// Error indicates problems.
	Error lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#2DD4BF"), // Teal
		Foreground: lipgloss.Color("#E2E8F0"), // Light gray
		Muted:      lipgloss.Color("#64748B"), // Medium gray
		Success:    lipgloss.Color("#86EFAC"), // Green
		Error:      lipgloss.Color("#FCA5A5"), // Red
		Border:     lipgloss.Color("#334155"), // Border gray
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	// Title style for the header.
	Title lipgloss.Style

	// Question style for the user's questions in the transcript.
	Question lipgloss.Style

	// Answer style for answers.
	Answer lipgloss.Style

	// Citation style for citation lines under an answer.
	Citation lipgloss.Style

	// Muted style for less important text.
	Muted lipgloss.Style

	// Error style for error messages.
	Error lipgloss.Style

	// InputField style for the question input area.
	InputField lipgloss.Style

	// StatusBar style for the status line.
	StatusBar lipgloss.Style

	// Help style for help text.
	Help lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,
		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),
		Question: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),
		Answer: lipgloss.NewStyle().
			Foreground(theme.Foreground),
		Citation: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),
		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),
		Error: lipgloss.NewStyle().
			Foreground(theme.Error),
		InputField: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted),
		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),
	}
}

// DefaultStyles returns styles built from the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme the styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}
