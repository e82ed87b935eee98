// Package styles defines the color palette of the lyrics view.
package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette and pre-built styles for the application.
type Theme struct {
	// Sung is the color of text already performed, Unsung of text ahead.
	Sung   lipgloss.Color
	Unsung lipgloss.Color

	// Text hierarchy (most to least prominent)
	FgBase   lipgloss.Color
	FgMuted  lipgloss.Color
	FgSubtle lipgloss.Color

	// Background vocals
	Accompaniment lipgloss.Color

	Border lipgloss.Color
	Error  lipgloss.Color

	styles *Styles
}

// Styles contains pre-built lipgloss styles for common UI patterns.
type Styles struct {
	Base        lipgloss.Style // Lines away from the playhead
	Muted       lipgloss.Style
	Subtle      lipgloss.Style // Footer, translations
	Title       lipgloss.Style
	Sung        lipgloss.Style
	Unsung      lipgloss.Style
	Background  lipgloss.Style // Accompaniment lines
	Error       lipgloss.Style
	Frame       lipgloss.Style
	Translation lipgloss.Style
}

var defaultTheme = Theme{
	Sung:   lipgloss.Color("#a78bfa"),
	Unsung: lipgloss.Color("#e0e0e0"),

	FgBase:   lipgloss.Color("#c0c0c0"),
	FgMuted:  lipgloss.Color("#808080"),
	FgSubtle: lipgloss.Color("#585858"),

	Accompaniment: lipgloss.Color("#f1a208"),

	Border: lipgloss.Color("#585858"),
	Error:  lipgloss.Color("#ff5555"),
}

// T returns the default theme.
func T() *Theme {
	return &defaultTheme
}

// S returns the pre-built styles for this theme.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)

	return &Styles{
		Base:        base,
		Muted:       lipgloss.NewStyle().Foreground(t.FgMuted),
		Subtle:      lipgloss.NewStyle().Foreground(t.FgSubtle),
		Title:       base.Bold(true),
		Sung:        lipgloss.NewStyle().Foreground(t.Sung).Bold(true),
		Unsung:      lipgloss.NewStyle().Foreground(t.Unsung).Bold(true),
		Background:  lipgloss.NewStyle().Foreground(t.Accompaniment).Italic(true),
		Error:       lipgloss.NewStyle().Foreground(t.Error),
		Translation: lipgloss.NewStyle().Foreground(t.FgMuted).Italic(true),
		Frame: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
	}
}
