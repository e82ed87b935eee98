package styles

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// Blend returns the color at position t in [0,1] between from and to.
// Blending is done in HCL color space for perceptually uniform transitions.
func Blend(from, to lipgloss.Color, t float64) lipgloss.Color {
	switch {
	case t <= 0:
		return from
	case t >= 1:
		return to
	}
	c1, _ := colorful.MakeColor(lipglossToColor(from))
	c2, _ := colorful.MakeColor(lipglossToColor(to))
	return lipgloss.Color(c1.BlendHcl(c2, t).Clamped().Hex())
}

// Wipe renders text with the first progress fraction of its grapheme
// clusters in the sung color. The cluster under the boundary is blended
// so the highlight moves smoothly.
func Wipe(text string, progress float64, sung, unsung lipgloss.Color) string {
	clusters := graphemes(text)
	if len(clusters) == 0 {
		return ""
	}
	progress = max(0, min(1, progress))

	pos := progress * float64(len(clusters))
	var b strings.Builder
	for i, cluster := range clusters {
		var c lipgloss.Color
		switch fill := pos - float64(i); {
		case fill >= 1:
			c = sung
		case fill <= 0:
			c = unsung
		default:
			c = Blend(unsung, sung, fill)
		}
		b.WriteString(lipgloss.NewStyle().Foreground(c).Bold(true).Render(cluster))
	}
	return b.String()
}

// Fade renders text in a single color between unsung and sung.
func Fade(text string, progress float64, sung, unsung lipgloss.Color) string {
	if text == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(Blend(unsung, sung, progress)).Bold(true).Render(text)
}

func graphemes(text string) []string {
	var clusters []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}
	return clusters
}

// lipglossToColor converts a lipgloss.Color to a color.Color.
func lipglossToColor(c lipgloss.Color) color.Color {
	hex := string(c)
	if len(hex) == 7 && hex[0] == '#' {
		col, err := colorful.Hex(hex)
		if err == nil {
			return col
		}
	}
	// Fallback for ANSI colors - return a neutral gray
	return color.RGBA{R: 128, G: 128, B: 128, A: 255}
}
