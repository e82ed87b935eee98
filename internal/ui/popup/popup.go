package popup

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/lyricsync/internal/ui/styles"
)

// Frame chrome: rounded border plus one column of padding per side.
const (
	frameWidth  = 4
	frameHeight = 2
)

// SizeConfig defines how a popup should be sized.
type SizeConfig struct {
	WidthPct  int // Percentage of screen width (0 = full width)
	HeightPct int // Percentage of screen height (0 = full height)
	MaxWidth  int // Maximum width in columns (0 = no limit)
}

// Common size configurations.
var (
	SizeFull  = SizeConfig{}
	SizeLarge = SizeConfig{WidthPct: 80, HeightPct: 70}
)

func (s SizeConfig) outer(screenW, screenH int) (width, height int) {
	width, height = screenW, screenH
	if s.WidthPct > 0 {
		width = screenW * s.WidthPct / 100
	}
	if s.HeightPct > 0 {
		height = screenH * s.HeightPct / 100
	}
	if s.MaxWidth > 0 && width > s.MaxWidth {
		width = s.MaxWidth
	}
	return width, height
}

// ContentSize returns the space left for popup content inside the frame.
func ContentSize(screenW, screenH int, size SizeConfig) (width, height int) {
	w, h := size.outer(screenW, screenH)
	return max(w-frameWidth, 0), max(h-frameHeight, 0)
}

// RenderFramed wraps content in the themed frame and centers it.
func RenderFramed(content string, screenW, screenH int, size SizeConfig) string {
	w, _ := size.outer(screenW, screenH)
	box := styles.T().S().Frame.
		Width(max(w-2, 0)). // Border is outside the lipgloss width
		Render(content)
	return Center(box, screenW, screenH)
}

// Center centers pre-rendered content in the terminal.
func Center(content string, termWidth, termHeight int) string {
	lines := strings.Split(content, "\n")
	boxWidth := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > boxWidth {
			boxWidth = w
		}
	}

	padTop := max((termHeight-len(lines))/2, 0)
	padLeft := max((termWidth-boxWidth)/2, 0)

	out := make([]string, 0, padTop+len(lines))
	for range padTop {
		out = append(out, "")
	}
	for _, line := range lines {
		out = append(out, strings.Repeat(" ", padLeft)+line)
	}
	return strings.Join(out, "\n")
}
