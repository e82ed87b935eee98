package app

import "github.com/llehouerou/lyricsync/internal/ui/popup"

// View renders the application UI.
func (m Model) View() string {
	if m.Width == 0 || m.Height == 0 {
		return ""
	}
	return popup.RenderFramed(m.Lyrics.View(), m.Width, m.Height, popup.SizeFull)
}
