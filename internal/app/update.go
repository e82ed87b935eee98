package app

import (
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/llehouerou/lyricsync/internal/ui/action"
	uilyrics "github.com/llehouerou/lyricsync/internal/ui/lyrics"
	"github.com/llehouerou/lyricsync/internal/ui/popup"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)
	case action.Msg:
		return m.handleAction(msg)
	}

	p, cmd := m.Lyrics.Update(msg)
	if lm, ok := p.(*uilyrics.Model); ok {
		m.Lyrics = lm
	}
	return m, cmd
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.Width = msg.Width
	m.Height = msg.Height
	m.Lyrics.SetSize(popup.ContentSize(m.Width, m.Height, popup.SizeFull))
	return m, nil
}

func (m Model) handleAction(msg action.Msg) (tea.Model, tea.Cmd) {
	switch a := msg.Action.(type) {
	case uilyrics.Close:
		return m, tea.Quit
	case uilyrics.Passthrough:
		log.WithField("key", a.Key.String()).Debug("unbound key")
	default:
		log.WithFields(log.Fields{"source": msg.Source, "action": a.ActionType()}).Debug("unhandled action")
	}
	return m, nil
}
