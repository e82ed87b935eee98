// Package app hosts the lyrics view as a full-screen bubbletea program.
package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/lyricsync/internal/lyrics"
	uilyrics "github.com/llehouerou/lyricsync/internal/ui/lyrics"
)

// Options configure the root model.
type Options struct {
	Source *lyrics.Source
	Track  lyrics.TrackInfo
	// Preloaded lyrics are shown directly instead of being fetched.
	Preloaded *lyrics.Lyrics
	Origin    string
	Start     time.Duration
	Autoplay  bool
	Settings  uilyrics.Settings
}

// Model is the root application model.
type Model struct {
	Lyrics *uilyrics.Model
	Width  int
	Height int

	opts Options
}

// New creates a new application model.
func New(opts Options) Model {
	popup := uilyrics.New(opts.Source, opts.Settings)
	popup.SetTrackInfo(opts.Track)
	if opts.Preloaded != nil {
		popup.SetLyrics(opts.Preloaded, opts.Origin)
	}
	popup.SetPosition(opts.Start)
	return Model{Lyrics: popup, opts: opts}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.opts.Preloaded == nil {
		cmds = append(cmds, m.Lyrics.Fetch())
	}
	if m.opts.Autoplay {
		cmds = append(cmds, m.Lyrics.Play())
	}
	return tea.Batch(cmds...)
}
