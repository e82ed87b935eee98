// Package lyrics provides the karaoke lyrics popup.
package lyrics

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/lyricsync/internal/keymap"
	"github.com/llehouerou/lyricsync/internal/layout"
	"github.com/llehouerou/lyricsync/internal/lyrics"
	"github.com/llehouerou/lyricsync/internal/ui"
	"github.com/llehouerou/lyricsync/internal/ui/popup"
	"github.com/llehouerou/lyricsync/internal/ui/styles"
)

// Compile-time check that Model implements popup.Popup.
var _ popup.Popup = (*Model)(nil)

// State represents the current state of the lyrics popup.
type State int

const (
	StateLoading State = iota
	StateLoaded
	StateNotFound
	StateError
)

const (
	tickInterval = 50 * time.Millisecond
	seekStep     = 5 * time.Second
	offsetStep   = 100 * time.Millisecond
	fetchTimeout = 15 * time.Second
)

// Settings are the initial display settings of the popup.
type Settings struct {
	Offset     time.Duration
	Animations bool
	Alignment  layout.Alignment
	// RTL forces the text direction; nil detects it per line.
	RTL *bool
	// Width caps the lyrics width; zero uses the popup width.
	Width int
}

// Model holds the state for the lyrics popup.
type Model struct {
	ui.Base
	source   *lyrics.Source
	lyrics   *lyrics.Lyrics
	state    State
	errorMsg string
	origin   string
	spinner  spinner.Model
	keys     *keymap.Resolver
	layouts  *layout.Cache

	track lyrics.TrackInfo

	// Preview clock
	position time.Duration
	playing  bool
	lastTick time.Time
	tickGen  int

	settings     Settings
	offset       time.Duration
	animations   bool
	translation  bool
	alignment    layout.Alignment
	sync         lyrics.SyncState
	scrollOffset int
	autoScroll   bool
	showHelp     bool
}

// New creates a new lyrics popup model.
func New(source *lyrics.Source, settings Settings) *Model {
	return &Model{
		source: source,
		state:  StateLoading,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(styles.T().S().Muted),
		),
		keys:        keymap.NewResolver(keymap.Bindings),
		layouts:     layout.NewCache(0),
		settings:    settings,
		offset:      settings.Offset,
		animations:  settings.Animations,
		alignment:   settings.Alignment,
		translation: true,
		autoScroll:  true,
		sync:        lyrics.SyncState{CurrentLine: -1, CurrentSyllable: -1},
	}
}

// SetTrack sets the track to display lyrics for and triggers fetch.
func (m *Model) SetTrack(track lyrics.TrackInfo) tea.Cmd {
	m.SetTrackInfo(track)
	return m.Fetch()
}

// SetTrackInfo sets the track and resets the view without fetching.
func (m *Model) SetTrackInfo(track lyrics.TrackInfo) {
	m.track = track
	m.lyrics = nil
	m.origin = ""
	m.state = StateLoading
	m.scrollOffset = 0
	m.autoScroll = true
	m.sync = lyrics.SyncState{CurrentLine: -1, CurrentSyllable: -1}
}

// Fetch loads lyrics for the current track.
func (m *Model) Fetch() tea.Cmd {
	m.state = StateLoading
	return tea.Batch(m.fetchLyricsCmd(), m.spinner.Tick)
}

// SetLyrics shows already decoded lyrics.
func (m *Model) SetLyrics(l *lyrics.Lyrics, origin string) {
	m.lyrics = l
	m.origin = origin
	m.state = StateLoaded
	m.resync(true)
}

// SetPosition updates the current playback position.
func (m *Model) SetPosition(pos time.Duration) {
	m.position = m.clampPosition(pos)
	m.resync(false)
}

// Position returns the preview clock position.
func (m *Model) Position() time.Duration { return m.position }

// Offset returns the current lyrics offset.
func (m *Model) Offset() time.Duration { return m.offset }

// SyncState returns the state computed for the current position.
func (m *Model) SyncState() lyrics.SyncState { return m.sync }

// State returns the loading state.
func (m *Model) State() State { return m.state }

// Playing reports whether the preview clock is running.
func (m *Model) Playing() bool { return m.playing }

// Play starts the preview clock.
func (m *Model) Play() tea.Cmd {
	if m.playing {
		return nil
	}
	m.playing = true
	m.lastTick = time.Time{}
	m.tickGen++
	return m.tickCmd()
}

// Pause stops the preview clock.
func (m *Model) Pause() {
	m.playing = false
}

func (m *Model) tickCmd() tea.Cmd {
	gen := m.tickGen
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg{At: t, gen: gen}
	})
}

// resync recomputes the sync state. The view follows the current line
// when it changes, or always when force is set.
func (m *Model) resync(force bool) {
	if m.lyrics == nil {
		return
	}
	prev := m.sync.CurrentLine
	m.sync = m.lyrics.SyncAt(m.position, m.offset)
	if m.autoScroll && (force || m.sync.CurrentLine != prev) {
		m.centerCurrentLine()
	}
}

func (m *Model) clampPosition(pos time.Duration) time.Duration {
	pos = max(pos, 0)
	if m.track.Duration > 0 {
		pos = min(pos, m.track.Duration)
	}
	return pos
}

// Init implements popup.Popup.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements popup.Popup.
func (m *Model) Update(msg tea.Msg) (popup.Popup, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case FetchedMsg:
		return m.handleFetched(msg)
	case TickMsg:
		return m, m.handleTick(msg)
	case spinner.TickMsg:
		if m.state != StateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleTick(msg TickMsg) tea.Cmd {
	if !m.playing || msg.gen != m.tickGen {
		return nil
	}
	if !m.lastTick.IsZero() {
		m.SetPosition(m.position + msg.At.Sub(m.lastTick))
	}
	m.lastTick = msg.At
	if m.track.Duration > 0 && m.position >= m.track.Duration {
		m.playing = false
		return nil
	}
	return m.tickCmd()
}

func (m *Model) handleKey(msg tea.KeyMsg) (popup.Popup, tea.Cmd) {
	switch m.keys.Resolve(msg.String()) {
	case keymap.ActionQuit:
		return m, func() tea.Msg { return ActionMsg(Close{}) }
	case keymap.ActionHelp:
		m.showHelp = !m.showHelp
	case keymap.ActionPlayPause:
		if m.playing {
			m.Pause()
			return m, nil
		}
		return m, m.Play()
	case keymap.ActionSeekForward:
		m.SetPosition(m.position + seekStep)
	case keymap.ActionSeekBack:
		m.SetPosition(m.position - seekStep)
	case keymap.ActionRestart:
		m.SetPosition(0)
	case keymap.ActionOffsetUp:
		m.offset += offsetStep
		m.resync(false)
	case keymap.ActionOffsetDown:
		m.offset -= offsetStep
		m.resync(false)
	case keymap.ActionOffsetReset:
		m.offset = m.settings.Offset
		m.resync(false)
	case keymap.ActionScrollUp:
		m.autoScroll = false
		m.scrollOffset = max(m.scrollOffset-1, 0)
	case keymap.ActionScrollDown:
		m.autoScroll = false
		m.scrollOffset = min(m.scrollOffset+1, m.maxScroll())
	case keymap.ActionJumpStart:
		m.autoScroll = false
		m.scrollOffset = 0
	case keymap.ActionJumpEnd:
		m.autoScroll = false
		m.scrollOffset = m.maxScroll()
	case keymap.ActionRecenter:
		m.autoScroll = true
		m.centerCurrentLine()
	case keymap.ActionToggleAnimation:
		m.animations = !m.animations
	case keymap.ActionToggleTranslation:
		m.translation = !m.translation
	case keymap.ActionCycleAlignment:
		m.alignment = (m.alignment + 1) % (layout.AlignRight + 1)
	default:
		// Pass unhandled keys to main handler
		return m, func() tea.Msg { return ActionMsg(Passthrough{Key: msg}) }
	}
	return m, nil
}

func (m *Model) handleFetched(msg FetchedMsg) (popup.Popup, tea.Cmd) {
	// Ignore stale results from previous track
	if msg.TrackPath != m.track.FilePath {
		return m, nil
	}
	if msg.Err != nil && msg.Result.Lyrics == nil {
		m.state = StateError
		m.errorMsg = msg.Err.Error()
		return m, nil
	}
	if msg.Result.Lyrics == nil || len(msg.Result.Lyrics.Timeline) == 0 {
		m.state = StateNotFound
		return m, nil
	}
	m.SetLyrics(msg.Result.Lyrics, msg.Result.Source)
	return m, nil
}

func (m *Model) fetchLyricsCmd() tea.Cmd {
	// Capture track to identify stale results
	track := m.track
	source := m.source
	return func() tea.Msg {
		if source == nil {
			return FetchedMsg{TrackPath: track.FilePath, Result: lyrics.FetchResult{Source: "not_found"}}
		}
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		result := source.Fetch(ctx, track)
		return FetchedMsg{TrackPath: track.FilePath, Result: result, Err: result.Err}
	}
}

// centerCurrentLine scrolls so the current line sits in the middle of
// the visible area.
func (m *Model) centerCurrentLine() {
	cur := m.sync.CurrentLine
	if cur < 0 || m.lyrics == nil {
		return
	}
	half := m.visibleHeight() / 2
	start, used := cur, 0
	for start > 0 {
		h := m.lineHeight(start - 1)
		if used+h > half {
			break
		}
		used += h
		start--
	}
	m.scrollOffset = min(start, m.maxScroll())
}

// maxScroll is the first line index from which the remaining lines still
// fill the visible area.
func (m *Model) maxScroll() int {
	if m.lyrics == nil {
		return 0
	}
	start, used := len(m.lyrics.Timeline), 0
	visible := m.visibleHeight()
	for start > 0 {
		h := m.lineHeight(start - 1)
		if used+h > visible {
			break
		}
		used += h
		start--
	}
	return min(start, max(len(m.lyrics.Timeline)-1, 0))
}

func (m *Model) visibleHeight() int {
	// Title, footer and the blank lines around the content
	return max(m.Height()-4, 3)
}
