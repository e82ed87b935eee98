package lyrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/lyricsync/internal/layout"
	"github.com/llehouerou/lyricsync/internal/lyrics"
	"github.com/llehouerou/lyricsync/internal/ui/action"
	"github.com/llehouerou/lyricsync/internal/ui/testutil"
)

const testTrackPath = "/test/track.mp3"

var testSettings = Settings{Animations: true, Alignment: layout.AlignCenter}

func newTestModel() *Model {
	m := New(nil, testSettings)
	m.SetSize(80, 40)
	m.track = lyrics.TrackInfo{FilePath: testTrackPath, Title: "Song", Artist: "Band"}
	return m
}

func newLoadedLyricsPopup(t *testing.T, timeline lyrics.Timeline) (*Model, *testutil.PopupHarness) {
	t.Helper()
	m := newTestModel()
	h := testutil.NewPopupHarness(m)
	h.SendMsg(FetchedMsg{
		TrackPath: testTrackPath,
		Result: lyrics.FetchResult{
			Lyrics: &lyrics.Lyrics{Timeline: timeline, Format: lyrics.FormatLRC},
			Source: "file",
		},
	})
	require.Equal(t, StateLoaded, m.State())
	return m, h
}

func makeSampleLines(n int) lyrics.Timeline {
	timeline := make(lyrics.Timeline, n)
	for i := range n {
		timeline[i] = &lyrics.SyncedLine{
			Text:    fmt.Sprintf("Line %d", i),
			StartMs: int64(i) * 5000,
			EndMs:   int64(i+1) * 5000,
		}
	}
	return timeline
}

func helloWorld() *lyrics.KaraokeLine {
	return &lyrics.KaraokeLine{
		StartMs: 1000,
		EndMs:   2000,
		Syllables: []lyrics.Syllable{
			{Content: "Hel", StartMs: 1000, EndMs: 1400},
			{Content: "lo ", StartMs: 1400, EndMs: 1700},
			{Content: "World", StartMs: 1700, EndMs: 2000},
		},
		Translation: "Bonjour le monde",
	}
}

func getAction(t *testing.T, h *testutil.PopupHarness) action.Action {
	t.Helper()
	cmd := h.LastCommand()
	require.NotNil(t, cmd, "expected command")
	msg, ok := testutil.ExecuteCmd(cmd).(action.Msg)
	require.True(t, ok, "expected action.Msg")
	assert.Equal(t, "lyrics", msg.Source)
	return msg.Action
}

func TestLyrics_Close(t *testing.T) {
	for _, key := range []string{"q", "esc"} {
		t.Run(key, func(t *testing.T) {
			h := testutil.NewPopupHarness(newTestModel())
			if key == "esc" {
				h.SendEscape()
			} else {
				h.SendKey(key)
			}
			assert.IsType(t, Close{}, getAction(t, h))
		})
	}
}

func TestLyrics_UnhandledKeyPassthrough(t *testing.T) {
	h := testutil.NewPopupHarness(newTestModel())

	h.SendKey("p")

	pt, ok := getAction(t, h).(Passthrough)
	require.True(t, ok)
	assert.Equal(t, "p", pt.Key.String())
}

func TestLyrics_Scroll(t *testing.T) {
	m, h := newLoadedLyricsPopup(t, makeSampleLines(50))
	require.Positive(t, m.maxScroll())

	h.SendKey("j")
	h.SendDown()
	assert.Equal(t, 2, m.scrollOffset)
	assert.False(t, m.autoScroll)

	h.SendKey("k")
	assert.Equal(t, 1, m.scrollOffset)
	h.SendUp()
	h.SendUp()
	assert.Equal(t, 0, m.scrollOffset)

	h.SendKey("G")
	assert.Equal(t, m.maxScroll(), m.scrollOffset)
	h.SendKey("j")
	assert.Equal(t, m.maxScroll(), m.scrollOffset)

	h.SendKey("g")
	assert.Equal(t, 0, m.scrollOffset)
}

func TestLyrics_MaxScrollFillsView(t *testing.T) {
	m, _ := newLoadedLyricsPopup(t, makeSampleLines(50))

	// 80x40 leaves 36 content rows of one-row lines.
	assert.Equal(t, 14, m.maxScroll())

	short, _ := newLoadedLyricsPopup(t, makeSampleLines(10))
	assert.Equal(t, 0, short.maxScroll())
}

func TestLyrics_RecenterFollowsCurrentLine(t *testing.T) {
	m, h := newLoadedLyricsPopup(t, makeSampleLines(50))

	h.SendKey("j")
	require.False(t, m.autoScroll)

	m.SetPosition(30*5*time.Second + time.Second)
	assert.Equal(t, 1, m.scrollOffset, "manual scroll is kept")

	h.SendKey("c")
	assert.True(t, m.autoScroll)
	assert.Equal(t, 30, m.SyncState().CurrentLine)
	assert.Equal(t, 12, m.scrollOffset)
}

func TestLyrics_SetPositionUpdatesCurrentLine(t *testing.T) {
	m, h := newLoadedLyricsPopup(t, makeSampleLines(3))

	m.SetPosition(6 * time.Second)
	assert.Equal(t, 1, m.SyncState().CurrentLine)
	assert.True(t, h.ViewContains("Line 1"))

	m.SetPosition(-time.Second)
	assert.Equal(t, time.Duration(0), m.Position())
	assert.Equal(t, 0, m.SyncState().CurrentLine)
}

func TestLyrics_SeekAndRestart(t *testing.T) {
	m, h := newLoadedLyricsPopup(t, makeSampleLines(10))
	m.track.Duration = 12 * time.Second

	h.SendKey("l")
	assert.Equal(t, 5*time.Second, m.Position())
	assert.Equal(t, 1, m.SyncState().CurrentLine)

	h.SendKey("l")
	h.SendKey("l")
	assert.Equal(t, 12*time.Second, m.Position(), "clamped to duration")

	h.SendKey("h")
	assert.Equal(t, 7*time.Second, m.Position())

	h.SendKey("0")
	assert.Equal(t, time.Duration(0), m.Position())
}

func TestLyrics_Offset(t *testing.T) {
	m, h := newLoadedLyricsPopup(t, makeSampleLines(3))
	m.SetPosition(4950 * time.Millisecond)
	require.Equal(t, 0, m.SyncState().CurrentLine)

	h.SendKey("+")
	assert.Equal(t, 100*time.Millisecond, m.Offset())
	assert.Equal(t, 1, m.SyncState().CurrentLine)
	assert.True(t, h.ViewContains("offset +100ms"))

	h.SendKey("-")
	h.SendKey("_")
	assert.Equal(t, -100*time.Millisecond, m.Offset())
	assert.Equal(t, 0, m.SyncState().CurrentLine)

	h.SendKey("o")
	assert.Equal(t, time.Duration(0), m.Offset())
}

func TestLyrics_OffsetResetRestoresConfigured(t *testing.T) {
	m := New(nil, Settings{Offset: 300 * time.Millisecond})
	m.SetSize(80, 20)
	h := testutil.NewPopupHarness(m)

	h.SendKey("=")
	assert.Equal(t, 400*time.Millisecond, m.Offset())
	h.SendKey("o")
	assert.Equal(t, 300*time.Millisecond, m.Offset())
}

func TestLyrics_PreviewClock(t *testing.T) {
	m, h := newLoadedLyricsPopup(t, makeSampleLines(3))

	cmd := h.SendKey(" ")
	require.NotNil(t, cmd)
	require.True(t, m.Playing())
	gen := m.tickGen

	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.NotNil(t, h.SendMsg(TickMsg{At: t0, gen: gen}))
	assert.Equal(t, time.Duration(0), m.Position(), "first tick only anchors the clock")

	h.SendMsg(TickMsg{At: t0.Add(5500 * time.Millisecond), gen: gen})
	assert.Equal(t, 5500*time.Millisecond, m.Position())
	assert.Equal(t, 1, m.SyncState().CurrentLine)

	// Ticks from an earlier play session are dropped.
	assert.Nil(t, h.SendMsg(TickMsg{At: t0.Add(time.Hour), gen: gen - 1}))
	assert.Equal(t, 5500*time.Millisecond, m.Position())

	h.SendKey(" ")
	assert.False(t, m.Playing())
	assert.Nil(t, h.SendMsg(TickMsg{At: t0.Add(6 * time.Second), gen: gen}))
	assert.Equal(t, 5500*time.Millisecond, m.Position())
}

func TestLyrics_PreviewClockStopsAtEnd(t *testing.T) {
	m, h := newLoadedLyricsPopup(t, makeSampleLines(3))
	m.track.Duration = time.Second
	m.SetPosition(900 * time.Millisecond)
	m.Play()

	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	h.SendMsg(TickMsg{At: t0, gen: m.tickGen})
	cmd := h.SendMsg(TickMsg{At: t0.Add(500 * time.Millisecond), gen: m.tickGen})

	assert.Nil(t, cmd)
	assert.False(t, m.Playing())
	assert.Equal(t, time.Second, m.Position())
}

func TestLyrics_FetchedMsgLoadsLyrics(t *testing.T) {
	_, h := newLoadedLyricsPopup(t, lyrics.Timeline{&lyrics.SyncedLine{Text: "Hello world", StartMs: 0, EndMs: 1000}})

	assert.True(t, h.ViewContains("Hello world"))
	assert.True(t, h.ViewContains("synced"))
	assert.True(t, h.ViewContains("file"))
}

func TestLyrics_FetchedMsgIgnoresStaleResults(t *testing.T) {
	m := newTestModel()
	h := testutil.NewPopupHarness(m)

	h.SendMsg(FetchedMsg{
		TrackPath: "/test/old.mp3",
		Result: lyrics.FetchResult{
			Lyrics: &lyrics.Lyrics{Timeline: makeSampleLines(1)},
		},
	})

	assert.Equal(t, StateLoading, m.State())
	assert.False(t, h.ViewContains("Line 0"))
}

func TestLyrics_FetchedMsgHandlesNotFound(t *testing.T) {
	m := newTestModel()
	h := testutil.NewPopupHarness(m)

	h.SendMsg(FetchedMsg{TrackPath: testTrackPath, Result: lyrics.FetchResult{Source: "not_found"}})

	assert.Equal(t, StateNotFound, m.State())
	assert.True(t, h.ViewContains("No lyrics found"))
	assert.True(t, h.ViewContains("Song - Band"))
}

func TestLyrics_FetchedMsgHandlesError(t *testing.T) {
	m := newTestModel()
	h := testutil.NewPopupHarness(m)

	h.SendMsg(FetchedMsg{TrackPath: testTrackPath, Err: errors.New("connection timeout")})

	assert.Equal(t, StateError, m.State())
	assert.True(t, h.ViewContains("Error loading lyrics"))
	assert.True(t, h.ViewContains("connection timeout"))
}

func TestLyrics_SetTrackFetches(t *testing.T) {
	m := New(nil, testSettings)
	m.SetSize(80, 20)

	cmd := m.SetTrack(lyrics.TrackInfo{FilePath: "/music/a.flac", Title: "A"})
	require.NotNil(t, cmd)
	assert.Equal(t, StateLoading, m.State())

	msg := fetchLyricsMsg(t, m)
	assert.Equal(t, "/music/a.flac", msg.TrackPath)
	assert.Equal(t, "not_found", msg.Result.Source)
}

func fetchLyricsMsg(t *testing.T, m *Model) FetchedMsg {
	t.Helper()
	msg, ok := m.fetchLyricsCmd()().(FetchedMsg)
	require.True(t, ok)
	return msg
}

func TestLyrics_View(t *testing.T) {
	h := testutil.NewPopupHarness(newTestModel())

	assert.True(t, h.ViewContains("Lyrics · Song - Band"))
	assert.True(t, h.ViewContains("Loading lyrics"))
	assert.True(t, h.ViewContains("q close"))
	assert.True(t, h.ViewContains("0:00"))
}

func TestLyrics_ViewEmptyWhenNoSize(t *testing.T) {
	h := testutil.NewPopupHarness(New(nil, testSettings))
	assert.Empty(t, h.View())
}

func TestLyrics_Help(t *testing.T) {
	m, h := newLoadedLyricsPopup(t, makeSampleLines(3))

	h.SendKey("?")
	assert.True(t, m.showHelp)
	assert.True(t, h.ViewContains("Toggle help"))
	assert.True(t, h.ViewContains("space"))
	assert.True(t, h.ViewContains("q/esc/ctrl+c"))

	h.SendKey("?")
	assert.False(t, h.ViewContains("Toggle help"))
}

func TestLyrics_KaraokeLine(t *testing.T) {
	m, h := newLoadedLyricsPopup(t, lyrics.Timeline{helloWorld()})
	m.SetPosition(1500 * time.Millisecond)

	assert.Equal(t, 1, m.SyncState().CurrentSyllable)
	assert.True(t, h.ViewContains("Hello World"))
	assert.True(t, h.ViewContains("Bonjour le monde"))

	h.SendKey("t")
	assert.False(t, h.ViewContains("Bonjour le monde"))
	assert.Equal(t, 1, m.lineHeight(0))
}

func TestLyrics_ToggleAnimationAndAlignment(t *testing.T) {
	m, h := newLoadedLyricsPopup(t, lyrics.Timeline{helloWorld()})

	h.SendKey("a")
	assert.False(t, m.animations)
	assert.True(t, h.ViewContains("Hello World"))

	require.Equal(t, layout.AlignCenter, m.alignment)
	h.SendKey("A")
	assert.Equal(t, layout.AlignRight, m.alignment)
	h.SendKey("A")
	assert.Equal(t, layout.AlignLeft, m.alignment)

	line := testutil.FindLine(h.View(), "Hello World")
	assert.Equal(t, "Hello World", line[:len("Hello World")])
}

func TestSyllableProgress(t *testing.T) {
	state := lyrics.SyncState{CurrentSyllable: 1, SyllableProgress: 0.25}

	assert.Equal(t, 1.0, syllableProgress(0, state))
	assert.Equal(t, 0.25, syllableProgress(1, state))
	assert.Equal(t, 0.0, syllableProgress(2, state))
	assert.Equal(t, 0.0, syllableProgress(0, lyrics.SyncState{CurrentSyllable: -1}))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0:00", formatDuration(0))
	assert.Equal(t, "1:05", formatDuration(65*time.Second))
	assert.Equal(t, "0:00", formatDuration(-time.Second))
	assert.Equal(t, "10:00", formatDuration(599600*time.Millisecond))
}

func TestLyrics_SpinnerTickIgnoredWhenLoaded(t *testing.T) {
	m, _ := newLoadedLyricsPopup(t, makeSampleLines(1))
	_, cmd := m.Update(m.spinner.Tick())
	assert.Nil(t, cmd)
}
