package lyrics

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-text/typesetting/di"

	"github.com/llehouerou/lyricsync/internal/layout"
	"github.com/llehouerou/lyricsync/internal/lyrics"
	"github.com/llehouerou/lyricsync/internal/ui/render"
	"github.com/llehouerou/lyricsync/internal/ui/styles"
)

const defaultWidth = 80

// View implements popup.Popup.
func (m *Model) View() string {
	if m.Width() == 0 || m.Height() == 0 {
		return ""
	}
	return m.render()
}

func (m *Model) render() string {
	t := styles.T()

	var content string
	switch {
	case m.showHelp:
		content = m.renderHelp()
	case m.state == StateLoading:
		content = m.renderLoading()
	case m.state == StateNotFound:
		content = m.renderNotFound()
	case m.state == StateError:
		content = m.renderError()
	default:
		content = m.renderLyrics()
	}

	var result strings.Builder
	result.WriteString(t.S().Title.Render(render.Truncate(m.title(), m.Width())))
	result.WriteString("\n\n")
	result.WriteString(content)
	result.WriteString("\n\n")
	result.WriteString(t.S().Subtle.Render(render.Truncate(m.buildFooter(), m.Width())))
	return result.String()
}

func (m *Model) title() string {
	title := "Lyrics"
	if m.track.Title != "" {
		title += " · " + m.track.Title
		if m.track.Artist != "" {
			title += " - " + m.track.Artist
		}
	}
	return title
}

func (m *Model) trackInfo() string {
	info := m.track.Title
	if m.track.Artist != "" {
		info += " - " + m.track.Artist
	}
	return info
}

func (m *Model) renderLoading() string {
	subtle := styles.T().S().Subtle
	return m.spinner.View() + subtle.Render(" Loading lyrics...") + "\n\n" + subtle.Render(m.trackInfo())
}

func (m *Model) renderNotFound() string {
	subtle := styles.T().S().Subtle
	return subtle.Render("No lyrics found") + "\n\n" + subtle.Render(m.trackInfo())
}

func (m *Model) renderError() string {
	t := styles.T()
	return t.S().Error.Render("Error loading lyrics") + "\n\n" + t.S().Subtle.Render(m.errorMsg)
}

func (m *Model) renderHelp() string {
	t := styles.T()
	sections := []struct{ name, context string }{
		{"General", "global"},
		{"Playback", "playback"},
		{"Sync", "sync"},
		{"Scroll", "scroll"},
		{"Display", "display"},
	}
	var lines []string
	for i, s := range sections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, t.S().Title.Render(s.name))
		for _, l := range m.keys.Help(s.context) {
			lines = append(lines, t.S().Muted.Render(l))
		}
	}
	if h := m.visibleHeight(); len(lines) > h {
		lines = lines[:h]
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderLyrics() string {
	if m.lyrics == nil || len(m.lyrics.Timeline) == 0 {
		return m.renderNotFound()
	}

	visible := m.visibleHeight()
	rows := make([]string, 0, visible)
	for i := m.scrollOffset; i < len(m.lyrics.Timeline) && len(rows) < visible; i++ {
		rows = append(rows, m.renderBlock(i)...)
	}
	rows = rows[:min(len(rows), visible)]

	blank := strings.Repeat(" ", m.Width())
	for len(rows) < visible {
		rows = append(rows, blank)
	}
	return strings.Join(rows, "\n")
}

// contentWidth is the width lyrics are laid out in.
func (m *Model) contentWidth() int {
	w := m.Width()
	if w <= 0 {
		w = defaultWidth
	}
	if m.settings.Width > 0 {
		w = min(w, m.settings.Width)
	}
	return w
}

func (m *Model) layoutOptions() layout.Options {
	opts := layout.Options{
		Width:      float64(m.contentWidth()),
		RowHeight:  1,
		Alignment:  m.alignment,
		Animations: m.animations,
		MeasureKey: "cells",
	}
	switch {
	case m.settings.RTL == nil:
		opts.AutoDirection = true
	case *m.settings.RTL:
		opts.Direction = di.DirectionRTL
	default:
		opts.Direction = di.DirectionLTR
	}
	return opts
}

func (m *Model) lineLayout(i int) layout.Layout {
	return m.layouts.Get(m.lyrics.Timeline[i], m.layoutOptions(), render.Cells)
}

// lineHeight is the number of terminal rows line i occupies.
func (m *Model) lineHeight(i int) int {
	h := max(len(m.lineLayout(i).Rows), 1)
	if m.translationOf(i) != "" {
		h++
	}
	return h
}

func (m *Model) translationOf(i int) string {
	if !m.translation {
		return ""
	}
	if k, ok := m.lyrics.Timeline[i].(*lyrics.KaraokeLine); ok {
		return k.Translation
	}
	return ""
}

// renderBlock renders line i and its translation as terminal rows.
func (m *Model) renderBlock(i int) []string {
	l := m.lineLayout(i)
	width, full := m.contentWidth(), m.Width()

	canvas := make([]render.Line, max(len(l.Rows), 1))
	paint := m.painter(i)
	for _, s := range l.Syllables {
		canvas[s.RowIndex].Put(int(math.Round(s.X)), paint(s))
	}

	out := make([]string, 0, len(canvas)+1)
	for _, c := range canvas {
		out = append(out, render.Center(c.String(width), full))
	}
	if tr := m.translationOf(i); tr != "" {
		style := styles.T().S().Translation
		out = append(out, render.Center(style.Render(render.Truncate(tr, width)), full))
	}
	return out
}

// painter returns the styling function for the syllables of line i.
func (m *Model) painter(i int) func(layout.SyllableLayout) string {
	t := styles.T()
	line := m.lyrics.Timeline[i]
	start, end := line.Span()
	bg := line.IsAccompaniment()

	text := func(s layout.SyllableLayout) string { return render.Sanitize(s.Syllable.Content) }

	if !m.lyrics.IsSynced() || end <= start {
		return func(s layout.SyllableLayout) string { return t.S().Base.Render(text(s)) }
	}

	if !m.sync.IsActive(i) {
		style := t.S().Base
		switch {
		case end <= m.effectiveMs():
			style = t.S().Muted
		case bg:
			style = t.S().Background
		}
		return func(s layout.SyllableLayout) string { return style.Render(text(s)) }
	}

	if _, ok := line.(*lyrics.SyncedLine); ok {
		return func(s layout.SyllableLayout) string { return t.S().Sung.Render(text(s)) }
	}

	state := m.sync
	if i != m.sync.CurrentLine {
		state = lyrics.Sync(lyrics.Timeline{line}, m.position.Milliseconds(), m.offset.Milliseconds())
	}
	sung, unsung := t.Sung, t.Unsung
	if bg {
		sung, unsung = t.Accompaniment, t.FgMuted
	}
	return func(s layout.SyllableLayout) string {
		p := syllableProgress(s.Index, state)
		if s.UseAnimation {
			return styles.Wipe(text(s), p, sung, unsung)
		}
		return styles.Fade(text(s), p, sung, unsung)
	}
}

// syllableProgress is how much of syllable k is sung.
func syllableProgress(k int, state lyrics.SyncState) float64 {
	switch c := state.CurrentSyllable; {
	case c < 0 || k > c:
		return 0
	case k < c:
		return 1
	}
	return state.SyllableProgress
}

func (m *Model) effectiveMs() int64 {
	return (m.position + m.offset).Milliseconds()
}

func (m *Model) buildFooter() string {
	var parts []string

	pos := formatDuration(m.position)
	if m.track.Duration > 0 {
		pos += " / " + formatDuration(m.track.Duration)
	}
	if m.playing {
		pos = "▶ " + pos
	} else {
		pos = "⏸ " + pos
	}
	parts = append(parts, pos)

	if m.offset != 0 {
		parts = append(parts, fmt.Sprintf("offset %+dms", m.offset.Milliseconds()))
	}

	if m.state == StateLoaded && m.lyrics != nil {
		parts = append(parts, m.syncIndicator())
		if m.origin != "" {
			parts = append(parts, m.origin)
		}
	}

	parts = append(parts, "? help", "q close")
	return strings.Join(parts, " · ")
}

func (m *Model) syncIndicator() string {
	switch {
	case !m.lyrics.IsSynced():
		return "unsynced"
	case !m.autoScroll:
		return "c sync"
	case m.lyrics.HasSyllableTiming():
		return "karaoke"
	}
	return "synced"
}

// formatDuration formats a duration as mm:ss.
func formatDuration(d time.Duration) string {
	d = max(d, 0).Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d", m, s)
}
