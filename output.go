package main

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-text/typesetting/di"

	"github.com/llehouerou/lyricsync/internal/layout"
	"github.com/llehouerou/lyricsync/internal/lyrics"
	uilyrics "github.com/llehouerou/lyricsync/internal/ui/lyrics"
	"github.com/llehouerou/lyricsync/internal/ui/render"
)

// printTimeline lists every line with its span.
func printTimeline(w io.Writer, l *lyrics.Lyrics, origin string) {
	header := l.Title
	if l.Artist != "" {
		header = l.Artist + " - " + header
	}
	if header != "" {
		fmt.Fprintln(w, header)
	}
	fmt.Fprintf(w, "%s lyrics, %s lines, from %s\n\n", l.Format, humanize.Comma(int64(len(l.Timeline))), origin)

	for _, line := range l.Timeline {
		start, end := line.Span()
		prefix := "   "
		if line.IsAccompaniment() {
			prefix = "bg "
		}
		text := render.Sanitize(lyrics.LineText(line))
		if !l.IsSynced() {
			fmt.Fprintln(w, text)
			continue
		}
		fmt.Fprintf(w, "%s[%s - %s] %s", prefix, formatMs(start), formatMs(end), text)
		if k, ok := line.(*lyrics.KaraokeLine); ok {
			fmt.Fprintf(w, "  (%d syllables)", len(k.Syllables))
			if k.Translation != "" {
				fmt.Fprintf(w, "\n%25s%s", "", render.Sanitize(k.Translation))
			}
		}
		fmt.Fprintln(w)
	}
}

// printSync prints the sync state at pos and the wrapped rows of the
// active lines.
func printSync(w io.Writer, l *lyrics.Lyrics, pos time.Duration, s uilyrics.Settings) {
	state := l.SyncAt(pos, s.Offset)

	fmt.Fprintf(w, "position %s, offset %+dms\n", formatMs(pos.Milliseconds()), s.Offset.Milliseconds())
	if state.CurrentLine < 0 {
		fmt.Fprintln(w, "no current line")
	} else {
		fmt.Fprintf(w, "line %d (%.0f%%)", state.CurrentLine, state.LineProgress*100)
		if state.CurrentSyllable >= 0 {
			fmt.Fprintf(w, ", syllable %d (%.0f%%)", state.CurrentSyllable, state.SyllableProgress*100)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "active lines %v\n", state.ActiveLines)
	if state.HasNextLine {
		fmt.Fprintf(w, "next line at %s\n", formatMs(state.NextLineStart))
	}

	opts := layout.Options{
		Width:      float64(s.Width),
		RowHeight:  1,
		Alignment:  s.Alignment,
		Animations: s.Animations,
	}
	switch {
	case s.RTL == nil:
		opts.AutoDirection = true
	case *s.RTL:
		opts.Direction = di.DirectionRTL
	}

	for _, i := range state.ActiveLines {
		fmt.Fprintln(w)
		for _, row := range renderRows(l.Timeline[i], opts) {
			fmt.Fprintf(w, "|%s|\n", row)
		}
	}
}

// renderRows places the syllables of a line on plain text rows.
func renderRows(line lyrics.Line, opts layout.Options) []string {
	lay := layout.Build(line, opts, render.Cells)
	rows := make([]render.Line, max(len(lay.Rows), 1))
	for _, s := range lay.Syllables {
		rows[s.RowIndex].Put(int(math.Round(s.X)), render.Sanitize(s.Syllable.Content))
	}
	out := make([]string, len(rows))
	for i := range rows {
		out[i] = rows[i].String(int(opts.Width))
	}
	return out
}

// formatMs formats milliseconds as m:ss.mmm.
func formatMs(ms int64) string {
	sign := ""
	if ms < 0 {
		sign = "-"
		ms = -ms
	}
	return fmt.Sprintf("%s%d:%02d.%03d", sign, ms/60000, ms/1000%60, ms%1000)
}
