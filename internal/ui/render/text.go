// Package render provides terminal text helpers for the lyrics view.
package render

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/llehouerou/lyricsync/internal/layout"
)

// Sanitize removes control characters (except tab/space) and invalid UTF-8
// bytes. Lyrics from tags and remote sources regularly carry both.
func Sanitize(s string) string {
	if !needsSanitize(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			i++
			continue
		}
		if r != '\t' && unicode.IsControl(r) {
			i += size
			continue
		}
		// Non-breaking spaces act as word boundaries on screen.
		if r == '\u00a0' {
			b.WriteByte(' ')
			i += size
			continue
		}
		b.WriteString(s[i : i+size])
		i += size
	}
	return b.String()
}

// needsSanitize returns true if the string contains bytes that need sanitizing.
func needsSanitize(s string) bool {
	for i := range len(s) {
		b := s[i]
		if b < 0x20 && b != '\t' { // ASCII control chars (except tab)
			return true
		}
		if b >= 0x80 && b <= 0x9f { // C1 control range / invalid lead bytes
			return true
		}
		if b == 0xc2 && i+1 < len(s) && s[i+1] == 0xa0 {
			return true
		}
	}
	return !utf8.ValidString(s)
}

// Cells measures text in terminal cells. Every row shares the same
// baseline.
var Cells layout.Measurer = layout.MeasureFunc(func(text string) layout.Metrics {
	return layout.Metrics{Width: float64(runewidth.StringWidth(Sanitize(text)))}
})

// Truncate shortens a string to fit within maxWidth, adding an ellipsis if truncated.
func Truncate(s string, maxWidth int) string {
	return runewidth.Truncate(Sanitize(s), maxWidth, "…")
}

// Pad fills a string with spaces to reach the specified width. Styled input
// is measured without its escape sequences.
func Pad(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// Center centers a string within the specified width.
func Center(s string, width int) string {
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	pad := (width - w) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-w-pad)
}

// Row creates a row with left and right aligned content separated by spaces.
func Row(left, right string, width int) string {
	gap := max(width-ansi.StringWidth(left)-ansi.StringWidth(right), 1)
	return left + strings.Repeat(" ", gap) + right
}
