package render

import (
	"cmp"
	"slices"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

type segment struct {
	x    int
	text string
}

// Line places styled segments at absolute cell columns.
type Line struct {
	segments []segment
}

// Put places text at column x. Overlapping segments are cut so that the
// later column wins.
func (l *Line) Put(x int, styled string) {
	l.segments = append(l.segments, segment{x: max(x, 0), text: styled})
}

// String renders the line, filling gaps with spaces, clipped to width
// cells when width is positive.
func (l *Line) String(width int) string {
	segs := slices.Clone(l.segments)
	slices.SortStableFunc(segs, func(a, b segment) int { return cmp.Compare(a.x, b.x) })

	var b strings.Builder
	col := 0
	for i, s := range segs {
		if s.x > col {
			b.WriteString(strings.Repeat(" ", s.x-col))
			col = s.x
		}
		text := s.text
		// Cut at the start of the next segment.
		if i+1 < len(segs) {
			if room := segs[i+1].x - col; room < ansi.StringWidth(text) {
				text = ansi.Truncate(text, max(room, 0), "")
			}
		}
		if width > 0 && col+ansi.StringWidth(text) > width {
			text = ansi.Truncate(text, max(width-col, 0), "")
		}
		b.WriteString(text)
		col += ansi.StringWidth(text)
	}
	if width > 0 && col < width {
		b.WriteString(strings.Repeat(" ", width-col))
	}
	return b.String()
}
