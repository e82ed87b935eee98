// Package layout wraps a line's syllables into rows that fit a measured
// width and positions them for rendering. Glyph measurement is supplied
// by the caller through a Measurer.
package layout

import (
	"strings"
	"unicode"

	"github.com/llehouerou/lyricsync/internal/lyrics"
)

// Metrics is the measured size of a piece of text.
type Metrics struct {
	Width float64
	// Baseline is the distance from the top of the row to the text baseline.
	Baseline float64
}

// Measurer measures text on the target surface.
type Measurer interface {
	Measure(text string) Metrics
}

// MeasureFunc adapts a function to the Measurer interface.
type MeasureFunc func(text string) Metrics

// Measure implements Measurer.
func (f MeasureFunc) Measure(text string) Metrics { return f(text) }

// Item is a measured syllable.
type Item struct {
	Syllable lyrics.Syllable
	// Index is the syllable position within the line.
	Index  int
	WordID int
	Metrics
}

// Row is one wrapped visual row.
type Row struct {
	Items []Item
	Width float64
}

// MeasureWords measures every syllable of the given words.
func MeasureWords(words []lyrics.Word, m Measurer) []Item {
	var items []Item
	for id, w := range words {
		for i, s := range w.Syllables {
			items = append(items, Item{
				Syllable: s,
				Index:    w.Index + i,
				WordID:   id,
				Metrics:  m.Measure(s.Content),
			})
		}
	}
	return items
}

// rowBuilder accumulates items into rows.
type rowBuilder struct {
	m    Measurer
	rows []Row
	cur  Row
}

func (b *rowBuilder) add(items ...Item) {
	for _, it := range items {
		b.cur.Items = append(b.cur.Items, it)
		b.cur.Width += it.Width
	}
}

// close trims and emits the current row unless it ends up empty.
func (b *rowBuilder) close() {
	if r := TrimTrailingSpaces(b.cur, b.m); len(r.Items) > 0 {
		b.rows = append(b.rows, r)
	}
	b.cur = Row{}
}

// Wrap greedily fills rows word by word. A word wider than a whole row is
// broken between syllables; a single syllable is never split.
func Wrap(items []Item, availableWidth float64, m Measurer) []Row {
	b := &rowBuilder{m: m}
	for _, word := range splitWords(items) {
		w := totalWidth(word)
		if b.cur.Width+w <= availableWidth {
			b.add(word...)
			continue
		}
		if len(b.cur.Items) > 0 {
			b.close()
		}
		if w <= availableWidth {
			b.add(word...)
			continue
		}
		for _, it := range word {
			if len(b.cur.Items) > 0 && b.cur.Width+it.Width > availableWidth {
				b.close()
			}
			b.add(it)
		}
	}
	b.close()
	return b.rows
}

// TrimTrailingSpaces drops trailing blank syllables and strips the
// trailing whitespace of the last remaining one, re-measuring it.
func TrimTrailingSpaces(row Row, m Measurer) Row {
	items := row.Items
	for len(items) > 0 && isBlank(items[len(items)-1].Syllable.Content) {
		items = items[:len(items)-1]
	}
	if len(items) == 0 {
		return Row{}
	}

	out := Row{Items: make([]Item, len(items))}
	copy(out.Items, items)

	last := &out.Items[len(out.Items)-1]
	if trimmed := strings.TrimRightFunc(last.Syllable.Content, unicode.IsSpace); trimmed != last.Syllable.Content {
		last.Syllable.Content = trimmed
		if m != nil {
			last.Metrics = m.Measure(trimmed)
		}
	}

	for _, it := range out.Items {
		out.Width += it.Width
	}
	return out
}

func splitWords(items []Item) [][]Item {
	var words [][]Item
	start := 0
	for i := 1; i <= len(items); i++ {
		if i == len(items) || items[i].WordID != items[start].WordID {
			words = append(words, items[start:i])
			start = i
		}
	}
	return words
}

func totalWidth(items []Item) float64 {
	var w float64
	for _, it := range items {
		w += it.Width
	}
	return w
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
