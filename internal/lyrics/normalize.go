package lyrics

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
)

// Normalize sorts lines by start time, drops lines and syllables with a
// non-positive duration and strips trailing whitespace from the end of
// every karaoke line. It never fails; invalid input is filtered out.
// The input is not modified.
func Normalize(lines Timeline) Timeline {
	sorted := make(Timeline, 0, len(lines))
	for _, line := range lines {
		if line != nil {
			sorted = append(sorted, line)
		}
	}
	slices.SortStableFunc(sorted, func(a, b Line) int {
		sa, _ := a.Span()
		sb, _ := b.Span()
		return cmp.Compare(sa, sb)
	})

	out := make(Timeline, 0, len(sorted))
	for _, line := range sorted {
		if start, end := line.Span(); end <= start {
			continue
		}
		if n := normalizeLine(line); n != nil {
			out = append(out, n)
		}
	}
	return out
}

func normalizeLine(line Line) Line {
	switch l := line.(type) {
	case *KaraokeLine:
		syllables := make([]Syllable, 0, len(l.Syllables))
		for _, s := range l.Syllables {
			if s.EndMs > s.StartMs {
				syllables = append(syllables, s)
			}
		}
		slices.SortStableFunc(syllables, func(a, b Syllable) int {
			return cmp.Compare(a.StartMs, b.StartMs)
		})
		syllables = trimLineEnd(syllables)
		if len(syllables) == 0 {
			return nil
		}
		n := *l
		n.Syllables = syllables
		return &n
	case *SyncedLine:
		n := *l
		n.Text = strings.TrimRightFunc(n.Text, unicode.IsSpace)
		return &n
	}
	return nil
}

// trimLineEnd drops trailing blank syllables and strips trailing
// whitespace from the new last syllable.
func trimLineEnd(syllables []Syllable) []Syllable {
	for len(syllables) > 0 {
		last := &syllables[len(syllables)-1]
		last.Content = strings.TrimRightFunc(last.Content, unicode.IsSpace)
		if last.Content != "" {
			break
		}
		syllables = syllables[:len(syllables)-1]
	}
	return syllables
}
