package lyrics

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// Character animation thresholds.
const (
	MinPerCharMs = 100
	MinWordMs    = 500
)

// Word is a run of consecutive syllables of one line, ending at the first
// syllable with trailing whitespace.
type Word struct {
	Syllables []Syllable
	// Index is the position of the first syllable within the line.
	Index int
}

// Text returns the concatenated syllable contents.
func (w Word) Text() string {
	var b strings.Builder
	for _, s := range w.Syllables {
		b.WriteString(s.Content)
	}
	return b.String()
}

// StartMs returns the start of the first syllable.
func (w Word) StartMs() int64 {
	if len(w.Syllables) == 0 {
		return 0
	}
	return w.Syllables[0].StartMs
}

// EndMs returns the end of the last syllable.
func (w Word) EndMs() int64 {
	if len(w.Syllables) == 0 {
		return 0
	}
	return w.Syllables[len(w.Syllables)-1].EndMs
}

// GroupIntoWords partitions syllables into words. The result shares the
// backing array of syllables; concatenating it yields the input.
func GroupIntoWords(syllables []Syllable) []Word {
	var words []Word
	start := 0
	for i, s := range syllables {
		if hasTrailingSpace(s.Content) {
			words = append(words, Word{Syllables: syllables[start : i+1], Index: start})
			start = i + 1
		}
	}
	if start < len(syllables) {
		words = append(words, Word{Syllables: syllables[start:], Index: start})
	}
	return words
}

func hasTrailingSpace(s string) bool {
	return len(strings.TrimRightFunc(s, unicode.IsSpace)) < len(s)
}

// Animation is the per-word character animation decision.
type Animation struct {
	Eligible  bool
	PerCharMs float64
}

// DecideAnimation decides whether a word may be animated character by
// character. Short words, coarse timings, background vocals and scripts
// whose characters are not legible on their own (CJK, Arabic, Devanagari)
// fall back to whole-syllable highlighting.
func DecideAnimation(w Word, accompaniment, enabled bool) Animation {
	text := w.Text()
	durationMs := w.EndMs() - w.StartMs()
	chars := uniseg.GraphemeClusterCount(text)

	var perChar float64
	if chars > 0 && durationMs > 0 {
		perChar = float64(durationMs) / float64(chars)
	}

	eligible := enabled &&
		perChar > MinPerCharMs &&
		durationMs >= MinWordMs &&
		!accompaniment &&
		!IsPureCJK(text) &&
		!ContainsArabic(text) &&
		!ContainsDevanagari(text)

	return Animation{Eligible: eligible, PerCharMs: perChar}
}
