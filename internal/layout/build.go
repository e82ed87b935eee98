package layout

import (
	"strings"

	"github.com/go-text/typesetting/di"

	"github.com/llehouerou/lyricsync/internal/lyrics"
)

// Options are the layout inputs besides the line itself. Options is
// comparable so it can be part of a cache key.
type Options struct {
	Width     float64
	RowHeight float64
	Alignment Alignment
	// Direction is used as given unless AutoDirection is set.
	Direction     di.Direction
	AutoDirection bool
	Animations    bool
	// MeasureKey identifies the measurement inputs (font, size) for caching.
	MeasureKey string
}

// Layout is the positioned result for one line.
type Layout struct {
	Rows      []Row
	Syllables []SyllableLayout
	Words     []WordLayout
	Height    float64
}

// Build measures, wraps and positions a line.
func Build(line lyrics.Line, opts Options, m Measurer) Layout {
	syllables := layoutSyllables(line)
	words := lyrics.GroupIntoWords(syllables)

	anims := make([]lyrics.Animation, len(words))
	for i, w := range words {
		anims[i] = lyrics.DecideAnimation(w, line.IsAccompaniment(), opts.Animations)
	}

	dir := opts.Direction
	if opts.AutoDirection {
		dir = lyrics.LineDirection(line)
	}

	rows := Wrap(MeasureWords(words, m), opts.Width, m)
	positioned := Position(rows, PositionParams{
		Alignment:   opts.Alignment,
		CanvasWidth: opts.Width,
		RowHeight:   opts.RowHeight,
		Direction:   dir,
	})

	return Layout{
		Rows:      rows,
		Syllables: positioned,
		Words:     describeWords(positioned, words, anims, opts.RowHeight),
		Height:    float64(len(rows)) * opts.RowHeight,
	}
}

// layoutSyllables returns the wrappable units of a line. Synced lines are
// split after each whitespace run so they can wrap between words.
func layoutSyllables(line lyrics.Line) []lyrics.Syllable {
	synced, ok := line.(*lyrics.SyncedLine)
	if !ok {
		return lyrics.Syllables(line)
	}

	var out []lyrics.Syllable
	for _, word := range splitAfterSpaces(synced.Text) {
		out = append(out, lyrics.Syllable{Content: word, StartMs: synced.StartMs, EndMs: synced.EndMs})
	}
	return out
}

// splitAfterSpaces splits s into words that keep their trailing spaces.
func splitAfterSpaces(s string) []string {
	var out []string
	for s != "" {
		i := strings.IndexAny(s, " \t")
		if i < 0 {
			out = append(out, s)
			break
		}
		j := i
		for j < len(s) && (s[j] == ' ' || s[j] == '\t') {
			j++
		}
		out = append(out, s[:j])
		s = s[j:]
	}
	return out
}
