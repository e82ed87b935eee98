// Package lyrics parses timed lyrics into a normalized timeline and maps
// playback positions to synchronization state.
package lyrics

import (
	"strings"
	"time"
)

// Syllable is the smallest independently timed unit of lyric text.
// Trailing whitespace in Content marks a word boundary.
type Syllable struct {
	Content string
	StartMs int64
	EndMs   int64
}

// Duration returns the syllable duration in milliseconds.
func (s Syllable) Duration() int64 {
	return s.EndMs - s.StartMs
}

// Line is one displayed unit of lyrics. It is either a *KaraokeLine
// (syllable timing) or a *SyncedLine (line timing only).
type Line interface {
	// Span returns the authored start and end of the line in milliseconds.
	// It need not match the first/last syllable timings.
	Span() (startMs, endMs int64)
	// IsAccompaniment reports whether the line is a background vocal.
	IsAccompaniment() bool

	line()
}

// KaraokeLine carries per-syllable timing.
type KaraokeLine struct {
	Syllables     []Syllable
	StartMs       int64
	EndMs         int64
	Accompaniment bool

	// Agent is the voice identifier for duets, empty when unspecified.
	Agent        string
	Translation  string
	Romanization string
}

// SyncedLine only knows when the whole line is sung.
type SyncedLine struct {
	Text    string
	StartMs int64
	EndMs   int64
}

func (l *KaraokeLine) Span() (startMs, endMs int64) { return l.StartMs, l.EndMs }
func (l *KaraokeLine) IsAccompaniment() bool        { return l.Accompaniment }
func (*KaraokeLine) line()                          {}

func (l *SyncedLine) Span() (startMs, endMs int64) { return l.StartMs, l.EndMs }
func (*SyncedLine) IsAccompaniment() bool         { return false }
func (*SyncedLine) line()                         {}

// Text returns the concatenated syllable contents.
func (l *KaraokeLine) Text() string {
	var b strings.Builder
	for _, s := range l.Syllables {
		b.WriteString(s.Content)
	}
	return b.String()
}

// Syllables returns the syllables of a line. A synced line is exposed as a
// single syllable spanning the whole line.
func Syllables(l Line) []Syllable {
	switch l := l.(type) {
	case *KaraokeLine:
		return l.Syllables
	case *SyncedLine:
		return []Syllable{{Content: l.Text, StartMs: l.StartMs, EndMs: l.EndMs}}
	}
	return nil
}

// LineText returns the display text of a line.
func LineText(l Line) string {
	switch l := l.(type) {
	case *KaraokeLine:
		return l.Text()
	case *SyncedLine:
		return l.Text
	}
	return ""
}

// Timeline is the ordered, normalized sequence of lines for one asset.
// It is never mutated after construction and is safe for concurrent reads.
type Timeline []Line

// Format identifies the source format of a lyrics asset.
type Format string

const (
	FormatTTML  Format = "ttml"
	FormatLRC   Format = "lrc"
	FormatPlain Format = "plain"
)

// Lyrics contains a parsed timeline with optional metadata.
type Lyrics struct {
	Timeline Timeline
	Title    string
	Artist   string
	Album    string
	Format   Format
}

// IsSynced returns true if the lyrics carry any timing information.
func (l *Lyrics) IsSynced() bool {
	for _, line := range l.Timeline {
		if start, end := line.Span(); start > 0 || end > 0 {
			return true
		}
	}
	return false
}

// HasSyllableTiming returns true if at least one line is a karaoke line.
func (l *Lyrics) HasSyllableTiming() bool {
	for _, line := range l.Timeline {
		if _, ok := line.(*KaraokeLine); ok {
			return true
		}
	}
	return false
}

// SyncAt returns the synchronization state at the given playback position.
func (l *Lyrics) SyncAt(pos, offset time.Duration) SyncState {
	return Sync(l.Timeline, pos.Milliseconds(), offset.Milliseconds())
}
