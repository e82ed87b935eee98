package lyrics

import "math"

// SyncState is the synchronization snapshot for one playback position.
// Index fields are -1 when absent.
type SyncState struct {
	CurrentLine      int
	LineProgress     float64
	CurrentSyllable  int
	SyllableProgress float64

	// NextLineStart is valid only when HasNextLine is set.
	NextLineStart int64
	HasNextLine   bool

	// ActiveLines holds every line spanning the position, ascending.
	ActiveLines []int
}

// IsActive reports whether line i spans the queried position.
func (s SyncState) IsActive(i int) bool {
	for _, a := range s.ActiveLines {
		if a == i {
			return true
		}
	}
	return false
}

// Sync maps a playback position to synchronization state. It is pure and
// safe to call concurrently on the same timeline.
//
// The offset is added to the position so lyrics lead the audio slightly.
// Among overlapping lines, the latest one in timeline order is current.
func Sync(timeline Timeline, positionMs, offsetMs int64) SyncState {
	pos := saturatingAdd(positionMs, offsetMs)
	state := SyncState{CurrentLine: -1, CurrentSyllable: -1}

	for i, line := range timeline {
		start, end := line.Span()
		if end <= start {
			// Untimed lines never become active.
			continue
		}
		if start <= pos && pos <= end {
			state.CurrentLine = i
			state.ActiveLines = append(state.ActiveLines, i)
		}
	}
	if state.CurrentLine < 0 {
		return state
	}

	line := timeline[state.CurrentLine]
	switch l := line.(type) {
	case *KaraokeLine:
		syncKaraoke(&state, l, pos)
	default:
		start, end := line.Span()
		state.LineProgress = clamp01(ratio(pos-start, end-start))
	}

	if next := state.CurrentLine + 1; next < len(timeline) {
		state.NextLineStart, _ = timeline[next].Span()
		state.HasNextLine = true
	}
	return state
}

func syncKaraoke(state *SyncState, l *KaraokeLine, pos int64) {
	n := len(l.Syllables)
	switch {
	case n == 0:
		state.LineProgress = clamp01(ratio(pos-l.StartMs, l.EndMs-l.StartMs))
		return
	case pos < l.StartMs:
		return
	case pos > l.EndMs:
		state.LineProgress = 1
		state.CurrentSyllable = n - 1
		state.SyllableProgress = 1
		return
	}

	for i, s := range l.Syllables {
		if s.StartMs <= pos && pos <= s.EndMs {
			state.CurrentSyllable = i
			state.SyllableProgress = clamp01(ratio(pos-s.StartMs, s.EndMs-s.StartMs))
			state.LineProgress = (float64(i) + state.SyllableProgress) / float64(n)
			return
		}
	}

	// Between syllables: hold the last completed one.
	for i, s := range l.Syllables {
		if s.EndMs < pos {
			state.CurrentSyllable = i
		}
	}
	state.SyllableProgress = 1
	state.LineProgress = clamp01(ratio(pos-l.StartMs, l.EndMs-l.StartMs))
}

// ratio divides two millisecond quantities; a non-positive span counts as
// already complete.
func ratio(num, den int64) float64 {
	if den <= 0 {
		return 1
	}
	return float64(num) / float64(den)
}

func clamp01(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}

func saturatingAdd(a, b int64) int64 {
	switch {
	case b > 0 && a > math.MaxInt64-b:
		return math.MaxInt64
	case b < 0 && a < math.MinInt64-b:
		return math.MinInt64
	}
	return a + b
}
