package layout

import (
	"math"

	"github.com/go-text/typesetting/di"
	"github.com/rivo/uniseg"

	"github.com/llehouerou/lyricsync/internal/lyrics"
)

// Alignment is the horizontal alignment of rows on the canvas.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// ParseAlignment maps a config value to an Alignment, defaulting to left.
func ParseAlignment(s string) Alignment {
	switch s {
	case "center":
		return AlignCenter
	case "right":
		return AlignRight
	}
	return AlignLeft
}

// SyllableLayout is a positioned syllable.
type SyllableLayout struct {
	Syllable lyrics.Syllable
	Index    int
	Width    float64
	X, Y     float64
	WordID   int
	RowIndex int

	UseAnimation bool
	// CharOffset is the number of characters before this syllable within
	// its word.
	CharOffset int
}

// WordLayout aggregates the positioned syllables of one word, which may
// span several rows.
type WordLayout struct {
	ID             int
	StartMs, EndMs int64
	PivotX, PivotY float64
	CharCount      int
	Animation      lyrics.Animation
}

// PositionParams controls the positioning pass.
type PositionParams struct {
	Alignment   Alignment
	CanvasWidth float64
	RowHeight   float64
	Direction   di.Direction
}

// Position assigns coordinates to every syllable of the rows. Right-to-left
// rows are laid out from their right edge. Syllables in a row share the
// row's lowest baseline.
func Position(rows []Row, p PositionParams) []SyllableLayout {
	rtl := p.Direction == di.DirectionRTL
	var out []SyllableLayout
	for ri, row := range rows {
		x := startX(row.Width, p)
		if rtl {
			x += row.Width
		}

		var maxBaseline float64
		for _, it := range row.Items {
			maxBaseline = math.Max(maxBaseline, it.Baseline)
		}
		y := float64(ri) * p.RowHeight

		for _, it := range row.Items {
			if rtl {
				x -= it.Width
			}
			out = append(out, SyllableLayout{
				Syllable: it.Syllable,
				Index:    it.Index,
				Width:    it.Width,
				X:        x,
				Y:        y + maxBaseline - it.Baseline,
				WordID:   it.WordID,
				RowIndex: ri,
			})
			if !rtl {
				x += it.Width
			}
		}
	}
	return out
}

func startX(rowWidth float64, p PositionParams) float64 {
	switch p.Alignment {
	case AlignRight:
		return p.CanvasWidth - rowWidth
	case AlignCenter:
		return (p.CanvasWidth - rowWidth) / 2
	}
	return 0
}

// describeWords computes per-word animation metadata once all syllables
// are positioned, and fills the per-syllable animation fields.
func describeWords(syllables []SyllableLayout, words []lyrics.Word, anims []lyrics.Animation, rowHeight float64) []WordLayout {
	out := make([]WordLayout, len(words))
	type bounds struct{ minX, maxX, minY, maxY float64 }
	box := make([]bounds, len(words))
	seen := make([]bool, len(words))

	for i := range syllables {
		s := &syllables[i]
		id := s.WordID
		if id < 0 || id >= len(words) {
			continue
		}
		w := &out[id]
		s.CharOffset = w.CharCount
		s.UseAnimation = anims[id].Eligible
		w.CharCount += uniseg.GraphemeClusterCount(s.Syllable.Content)

		b := bounds{s.X, s.X + s.Width, s.Y, s.Y + rowHeight}
		if !seen[id] {
			box[id], seen[id] = b, true
			continue
		}
		box[id].minX = math.Min(box[id].minX, b.minX)
		box[id].maxX = math.Max(box[id].maxX, b.maxX)
		box[id].minY = math.Min(box[id].minY, b.minY)
		box[id].maxY = math.Max(box[id].maxY, b.maxY)
	}

	for id, word := range words {
		out[id].ID = id
		out[id].StartMs = word.StartMs()
		out[id].EndMs = word.EndMs()
		out[id].Animation = anims[id]
		if seen[id] {
			out[id].PivotX = (box[id].minX + box[id].maxX) / 2
			out[id].PivotY = (box[id].minY + box[id].maxY) / 2
		}
	}
	return out
}
