package lyrics

import (
	"unicode"

	"github.com/go-text/typesetting/di"
	"golang.org/x/text/unicode/bidi"
)

var cjkTable = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x3000, Hi: 0x303f, Stride: 1}, // CJK symbols and punctuation
		{Lo: 0x3040, Hi: 0x309f, Stride: 1}, // Hiragana
		{Lo: 0x30a0, Hi: 0x30ff, Stride: 1}, // Katakana
		{Lo: 0x3400, Hi: 0x4dbf, Stride: 1}, // Extension A
		{Lo: 0x4e00, Hi: 0x9fff, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x20000, Hi: 0x2a6df, Stride: 1}, // Extension B
		{Lo: 0x2a700, Hi: 0x2b73f, Stride: 1}, // Extension C
		{Lo: 0x2b740, Hi: 0x2b81f, Stride: 1}, // Extension D
	},
}

var arabicTable = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0600, Hi: 0x06ff, Stride: 1},
		{Lo: 0x0750, Hi: 0x077f, Stride: 1}, // Supplement
		{Lo: 0x08a0, Hi: 0x08ff, Stride: 1}, // Extended-A
		{Lo: 0xfb50, Hi: 0xfdff, Stride: 1}, // Presentation Forms-A
		{Lo: 0xfe70, Hi: 0xfeff, Stride: 1}, // Presentation Forms-B
	},
}

var devanagariTable = &unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x0900, Hi: 0x097f, Stride: 1}},
}

// isVisible reports whether r is neither whitespace nor punctuation.
func isVisible(r rune) bool {
	return !unicode.IsSpace(r) && !unicode.IsPunct(r)
}

// IsPureCJK reports whether every visible character of s is CJK.
// Strings without visible characters are not CJK.
func IsPureCJK(s string) bool {
	seen := false
	for _, r := range s {
		if !isVisible(r) {
			continue
		}
		if !unicode.Is(cjkTable, r) {
			return false
		}
		seen = true
	}
	return seen
}

// ContainsArabic reports whether s has any Arabic code point.
func ContainsArabic(s string) bool {
	return containsAny(s, arabicTable)
}

// ContainsDevanagari reports whether s has any Devanagari code point.
func ContainsDevanagari(s string) bool {
	return containsAny(s, devanagariTable)
}

func containsAny(s string, table *unicode.RangeTable) bool {
	for _, r := range s {
		if isVisible(r) && unicode.Is(table, r) {
			return true
		}
	}
	return false
}

// DetectDirection returns the base direction of s from its first strong
// character, defaulting to left-to-right.
func DetectDirection(s string) di.Direction {
	for i := 0; i < len(s); {
		props, size := bidi.LookupString(s[i:])
		if size == 0 {
			break
		}
		switch props.Class() {
		case bidi.L:
			return di.DirectionLTR
		case bidi.R, bidi.AL:
			return di.DirectionRTL
		}
		i += size
	}
	return di.DirectionLTR
}

// LineDirection returns the base direction of a line's text.
func LineDirection(l Line) di.Direction {
	return DetectDirection(LineText(l))
}
