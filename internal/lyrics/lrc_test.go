package lyrics

import (
	"strings"
	"testing"
	"time"
)

func syncedAt(t *testing.T, l *Lyrics, i int) *SyncedLine {
	t.Helper()
	line, ok := l.Timeline[i].(*SyncedLine)
	if !ok {
		t.Fatalf("Timeline[%d] is %T, want *SyncedLine", i, l.Timeline[i])
	}
	return line
}

func TestParseLRC_Basic(t *testing.T) {
	lrc := `[ar:Test Artist]
[ti:Test Title]
[al:Test Album]
[00:12.34]First line
[00:15.67]Second line
[00:20.00]Third line`

	lyrics, err := ParseLRC(strings.NewReader(lrc))
	if err != nil {
		t.Fatalf("ParseLRC error: %v", err)
	}

	// Check metadata
	if lyrics.Artist != "Test Artist" {
		t.Errorf("Artist = %q, want %q", lyrics.Artist, "Test Artist")
	}
	if lyrics.Title != "Test Title" {
		t.Errorf("Title = %q, want %q", lyrics.Title, "Test Title")
	}
	if lyrics.Album != "Test Album" {
		t.Errorf("Album = %q, want %q", lyrics.Album, "Test Album")
	}
	if lyrics.Format != FormatLRC {
		t.Errorf("Format = %q, want %q", lyrics.Format, FormatLRC)
	}

	if len(lyrics.Timeline) != 3 {
		t.Fatalf("len(Timeline) = %d, want 3", len(lyrics.Timeline))
	}

	expected := []struct {
		start, end int64
		text       string
	}{
		{12340, 15670, "First line"},
		{15670, 20000, "Second line"},
		{20000, 20000 + lastLineMs, "Third line"},
	}

	for i, exp := range expected {
		line := syncedAt(t, lyrics, i)
		if line.StartMs != exp.start || line.EndMs != exp.end {
			t.Errorf("Timeline[%d] span = [%d, %d], want [%d, %d]", i, line.StartMs, line.EndMs, exp.start, exp.end)
		}
		if line.Text != exp.text {
			t.Errorf("Timeline[%d].Text = %q, want %q", i, line.Text, exp.text)
		}
	}
}

func TestParseLRC_MultipleTimestamps(t *testing.T) {
	// Same text with multiple timestamps (chorus repeat)
	lrc := `[00:30.00][01:30.00][02:30.00]Chorus line`

	lyrics, err := ParseLRC(strings.NewReader(lrc))
	if err != nil {
		t.Fatalf("ParseLRC error: %v", err)
	}

	if len(lyrics.Timeline) != 3 {
		t.Fatalf("len(Timeline) = %d, want 3", len(lyrics.Timeline))
	}

	// All three should have the same text, sorted by time
	for i, want := range []int64{30000, 90000, 150000} {
		line := syncedAt(t, lyrics, i)
		if line.Text != "Chorus line" {
			t.Errorf("Timeline[%d].Text = %q, want %q", i, line.Text, "Chorus line")
		}
		if line.StartMs != want {
			t.Errorf("Timeline[%d].StartMs = %d, want %d", i, line.StartMs, want)
		}
	}
}

func TestParseLRC_VariousFormats(t *testing.T) {
	lrc := `[00:10]No decimal
[00:20.5]One digit decimal
[00:30.50]Two digit decimal
[00:40.500]Three digit decimal
[01:00:00]Colon separator`

	lyrics, err := ParseLRC(strings.NewReader(lrc))
	if err != nil {
		t.Fatalf("ParseLRC error: %v", err)
	}

	if len(lyrics.Timeline) != 5 {
		t.Fatalf("len(Timeline) = %d, want 5", len(lyrics.Timeline))
	}

	for i, want := range []int64{10000, 20500, 30500, 40500, 60000} {
		if got := syncedAt(t, lyrics, i).StartMs; got != want {
			t.Errorf("Timeline[%d].StartMs = %d, want %d", i, got, want)
		}
	}
}

func TestParseLRC_EmptyLines(t *testing.T) {
	lrc := `[00:10.00]First

[00:20.00]Second

[00:30.00]Third`

	lyrics, err := ParseLRC(strings.NewReader(lrc))
	if err != nil {
		t.Fatalf("ParseLRC error: %v", err)
	}

	if len(lyrics.Timeline) != 3 {
		t.Fatalf("len(Timeline) = %d, want 3", len(lyrics.Timeline))
	}
}

func TestParseLRC_EmptyTimestampEndsPreviousLine(t *testing.T) {
	lrc := `[00:10.00]First
[00:12.00]
[00:20.00]Second`

	lyrics, err := ParseLRC(strings.NewReader(lrc))
	if err != nil {
		t.Fatalf("ParseLRC error: %v", err)
	}
	if len(lyrics.Timeline) != 2 {
		t.Fatalf("len(Timeline) = %d, want 2", len(lyrics.Timeline))
	}
	if got := syncedAt(t, lyrics, 0).EndMs; got != 12000 {
		t.Errorf("first line EndMs = %d, want 12000", got)
	}
}

func TestParseLRC_NoMetadata(t *testing.T) {
	lrc := `[00:10.00]Just lyrics
[00:20.00]No metadata`

	lyrics, err := ParseLRC(strings.NewReader(lrc))
	if err != nil {
		t.Fatalf("ParseLRC error: %v", err)
	}

	if lyrics.Artist != "" {
		t.Errorf("Artist = %q, want empty", lyrics.Artist)
	}
	if lyrics.Title != "" {
		t.Errorf("Title = %q, want empty", lyrics.Title)
	}
	if len(lyrics.Timeline) != 2 {
		t.Fatalf("len(Timeline) = %d, want 2", len(lyrics.Timeline))
	}
}

func TestParseLRC_Offset(t *testing.T) {
	lrc := `[offset:+500]
[00:10.00]First
[00:20.00]Second`

	lyrics, err := ParseLRC(strings.NewReader(lrc))
	if err != nil {
		t.Fatalf("ParseLRC error: %v", err)
	}

	first := syncedAt(t, lyrics, 0)
	if first.StartMs != 9500 || first.EndMs != 19500 {
		t.Errorf("first span = [%d, %d], want [9500, 19500]", first.StartMs, first.EndMs)
	}
}

func TestParseLRC_WordTimestamps(t *testing.T) {
	lrc := `[00:01.00]<00:01.00>Hel<00:01.40>lo <00:01.70>World
[00:02.00]Next`

	lyrics, err := ParseLRC(strings.NewReader(lrc))
	if err != nil {
		t.Fatalf("ParseLRC error: %v", err)
	}
	if len(lyrics.Timeline) != 2 {
		t.Fatalf("len(Timeline) = %d, want 2", len(lyrics.Timeline))
	}

	line, ok := lyrics.Timeline[0].(*KaraokeLine)
	if !ok {
		t.Fatalf("Timeline[0] is %T, want *KaraokeLine", lyrics.Timeline[0])
	}
	want := []Syllable{
		{Content: "Hel", StartMs: 1000, EndMs: 1400},
		{Content: "lo ", StartMs: 1400, EndMs: 1700},
		{Content: "World", StartMs: 1700, EndMs: 2000},
	}
	if len(line.Syllables) != len(want) {
		t.Fatalf("len(Syllables) = %d, want %d", len(line.Syllables), len(want))
	}
	for i, s := range want {
		if line.Syllables[i] != s {
			t.Errorf("Syllables[%d] = %+v, want %+v", i, line.Syllables[i], s)
		}
	}
	if !lyrics.HasSyllableTiming() {
		t.Error("HasSyllableTiming() = false, want true")
	}
}

func TestLyrics_SyncAt(t *testing.T) {
	lyrics := &Lyrics{
		Timeline: Timeline{
			&SyncedLine{Text: "First", StartMs: 10000, EndMs: 20000},
			&SyncedLine{Text: "Second", StartMs: 20000, EndMs: 30000},
			&SyncedLine{Text: "Third", StartMs: 30000, EndMs: 35000},
		},
	}

	tests := []struct {
		pos  time.Duration
		want int
	}{
		{0, -1},               // Before any line
		{5 * time.Second, -1}, // Still before first line
		{10 * time.Second, 0}, // Exactly at first line
		{15 * time.Second, 0}, // Inside first line
		{20 * time.Second, 1}, // Shared boundary resolves to the later line
		{25 * time.Second, 1},
		{30 * time.Second, 2},
		{60 * time.Second, -1}, // After all lines
	}

	for _, tt := range tests {
		got := lyrics.SyncAt(tt.pos, 0).CurrentLine
		if got != tt.want {
			t.Errorf("SyncAt(%v).CurrentLine = %d, want %d", tt.pos, got, tt.want)
		}
	}
}

func TestLyrics_SyncAt_Empty(t *testing.T) {
	lyrics := &Lyrics{}
	if got := lyrics.SyncAt(10*time.Second, 0).CurrentLine; got != -1 {
		t.Errorf("SyncAt on empty lyrics = %d, want -1", got)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		re     string
		input  string
		want   int64
		wantOK bool
	}{
		{"line", "[01:02.5]", 62500, true},
		{"line", "[00:00]", 0, true},
		{"word", "<00:03.25>", 3250, true},
		{"line", "[ar:Artist]", 0, false},
		{"word", "[00:01.00]", 0, false},
	}

	for _, tt := range tests {
		re := timestampRe
		if tt.re == "word" {
			re = wordTimeRe
		}
		got, ok := parseTimestamp(re, tt.input)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("parseTimestamp(%q) = %d, %v, want %d, %v", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}
