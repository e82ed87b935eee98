package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/lyricsync/internal/layout"
	"github.com/llehouerou/lyricsync/internal/lyrics"
	uilyrics "github.com/llehouerou/lyricsync/internal/ui/lyrics"
)

const sampleLRC = `[ar:Band]
[ti:Song]
[00:01.00]first line
[00:03.00]second line
[00:05.00]third line
`

// offlineConfig writes a config that disables the cache and remote lookups.
func offlineConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[cache]\nenabled = false\n[lrclib]\nenabled = false\n"), 0o600))
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_PrintsTimeline(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.lrc")
	require.NoError(t, os.WriteFile(path, []byte(sampleLRC), 0o600))

	code, out, errOut := runCLI(t, "-config", offlineConfig(t, dir), path)

	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Band - Song")
	assert.Contains(t, out, "lrc lyrics, 3 lines, from file")
	assert.Contains(t, out, "[0:01.000 - 0:03.000] first line")
}

func TestRun_SyncAt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.lrc")
	require.NoError(t, os.WriteFile(path, []byte(sampleLRC), 0o600))

	code, out, errOut := runCLI(t, "-config", offlineConfig(t, dir), "-at", "4000", "-offset=-500", "-width", "20", path)

	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "offset -500ms")
	assert.Contains(t, out, "line 1 (25%)")
	assert.Contains(t, out, "next line at 0:05.000")
	assert.Contains(t, out, "|     second line    |")
}

func TestRun_StrictRejectsBrokenTTML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.ttml")
	require.NoError(t, os.WriteFile(path, []byte(`<tt><body><div><p begin="bad" end="2s">x</p></div></body></tt>`), 0o600))

	code, _, errOut := runCLI(t, "-config", offlineConfig(t, dir), "-strict", path)

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Failed to parse lyrics")
}

func TestRun_NotFound(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "track.mp3")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	code, _, errOut := runCLI(t, "-config", offlineConfig(t, dir), path)

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "No lyrics found for track")
}

func TestRun_Usage(t *testing.T) {
	code, _, errOut := runCLI(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "usage: lyricsync")

	code, _, _ = runCLI(t, "-h")
	assert.Equal(t, 0, code)
}

func TestRun_MissingExplicitConfig(t *testing.T) {
	code, _, errOut := runCLI(t, "-config", filepath.Join(t.TempDir(), "nope.toml"), "song.lrc")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Failed to load config")
}

func TestRenderRows(t *testing.T) {
	line := &lyrics.SyncedLine{Text: "one two three", StartMs: 0, EndMs: 1000}

	rows := renderRows(line, layout.Options{Width: 8, RowHeight: 1})
	assert.Equal(t, []string{"one two ", "three   "}, rows)
}

func TestPrintSync_NoCurrentLine(t *testing.T) {
	var buf bytes.Buffer
	l := lyrics.Decode(lyrics.FormatLRC, sampleLRC)

	printSync(&buf, l, 0, uilyrics.Settings{Width: 40})
	assert.Contains(t, buf.String(), "no current line")
	assert.Contains(t, buf.String(), "active lines []")
	assert.NotContains(t, buf.String(), "next line")
}

func TestFormatMs(t *testing.T) {
	assert.Equal(t, "0:00.000", formatMs(0))
	assert.Equal(t, "1:01.250", formatMs(61250))
	assert.Equal(t, "-0:00.500", formatMs(-500))
	assert.Equal(t, "0:05.000", formatMs((5 * time.Second).Milliseconds()))
}
