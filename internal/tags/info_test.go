package tags

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamInfoDuration(t *testing.T) {
	data := make([]byte, 34)
	// 44100 Hz: 0xAC44 in the top 20 bits of bytes 10-12
	data[10], data[11], data[12] = 0x0A, 0xC4, 0x40
	// 441000 samples = 10s
	binary.BigEndian.PutUint32(data[14:18], 441000)

	d, err := streamInfoDuration(data)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, d)

	_, err = streamInfoDuration(data[:10])
	assert.Error(t, err)

	_, err = streamInfoDuration(make([]byte, 18))
	assert.Error(t, err, "zero sample rate")
}

func oggPage(granule int64) []byte {
	page := make([]byte, 27)
	copy(page, "OggS")
	binary.LittleEndian.PutUint64(page[6:14], uint64(granule))
	return page
}

func TestLastGranuleDuration(t *testing.T) {
	buf := append(oggPage(48000), oggPage(3*48000)...)
	d, err := lastGranuleDuration(buf)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, d)

	_, err = lastGranuleDuration([]byte("not an ogg stream at all, no pages here"))
	assert.Error(t, err)
}

func TestSkipID3v2(t *testing.T) {
	tagged := append([]byte{'I', 'D', '3', 4, 0, 0, 0, 0, 0, 5}, []byte("xxxxxfLaC")...)
	r := bytes.NewReader(tagged)
	require.NoError(t, skipID3v2(r))
	rest, _ := io.ReadAll(r)
	assert.Equal(t, "fLaC", string(rest))

	plain := bytes.NewReader([]byte("fLaC and more bytes"))
	require.NoError(t, skipID3v2(plain))
	pos, _ := plain.Seek(0, io.SeekCurrent)
	assert.Equal(t, int64(0), pos)
}

func TestReadDuration_Unsupported(t *testing.T) {
	_, err := ReadDuration("song.wav")
	assert.ErrorContains(t, err, "unsupported format")
}

func TestReadInfo_MissingFile(t *testing.T) {
	_, err := ReadInfo(filepath.Join(t.TempDir(), "missing.mp3"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTitleFromPath(t *testing.T) {
	assert.Equal(t, "01 - Intro", titleFromPath("/music/album/01 - Intro.flac"))
	assert.Equal(t, "noext", titleFromPath("noext"))
}

func TestTaglibTagsFirst(t *testing.T) {
	tags := taglibTags{"ARTIST": {" "}, "ALBUMARTIST": {"Band"}}
	assert.Equal(t, "Band", tags.first("ARTIST", "ALBUMARTIST"))
	assert.Empty(t, tags.first("TITLE"))
}
