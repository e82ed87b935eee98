package tags

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	goflac "github.com/go-flac/go-flac"
	"github.com/gopxl/beep/v2/flac"
	"github.com/llehouerou/go-m4a"
	"github.com/llehouerou/go-mp3"
	"go.senan.xyz/taglib"
)

const id3Magic = "ID3"

// opusSampleRate is the granule rate of every Opus stream.
const opusSampleRate = 48000

// Info is the track metadata used to look up lyrics.
type Info struct {
	Artist   string
	Title    string
	Album    string
	Duration time.Duration
}

// ReadInfo reads artist, title, album and duration from a music file.
// A missing duration is not an error; lookups simply go without it.
func ReadInfo(path string) (*Info, error) {
	info, err := readTagInfo(path)
	if err != nil {
		return nil, err
	}
	if d, err := ReadDuration(path); err == nil {
		info.Duration = d
	}
	return info, nil
}

func readTagInfo(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		// dhowden/tag can't parse some files (e.g., ffmpeg-created M4A)
		return readTaglibInfo(path)
	}

	info := &Info{Title: m.Title(), Artist: m.Artist(), Album: m.Album()}
	if info.Artist == "" {
		info.Artist = m.AlbumArtist()
	}
	if info.Title == "" {
		info.Title = titleFromPath(path)
	}
	return info, nil
}

func readTaglibInfo(path string) (*Info, error) {
	raw, err := taglib.ReadTags(path)
	if err != nil {
		return nil, err
	}
	t := taglibTags(raw)
	info := &Info{
		Title:  t.first(taglib.Title),
		Artist: t.first(taglib.Artist, taglib.AlbumArtist),
		Album:  t.first(taglib.Album),
	}
	if info.Title == "" {
		info.Title = titleFromPath(path)
	}
	return info, nil
}

func titleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ReadDuration reads the stream duration without decoding audio where
// the container allows it.
func ReadDuration(path string) (time.Duration, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ExtMP3, ExtFLAC, ExtOPUS, ExtOGG, ExtM4A, ExtMP4:
	default:
		return 0, fmt.Errorf("unsupported format: %s", ext)
	}

	if ext == ExtFLAC {
		return readFLACDuration(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	switch ext {
	case ExtMP3:
		return readMP3Duration(f)
	case ExtOPUS, ExtOGG:
		return readOggDuration(f)
	default:
		return readM4ADuration(f)
	}
}

func readMP3Duration(f *os.File) (time.Duration, error) {
	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return 0, err
	}
	sampleRate := decoder.SampleRate()
	if sampleRate == 0 {
		return 0, errors.New("mp3: invalid sample rate")
	}
	samples := max(decoder.SampleCount(), 0)
	return samplesToDuration(int64(samples), sampleRate), nil
}

// readFLACDuration reads the total sample count from the STREAMINFO block.
func readFLACDuration(path string) (time.Duration, error) {
	flacFile, err := goflac.ParseFile(path)
	if err != nil {
		// Files with a prepended ID3v2 tag confuse go-flac
		return readFLACDurationWithBeep(path)
	}

	for _, meta := range flacFile.Meta {
		if meta.Type != goflac.StreamInfo || len(meta.Data) < 18 {
			continue
		}
		return streamInfoDuration(meta.Data)
	}
	return readFLACDurationWithBeep(path)
}

// streamInfoDuration decodes the 20-bit sample rate at byte 10 and the
// 36-bit total sample count ending at byte 17.
func streamInfoDuration(data []byte) (time.Duration, error) {
	if len(data) < 18 {
		return 0, errors.New("flac: short streaminfo")
	}
	sampleRate := int(data[10])<<12 | int(data[11])<<4 | int(data[12])>>4
	total := int64(data[13]&0x0F)<<32 | int64(data[14])<<24 | int64(data[15])<<16 | int64(data[16])<<8 | int64(data[17])
	if sampleRate == 0 {
		return 0, errors.New("flac: invalid sample rate")
	}
	return samplesToDuration(total, sampleRate), nil
}

func readFLACDurationWithBeep(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if err := skipID3v2(f); err != nil {
		return 0, err
	}

	streamer, format, err := flac.Decode(f)
	if err != nil {
		return 0, err
	}
	defer streamer.Close()
	return format.SampleRate.D(streamer.Len()), nil
}

// readOggDuration uses the granule position of the last Ogg page.
func readOggDuration(f *os.File) (time.Duration, error) {
	fi, err := f.Stat()
	if err != nil {
		return 0, err
	}

	searchSize := min(int64(65536), fi.Size())
	if _, err := f.Seek(-searchSize, io.SeekEnd); err != nil {
		return 0, err
	}
	buf := make([]byte, searchSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return 0, err
	}
	return lastGranuleDuration(buf[:n])
}

func lastGranuleDuration(buf []byte) (time.Duration, error) {
	for i := len(buf) - 27; i >= 0; i-- {
		if string(buf[i:i+4]) != "OggS" {
			continue
		}
		var granule int64
		for b := 7; b >= 0; b-- {
			granule = granule<<8 | int64(buf[i+6+b])
		}
		if granule > 0 {
			return samplesToDuration(granule, opusSampleRate), nil
		}
		break
	}
	return 0, errors.New("could not determine ogg duration")
}

func readM4ADuration(f *os.File) (time.Duration, error) {
	container, err := m4a.Open(f)
	if err != nil {
		return 0, err
	}
	return container.Duration(), nil
}

func samplesToDuration(samples int64, sampleRate int) time.Duration {
	return time.Duration(float64(samples) / float64(sampleRate) * float64(time.Second))
}

// skipID3v2 skips an ID3v2 tag if present at the beginning of the file.
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return err
	}
	if n < 10 || string(header[0:3]) != id3Magic {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}

	// Syncsafe size in bytes 6-9
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])
	_, err = r.Seek(10+size, io.SeekStart)
	return err
}
