package tags

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
	"github.com/go-flac/flacvorbis"
	goflac "github.com/go-flac/go-flac"
	"go.senan.xyz/taglib"
)

// ErrNoLyrics is returned when a file carries no lyrics tag.
var ErrNoLyrics = errors.New("no embedded lyrics")

// ReadLyrics returns the lyrics text embedded in a music file.
// dhowden/tag is tried first; format-specific readers cover the frames and
// comments it does not expose.
func ReadLyrics(path string) (string, error) {
	generic, err := readGenericLyrics(path)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	var specific []string
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtMP3:
		specific = readMP3Lyrics(path)
	case ExtFLAC:
		specific = readFLACLyrics(path)
	case ExtOPUS, ExtOGG, ExtM4A, ExtMP4:
		specific = readTaglibLyrics(path)
	}

	text := pickLyrics(append(specific, generic)...)
	if text == "" {
		return "", ErrNoLyrics
	}
	return text, nil
}

func readGenericLyrics(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return "", err
	}
	return m.Lyrics(), nil
}

// readMP3Lyrics reads USLT frames from an ID3v2 tag.
func readMP3Lyrics(path string) []string {
	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil
	}
	defer id3tag.Close()

	var out []string
	for _, frame := range id3tag.GetFrames(id3tag.CommonID("Unsynchronised lyrics/text transcription")) {
		if uslt, ok := frame.(id3v2.UnsynchronisedLyricsFrame); ok {
			out = append(out, uslt.Lyrics)
		}
	}
	return out
}

// readFLACLyrics reads lyrics Vorbis comments from a FLAC file.
func readFLACLyrics(path string) []string {
	f, err := goflac.ParseFile(path)
	if err != nil {
		return nil
	}

	for _, meta := range f.Meta {
		if meta.Type != goflac.VorbisComment {
			continue
		}
		cmt, err := flacvorbis.ParseFromMetaDataBlock(*meta)
		if err != nil {
			return nil
		}
		var out []string
		for _, key := range lyricsKeys {
			if values, err := cmt.Get(key); err == nil {
				out = append(out, values...)
			}
		}
		return out
	}
	return nil
}

// readTaglibLyrics reads lyrics properties through TagLib.
func readTaglibLyrics(path string) []string {
	rawTags, err := taglib.ReadTags(path)
	if err != nil {
		return nil
	}
	return taglibTags(rawTags).all(lyricsKeys...)
}
