package lyrics

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/llehouerou/lyricsync/internal/errmsg"
	"github.com/llehouerou/lyricsync/internal/lrclib"
	"github.com/llehouerou/lyricsync/internal/tags"
)

// Cache stores raw lyrics documents by artist and title.
type Cache interface {
	Load(artist, title string) (format, content string, err error)
	Save(artist, title, format, content string) error
}

// Source provides lyrics from sidecar files, embedded tags, a cache, or
// the lrclib API.
type Source struct {
	client *lrclib.Client
	cache  Cache

	readEmbedded func(path string) (string, error)
}

// NewSource creates a lyrics source. A nil client disables remote lookups
// and a nil cache disables caching.
func NewSource(client *lrclib.Client, cache Cache) *Source {
	return &Source{
		client:       client,
		cache:        cache,
		readEmbedded: tags.ReadLyrics,
	}
}

// TrackInfo contains the information needed to fetch lyrics.
type TrackInfo struct {
	FilePath string // Path to audio or lyrics file
	Artist   string
	Title    string
	Album    string
	Duration time.Duration
}

// FetchResult contains the result of a lyrics fetch.
type FetchResult struct {
	Lyrics *Lyrics
	Source string // "file", "embedded", "cache", "api", or "not_found"
	Err    error
}

// sidecarFormats lists lyrics file extensions, most detailed first.
var sidecarFormats = []struct {
	ext    string
	format Format
}{
	{".ttml", FormatTTML},
	{".lrc", FormatLRC},
	{".txt", FormatPlain},
}

// Fetch retrieves lyrics for a track using the priority order:
// 1. The file itself when it is a lyrics file, else sidecar .ttml/.lrc/.txt files
// 2. Lyrics embedded in the audio file tags
// 3. Cached documents
// 4. lrclib API (and cache the result)
func (s *Source) Fetch(ctx context.Context, track TrackInfo) FetchResult {
	logger := log.WithFields(log.Fields{"path": track.FilePath, "artist": track.Artist, "title": track.Title})

	if track.FilePath != "" {
		if lyrics := s.loadLocal(track.FilePath); lyrics != nil {
			logger.WithField("source", "file").Debug("lyrics found")
			return FetchResult{Lyrics: withMetadata(lyrics, track), Source: "file"}
		}
		text, err := s.readEmbedded(track.FilePath)
		if err != nil {
			logger.Debug(errmsg.Format(errmsg.OpEmbeddedRead, err))
		} else if lyrics := Decode("", text); len(lyrics.Timeline) > 0 {
			logger.WithField("source", "embedded").Debug("lyrics found")
			return FetchResult{Lyrics: withMetadata(lyrics, track), Source: "embedded"}
		}
	}

	// Need artist and title for cache/API lookup
	if track.Artist == "" || track.Title == "" {
		return FetchResult{Source: "not_found"}
	}

	if s.cache != nil {
		if format, content, err := s.cache.Load(track.Artist, track.Title); err == nil {
			if lyrics := Decode(Format(format), content); len(lyrics.Timeline) > 0 {
				logger.WithField("source", "cache").Debug("lyrics found")
				return FetchResult{Lyrics: withMetadata(lyrics, track), Source: "cache"}
			}
		}
	}

	if s.client == nil {
		return FetchResult{Source: "not_found"}
	}
	return s.fetchFromAPI(ctx, track)
}

// loadLocal loads path itself when it is a lyrics file, otherwise the
// first sidecar next to it.
func (s *Source) loadLocal(path string) *Lyrics {
	ext := strings.ToLower(filepath.Ext(path))
	base := path[:len(path)-len(ext)]
	for _, sc := range sidecarFormats {
		if ext == sc.ext {
			return loadFile(path, sc.format)
		}
	}
	for _, sc := range sidecarFormats {
		if lyrics := loadFile(base+sc.ext, sc.format); lyrics != nil {
			return lyrics
		}
	}
	return nil
}

// loadFile decodes a lyrics file, returning nil when it is missing or empty.
func loadFile(path string, format Format) *Lyrics {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn(errmsg.FormatWith(errmsg.OpLyricsRead, path, err))
		}
		return nil
	}
	lyrics := Decode(format, string(data))
	if len(lyrics.Timeline) == 0 {
		return nil
	}
	return lyrics
}

// fetchFromAPI fetches lyrics from the lrclib API, falling back to a
// search when the exact lookup misses.
func (s *Source) fetchFromAPI(ctx context.Context, track TrackInfo) FetchResult {
	result, err := s.client.Get(ctx, lrclib.Query{
		Artist:   track.Artist,
		Title:    track.Title,
		Album:    track.Album,
		Duration: track.Duration,
	})
	if errors.Is(err, lrclib.ErrNotFound) {
		result, err = s.client.FirstSynced(ctx, track.Artist+" "+track.Title)
	}
	if err != nil {
		// ErrNotFound is not a real error, just means no lyrics available
		if errors.Is(err, lrclib.ErrNotFound) {
			return FetchResult{Source: "not_found"}
		}
		return FetchResult{Source: "not_found", Err: err}
	}

	format, content := FormatLRC, result.SyncedLyrics
	if !result.HasSyncedLyrics() {
		format, content = FormatPlain, result.PlainLyrics
	}
	lyrics := Decode(format, content)
	if len(lyrics.Timeline) == 0 {
		return FetchResult{Source: "not_found"}
	}
	if lyrics.Artist == "" {
		lyrics.Artist = result.ArtistName
	}
	if lyrics.Title == "" {
		lyrics.Title = result.TrackName
	}
	if lyrics.Album == "" {
		lyrics.Album = result.AlbumName
	}

	if s.cache != nil && format == FormatLRC {
		if err := s.cache.Save(track.Artist, track.Title, string(format), content); err != nil {
			log.Warn(errmsg.Format(errmsg.OpCacheSave, err))
		}
	}
	return FetchResult{Lyrics: lyrics, Source: "api"}
}

// withMetadata fills missing metadata from the track.
func withMetadata(l *Lyrics, track TrackInfo) *Lyrics {
	if l.Artist == "" {
		l.Artist = track.Artist
	}
	if l.Title == "" {
		l.Title = track.Title
	}
	if l.Album == "" {
		l.Album = track.Album
	}
	return l
}
