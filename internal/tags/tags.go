// Package tags reads lyrics and track metadata from music files.
package tags

import (
	"regexp"
	"strings"
)

// File extensions with format-specific lyrics readers.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtOPUS = ".opus"
	ExtOGG  = ".ogg"
	ExtM4A  = ".m4a"
	ExtMP4  = ".mp4"
)

// Vorbis comment / TagLib property names that carry lyrics.
var lyricsKeys = []string{"LYRICS", "UNSYNCEDLYRICS", "SYNCEDLYRICS"}

// timedRe detects LRC-style timestamps.
var timedRe = regexp.MustCompile(`\[\d+:\d+`)

// pickLyrics returns the first candidate with timestamps, falling back to
// the first non-empty one.
func pickLyrics(candidates ...string) string {
	first := ""
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if timedRe.MatchString(c) {
			return c
		}
		if first == "" {
			first = c
		}
	}
	return first
}

// taglibTags wraps TagLib's property map.
type taglibTags map[string][]string

// first returns the first non-empty value stored under the given keys.
func (t taglibTags) first(keys ...string) string {
	for _, v := range t.all(keys...) {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// all returns every value stored under the given keys, in key order.
func (t taglibTags) all(keys ...string) []string {
	var out []string
	for _, key := range keys {
		out = append(out, t[key]...)
	}
	return out
}
