package lyrics

import (
	"strings"

	log "github.com/sirupsen/logrus"
)

// DetectFormat guesses the format of a lyrics asset from its content.
func DetectFormat(text string) Format {
	trimmed := strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(trimmed, "<") && strings.Contains(trimmed, "<tt"):
		return FormatTTML
	case timestampRe.MatchString(trimmed):
		return FormatLRC
	}
	return FormatPlain
}

// Decode parses text in the given format into normalized lyrics. An empty
// format is detected from the content. Decoding never fails; unusable
// content yields an empty timeline.
func Decode(format Format, text string) *Lyrics {
	if format == "" {
		format = DetectFormat(text)
	}

	var lyrics *Lyrics
	switch format {
	case FormatTTML:
		lyrics = &Lyrics{Format: FormatTTML, Timeline: Normalize(ParseTTML(text))}
	case FormatLRC:
		parsed, err := ParseLRC(strings.NewReader(text))
		if err != nil {
			log.WithError(err).Debug("lrc: parse failed")
			parsed = &Lyrics{Format: FormatLRC}
		}
		lyrics = parsed
	default:
		lyrics = ParsePlain(text)
	}

	log.WithFields(log.Fields{
		"format": lyrics.Format,
		"lines":  len(lyrics.Timeline),
	}).Debug("lyrics decoded")
	return lyrics
}

// ParsePlain wraps untimed text as synced lines without timing. Such
// lines are displayed but never become active.
func ParsePlain(text string) *Lyrics {
	lyrics := &Lyrics{Format: FormatPlain}
	for line := range strings.SplitSeq(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lyrics.Timeline = append(lyrics.Timeline, &SyncedLine{Text: line})
		}
	}
	return lyrics
}
