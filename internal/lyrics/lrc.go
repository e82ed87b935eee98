package lyrics

import (
	"bufio"
	"cmp"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// lastLineMs is the duration given to the final LRC line, which has no
// following timestamp to end it.
const lastLineMs = 5_000

// Regular expressions for parsing LRC format
var (
	// Matches timestamps like [00:12.34] or [00:12:34] or [00:12]
	timestampRe = regexp.MustCompile(`\[(\d+):(\d+)(?:[.:](\d+))?\]`)

	// Matches enhanced LRC word timestamps like <00:12.34>
	wordTimeRe = regexp.MustCompile(`<(\d+):(\d+)(?:[.:](\d+))?>`)

	// Matches metadata tags like [ar:Artist Name]
	metadataRe = regexp.MustCompile(`^\[([a-zA-Z]+):(.*)\]$`)
)

// lrcEntry is one timestamped LRC line before end times are known.
type lrcEntry struct {
	startMs   int64
	text      string
	syllables []Syllable
	// openEnd is set when the last syllable has no closing word timestamp.
	openEnd bool
}

// ParseLRC parses LRC lyrics, including enhanced word timestamps, into a
// normalized timeline. Each line ends where the next distinct timestamp
// starts; an empty timestamped line only terminates the previous one.
func ParseLRC(r io.Reader) (*Lyrics, error) {
	lyrics := &Lyrics{Format: FormatLRC}
	var entries []lrcEntry
	var offsetMs int64

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if meta := metadataRe.FindStringSubmatch(line); meta != nil {
			value := strings.TrimSpace(meta[2])
			switch strings.ToLower(meta[1]) {
			case "ar":
				lyrics.Artist = value
			case "ti":
				lyrics.Title = value
			case "al":
				lyrics.Album = value
			case "offset":
				if n, err := strconv.ParseInt(strings.TrimPrefix(value, "+"), 10, 64); err == nil {
					offsetMs = n
				}
			}
			continue
		}

		// LRC can have multiple timestamps for the same text: [00:12.34][00:45.67]Text
		matches := timestampRe.FindAllStringSubmatchIndex(line, -1)
		if len(matches) == 0 {
			continue
		}
		body := line[matches[len(matches)-1][1]:]

		var first int64 = -1
		for _, match := range matches {
			ts, ok := parseTimestamp(timestampRe, line[match[0]:match[1]])
			if !ok {
				continue
			}
			if first < 0 {
				first = ts
			}
			entries = append(entries, parseLRCBody(body, ts, ts-first))
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	lyrics.Timeline = Normalize(buildLRCLines(entries, offsetMs))
	return lyrics, nil
}

// parseLRCBody splits the text after the line timestamps into syllables
// when it carries word timestamps. shiftMs moves the word timings of a
// line repeated under several timestamps.
func parseLRCBody(body string, startMs, shiftMs int64) lrcEntry {
	entry := lrcEntry{startMs: startMs}
	tags := wordTimeRe.FindAllStringSubmatchIndex(body, -1)
	if len(tags) == 0 {
		entry.text = strings.TrimSpace(body)
		return entry
	}

	if lead := body[:tags[0][0]]; strings.TrimSpace(lead) != "" {
		ts, _ := parseTimestamp(wordTimeRe, body[tags[0][0]:tags[0][1]])
		entry.syllables = append(entry.syllables, Syllable{Content: lead, StartMs: startMs, EndMs: ts + shiftMs})
	}

	for i, tag := range tags {
		ts, _ := parseTimestamp(wordTimeRe, body[tag[0]:tag[1]])
		textEnd := len(body)
		if i+1 < len(tags) {
			textEnd = tags[i+1][0]
		}
		content := body[tag[1]:textEnd]
		if content == "" {
			continue
		}
		s := Syllable{Content: content, StartMs: ts + shiftMs}
		if i+1 < len(tags) {
			next, _ := parseTimestamp(wordTimeRe, body[tags[i+1][0]:tags[i+1][1]])
			s.EndMs = next + shiftMs
		} else {
			entry.openEnd = true
		}
		entry.syllables = append(entry.syllables, s)
	}
	for _, s := range entry.syllables {
		entry.text += s.Content
	}
	entry.text = strings.TrimSpace(entry.text)
	return entry
}

// buildLRCLines sorts entries and assigns end times from the following
// distinct timestamp.
func buildLRCLines(entries []lrcEntry, offsetMs int64) Timeline {
	slices.SortStableFunc(entries, func(a, b lrcEntry) int {
		return cmp.Compare(a.startMs, b.startMs)
	})

	var lines Timeline
	for i, e := range entries {
		if e.text == "" {
			continue
		}
		end := e.startMs + lastLineMs
		for _, next := range entries[i+1:] {
			if next.startMs > e.startMs {
				end = next.startMs
				break
			}
		}

		start := max(e.startMs-offsetMs, 0)
		end = max(end-offsetMs, 0)
		if len(e.syllables) == 0 {
			lines = append(lines, &SyncedLine{Text: e.text, StartMs: start, EndMs: end})
			continue
		}

		syllables := make([]Syllable, len(e.syllables))
		for j, s := range e.syllables {
			if e.openEnd && j == len(e.syllables)-1 {
				s.EndMs = end + offsetMs
			}
			s.StartMs = max(s.StartMs-offsetMs, 0)
			s.EndMs = max(s.EndMs-offsetMs, 0)
			syllables[j] = s
		}
		if last := syllables[len(syllables)-1].EndMs; last > end {
			end = last
		}
		lines = append(lines, &KaraokeLine{Syllables: syllables, StartMs: start, EndMs: end})
	}
	return lines
}

// parseTimestamp parses a bracketed timestamp like [00:12.34] into
// milliseconds using the given pattern.
func parseTimestamp(re *regexp.Regexp, s string) (int64, bool) {
	matches := re.FindStringSubmatch(s)
	if matches == nil {
		return 0, false
	}

	minutes, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil {
		return 0, false
	}
	seconds, err := strconv.ParseInt(matches[2], 10, 64)
	if err != nil {
		return 0, false
	}
	// Handles .x (tenths), .xx (centiseconds) and .xxx (milliseconds)
	millis, err := parseFraction(matches[3])
	if err != nil {
		return 0, false
	}
	return minutes*msPerMinute + seconds*msPerSecond + millis, true
}
