// Command syncprobe sweeps a lyrics file at a fixed step and logs every
// line and syllable transition the sync engine reports.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/llehouerou/lyricsync/internal/lyrics"
)

// Event is one change of the current line or syllable.
type Event struct {
	AtMs     int64
	Line     int
	Syllable int
	Active   []int
}

func main() {
	step := flag.Duration("step", 10*time.Millisecond, "sweep step")
	offset := flag.Duration("offset", 0, "lyrics offset")
	verbose := flag.Bool("v", false, "log syllable transitions too")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: syncprobe [flags] <lyrics file>")
		os.Exit(2)
	}
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to read lyrics: %v", err)
	}
	text := string(data)
	l := lyrics.Decode(lyrics.DetectFormat(text), text)
	log.WithFields(log.Fields{
		"format": l.Format,
		"lines":  len(l.Timeline),
	}).Info("decoded")

	for _, ev := range Probe(l, *step, *offset) {
		entry := log.WithFields(log.Fields{
			"at":     ev.AtMs,
			"line":   ev.Line,
			"active": ev.Active,
		})
		if ev.Syllable >= 0 {
			entry.WithField("syllable", ev.Syllable).Debug("syllable")
			continue
		}
		entry.Info("line")
	}
}

// Probe samples the sync state from zero to just past the last line end
// and returns the positions where the current line or syllable changes.
// Line changes are reported with Syllable set to -1.
func Probe(l *lyrics.Lyrics, step, offset time.Duration) []Event {
	if step <= 0 || len(l.Timeline) == 0 {
		return nil
	}
	var endMs int64
	for _, line := range l.Timeline {
		_, e := line.Span()
		endMs = max(endMs, e)
	}
	endMs -= offset.Milliseconds()

	var events []Event
	prevLine, prevSyl := -1, -1
	for pos := time.Duration(0); pos.Milliseconds() <= endMs+step.Milliseconds(); pos += step {
		st := l.SyncAt(pos, offset)
		at := pos.Milliseconds()
		if st.CurrentLine != prevLine {
			events = append(events, Event{AtMs: at, Line: st.CurrentLine, Syllable: -1, Active: st.ActiveLines})
			prevLine, prevSyl = st.CurrentLine, -1
		}
		if st.CurrentSyllable >= 0 && st.CurrentSyllable != prevSyl {
			events = append(events, Event{AtMs: at, Line: st.CurrentLine, Syllable: st.CurrentSyllable, Active: st.ActiveLines})
		}
		prevSyl = st.CurrentSyllable
	}
	return events
}
