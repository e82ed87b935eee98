package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"

	"github.com/llehouerou/lyricsync/internal/app"
	"github.com/llehouerou/lyricsync/internal/config"
	"github.com/llehouerou/lyricsync/internal/errmsg"
	"github.com/llehouerou/lyricsync/internal/layout"
	"github.com/llehouerou/lyricsync/internal/lrclib"
	"github.com/llehouerou/lyricsync/internal/lyrics"
	"github.com/llehouerou/lyricsync/internal/store"
	"github.com/llehouerou/lyricsync/internal/tags"
	uilyrics "github.com/llehouerou/lyricsync/internal/ui/lyrics"
)

const fetchTimeout = 30 * time.Second

type options struct {
	atMs       int64
	offsetMs   int64
	offsetSet  bool
	width      int
	play       bool
	configPath string
	strict     bool
	purge      time.Duration
	path       string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("lyricsync", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: lyricsync [flags] <audio or lyrics file>")
		fs.PrintDefaults()
	}

	opts := &options{}
	fs.Int64Var(&opts.atMs, "at", -1, "print the sync state at this position (ms)")
	fs.Int64Var(&opts.offsetMs, "offset", 0, "lyrics offset in ms (positive shows lyrics earlier)")
	fs.IntVar(&opts.width, "width", 0, "layout width in cells (0 uses config or 80)")
	fs.BoolVar(&opts.play, "play", false, "open the karaoke preview")
	fs.StringVar(&opts.configPath, "config", "", "config file to load after the default locations")
	fs.BoolVar(&opts.strict, "strict", false, "reject malformed TTML instead of skipping bad lines")
	fs.DurationVar(&opts.purge, "purge", 0, "remove cached lyrics older than this and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "offset" {
			opts.offsetSet = true
		}
	})

	switch {
	case fs.NArg() == 1:
		opts.path = fs.Arg(0)
	case fs.NArg() == 0 && opts.purge > 0:
	default:
		fs.Usage()
		return nil, errors.New("expected exactly one file")
	}
	return opts, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintln(stderr, errmsg.Format(errmsg.OpConfigLoad, err))
		return 1
	}
	log.SetOutput(stderr)
	log.SetLevel(cfg.Level())

	var cache lyrics.Cache
	if cfg.CacheEnabled() {
		st, err := store.Open(cfg.Cache.Path)
		if err != nil {
			log.Warn(errmsg.Format(errmsg.OpCacheOpen, err))
		} else {
			defer st.Close()
			cache = st
			if opts.purge > 0 {
				return purge(st, opts.purge, stdout, stderr)
			}
		}
	}
	if opts.purge > 0 {
		fmt.Fprintln(stderr, errmsg.Format(errmsg.OpCachePurge, errors.New("cache is disabled")))
		return 1
	}

	if opts.strict {
		if err := validateStrict(opts.path); err != nil {
			fmt.Fprintln(stderr, errmsg.FormatWith(errmsg.OpLyricsParse, opts.path, err))
			return 1
		}
	}

	var client *lrclib.Client
	if cfg.LrclibEnabled() {
		client = lrclib.New(lrclib.WithTimeout(cfg.LrclibTimeout()))
	}
	source := lyrics.NewSource(client, cache)
	track := trackInfo(opts.path)

	offset := cfg.Offset()
	if opts.offsetSet {
		offset = time.Duration(opts.offsetMs) * time.Millisecond
	}
	lc := cfg.GetLayoutConfig()
	width := lc.Width
	if opts.width > 0 {
		width = opts.width
	}
	settings := uilyrics.Settings{
		Offset:     offset,
		Animations: cfg.AnimationsEnabled(),
		Alignment:  layout.ParseAlignment(lc.Align),
		RTL:        lc.RTL,
		Width:      width,
	}

	if opts.play {
		start := time.Duration(max(opts.atMs, 0)) * time.Millisecond
		return preview(source, track, start, settings, stderr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()
	res := source.Fetch(ctx, track)
	if res.Lyrics == nil {
		if res.Err != nil {
			fmt.Fprintln(stderr, errmsg.FormatWith(errmsg.OpLyricsFetch, opts.path, res.Err))
		} else {
			fmt.Fprintf(stderr, "No lyrics found for %s\n", describeTrack(track))
		}
		return 1
	}

	if opts.atMs >= 0 {
		if width <= 0 {
			width = 80
		}
		settings.Width = width
		printSync(stdout, res.Lyrics, time.Duration(opts.atMs)*time.Millisecond, settings)
		return 0
	}
	printTimeline(stdout, res.Lyrics, res.Source)
	return 0
}

// trackInfo fills track metadata from tags, falling back to the file name.
func trackInfo(path string) lyrics.TrackInfo {
	track := lyrics.TrackInfo{FilePath: path}
	info, err := tags.ReadInfo(path)
	if err != nil {
		log.WithError(err).WithField("path", path).Debug("no track metadata")
		base := filepath.Base(path)
		track.Title = strings.TrimSuffix(base, filepath.Ext(base))
		return track
	}
	track.Artist = info.Artist
	track.Title = info.Title
	track.Album = info.Album
	track.Duration = info.Duration
	return track
}

func describeTrack(track lyrics.TrackInfo) string {
	if track.Artist == "" {
		return track.Title
	}
	return track.Artist + " - " + track.Title
}

// validateStrict rejects TTML files the lenient parser would only
// partially read.
func validateStrict(path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".ttml") {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = lyrics.ParseTTMLStrict(string(data))
	return err
}

func purge(st *store.Store, age time.Duration, stdout, stderr io.Writer) int {
	cutoff := time.Now().Add(-age)
	n, err := st.Purge(cutoff)
	if err != nil {
		fmt.Fprintln(stderr, errmsg.Format(errmsg.OpCachePurge, err))
		return 1
	}
	fmt.Fprintf(stdout, "Removed %s cached documents fetched before %s\n", humanize.Comma(n), humanize.Time(cutoff))
	return 0
}

func preview(source *lyrics.Source, track lyrics.TrackInfo, start time.Duration, settings uilyrics.Settings, stderr io.Writer) int {
	m := app.New(app.Options{
		Source:   source,
		Track:    track,
		Start:    start,
		Autoplay: true,
		Settings: settings,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(stderr, errmsg.Format(errmsg.OpPreviewStart, err))
		return 1
	}
	return 0
}
