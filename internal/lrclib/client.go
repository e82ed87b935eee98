// Package lrclib provides a client for the lrclib.net lyrics API.
package lrclib

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrNotFound is returned when no lyrics are found.
var ErrNotFound = errors.New("lyrics not found")

const (
	defaultBaseURL = "https://lrclib.net/api"
	userAgent      = "lyricsync/1.0 (https://github.com/llehouerou/lyricsync)"
)

// Client is an lrclib.net API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// New creates a new lrclib client.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result represents a lyrics record from the lrclib API.
type Result struct {
	ID           int     `json:"id"`
	TrackName    string  `json:"trackName"`
	ArtistName   string  `json:"artistName"`
	AlbumName    string  `json:"albumName"`
	Duration     float64 `json:"duration"`
	Instrumental bool    `json:"instrumental"`
	PlainLyrics  string  `json:"plainLyrics"`
	SyncedLyrics string  `json:"syncedLyrics"`
}

// Query identifies a track.
type Query struct {
	Artist   string
	Title    string
	Album    string
	Duration time.Duration
}

// Get fetches the record matching a track exactly.
func (c *Client) Get(ctx context.Context, q Query) (*Result, error) {
	params := url.Values{}
	params.Set("artist_name", q.Artist)
	params.Set("track_name", q.Title)
	if q.Album != "" {
		params.Set("album_name", q.Album)
	}
	if q.Duration > 0 {
		params.Set("duration", strconv.FormatInt(int64(q.Duration.Round(time.Second).Seconds()), 10))
	}

	var result Result
	if err := c.getJSON(ctx, "/get", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Search returns records matching a free-text query, best match first.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	params := url.Values{}
	params.Set("q", query)

	var results []Result
	if err := c.getJSON(ctx, "/search", params, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// FirstSynced returns the first search result carrying synced lyrics.
func (c *Client) FirstSynced(ctx context.Context, query string) (*Result, error) {
	results, err := c.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	for i := range results {
		if results[i].HasSyncedLyrics() {
			return &results[i], nil
		}
	}
	return nil, ErrNotFound
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// HasSyncedLyrics returns true if the result contains synced (LRC) lyrics.
func (r *Result) HasSyncedLyrics() bool {
	return r.SyncedLyrics != ""
}

// HasPlainLyrics returns true if the result contains plain text lyrics.
func (r *Result) HasPlainLyrics() bool {
	return r.PlainLyrics != ""
}
