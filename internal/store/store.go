// Package store caches fetched lyrics documents in SQLite.
package store

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName    = "lyricsync"
	dbFileName = "lyrics.db"
)

// ErrMiss is returned when a track has no cached lyrics.
var ErrMiss = errors.New("cache miss")

// Store is a lyrics document cache keyed by artist and title.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens the cache at path, or at the XDG cache location when path
// is empty.
func Open(path string) (*Store, error) {
	if path == "" {
		var err error
		path, err = xdg.CacheFile(filepath.Join(appName, dbFileName))
		if err != nil {
			return nil, err
		}
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return newStore(db)
}

func newStore(db *sql.DB) (*Store, error) {
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the cached document for a track, or ErrMiss.
func (s *Store) Load(artist, title string) (format, content string, err error) {
	err = s.db.QueryRow(`
		SELECT format, content FROM lyrics_cache
		WHERE artist_key = ? AND title_key = ?
	`, cacheKey(artist), cacheKey(title)).Scan(&format, &content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrMiss
	}
	if err != nil {
		return "", "", err
	}
	return format, content, nil
}

// Save stores or replaces the document for a track.
func (s *Store) Save(artist, title, format, content string) error {
	return withTx(s.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO lyrics_cache (artist_key, title_key, format, content, fetched_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(artist_key, title_key) DO UPDATE SET
				format = excluded.format,
				content = excluded.content,
				fetched_at = excluded.fetched_at
		`, cacheKey(artist), cacheKey(title), format, content, s.now().Unix())
		return err
	})
}

// Purge removes entries fetched before the cutoff and returns how many
// were removed.
func (s *Store) Purge(olderThan time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM lyrics_cache WHERE fetched_at < ?`, olderThan.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// cacheKey folds case and surrounding whitespace so lookups survive minor
// tag differences.
func cacheKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// withTx executes fn within a transaction.
// It handles Begin, Rollback on error, and Commit on success.
func withTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // rollback on error is intentional

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
