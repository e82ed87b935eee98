package store

import (
	"database/sql"
)

const currentSchemaVersion = 1

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS lyrics_cache (
			artist_key TEXT NOT NULL,
			title_key TEXT NOT NULL,
			format TEXT NOT NULL,
			content TEXT NOT NULL,
			fetched_at INTEGER NOT NULL,
			PRIMARY KEY (artist_key, title_key)
		);

		CREATE INDEX IF NOT EXISTS idx_lyrics_cache_fetched_at ON lyrics_cache(fetched_at);
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	return err
}
