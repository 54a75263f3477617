package state

import (
	"database/sql"
)

const currentSchemaVersion = 2

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS preferences (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			volume REAL NOT NULL DEFAULT 1.0,
			muted INTEGER NOT NULL DEFAULT 0,
			volume_saved INTEGER NOT NULL DEFAULT 0,
			selected_song_id TEXT
		);

		CREATE TABLE IF NOT EXISTS upload_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			song_id TEXT,
			title TEXT NOT NULL,
			artist TEXT NOT NULL,
			file_name TEXT NOT NULL,
			size INTEGER,
			uploaded_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_upload_history_uploaded_at ON upload_history(uploaded_at DESC);
	`)
	if err != nil {
		return err
	}

	var version sql.Null[int]
	if err := db.QueryRow(`SELECT MAX(version) FROM schema_version`).Scan(&version); err != nil {
		return err
	}
	if version.Valid && version.V < 2 {
		if err := migrateVolumeSaved(db); err != nil {
			return err
		}
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO schema_version (version) VALUES (?)`, currentSchemaVersion)
	return err
}

// migrateVolumeSaved adds the flag telling a saved volume apart from the
// column default. Rows from version 1 count as saved only when they differ
// from that default.
func migrateVolumeSaved(db *sql.DB) error {
	_, err := db.Exec(`
		ALTER TABLE preferences ADD COLUMN volume_saved INTEGER NOT NULL DEFAULT 0;
		UPDATE preferences SET volume_saved = 1 WHERE volume <> 1.0 OR muted <> 0;
	`)
	return err
}
