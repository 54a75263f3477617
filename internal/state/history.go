package state

import (
	"context"
	"database/sql"
	"time"

	"github.com/llehouerou/tunecrate/internal/db"
)

// historyLimit caps how many uploads are kept.
const historyLimit = 500

// UploadRecord is one successful upload.
type UploadRecord struct {
	SongID     string
	Title      string
	Artist     string
	FileName   string
	Size       int64
	UploadedAt time.Time
}

// RecordUpload appends r to the history and prunes the oldest entries past
// the limit.
func (m *Manager) RecordUpload(ctx context.Context, r UploadRecord) error {
	if r.UploadedAt.IsZero() {
		r.UploadedAt = time.Now()
	}
	return db.WithTx(ctx, m.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO upload_history (song_id, title, artist, file_name, size, uploaded_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, db.NullIfZero(r.SongID), r.Title, r.Artist, r.FileName,
			sql.NullInt64{Int64: r.Size, Valid: r.Size > 0}, r.UploadedAt.UnixMilli())
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			DELETE FROM upload_history WHERE id NOT IN (
				SELECT id FROM upload_history ORDER BY uploaded_at DESC, id DESC LIMIT ?
			)
		`, historyLimit)
		return err
	})
}

// ListUploads returns up to limit uploads, newest first. limit <= 0 means
// no limit.
func (m *Manager) ListUploads(ctx context.Context, limit int) ([]UploadRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := m.db.QueryContext(ctx, `
		SELECT song_id, title, artist, file_name, size, uploaded_at
		FROM upload_history
		ORDER BY uploaded_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []UploadRecord
	for rows.Next() {
		var (
			songID sql.Null[string]
			size   sql.Null[int64]
			at     int64
			r      UploadRecord
		)
		if err := rows.Scan(&songID, &r.Title, &r.Artist, &r.FileName, &size, &at); err != nil {
			return nil, err
		}
		r.SongID = db.Value(songID)
		r.Size = db.Value(size)
		r.UploadedAt = time.UnixMilli(at)
		records = append(records, r)
	}
	return records, rows.Err()
}
