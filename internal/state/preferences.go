package state

import (
	"database/sql"
	"errors"

	"github.com/llehouerou/tunecrate/internal/db"
)

// VolumeState represents the saved volume state.
type VolumeState struct {
	Volume float64
	Muted  bool
	Saved  bool // false when nothing was ever saved
}

// GetVolume returns the saved volume state, full and unmuted if none.
func (m *Manager) GetVolume() (*VolumeState, error) {
	var v VolumeState
	row := m.db.QueryRow(`SELECT volume, muted, volume_saved FROM preferences WHERE id = 1`)
	err := row.Scan(&v.Volume, &v.Muted, &v.Saved)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !v.Saved) {
		// the row may exist for the selection alone
		return &VolumeState{Volume: 1.0}, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// SaveVolume persists the volume level.
func (m *Manager) SaveVolume(volume float64, muted bool) error {
	_, err := m.db.Exec(`
		INSERT INTO preferences (id, volume, muted, volume_saved)
		VALUES (1, ?, ?, 1)
		ON CONFLICT(id) DO UPDATE SET
			volume = excluded.volume,
			muted = excluded.muted,
			volume_saved = 1
	`, volume, muted)
	return err
}

func saveSelection(conn *sql.DB, songID string) error {
	_, err := conn.Exec(`
		INSERT INTO preferences (id, selected_song_id)
		VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET selected_song_id = excluded.selected_song_id
	`, db.NullIfZero(songID))
	return err
}

func getSelection(conn *sql.DB) (string, error) {
	var id sql.Null[string]
	err := conn.QueryRow(`SELECT selected_song_id FROM preferences WHERE id = 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return db.Value(id), nil
}
