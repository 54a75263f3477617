package state

import (
	"context"
	"database/sql"
)

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	DB() *sql.DB
	SaveSelection(songID string)
	GetSelection() (string, error)
	GetVolume() (*VolumeState, error)
	SaveVolume(volume float64, muted bool) error
	RecordUpload(ctx context.Context, r UploadRecord) error
	ListUploads(ctx context.Context, limit int) ([]UploadRecord, error)
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
