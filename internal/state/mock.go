package state

import (
	"context"
	"database/sql"
	"slices"
	"sync"
)

// Mock is a test double for Manager.
type Mock struct {
	mu        sync.Mutex
	selection string
	volume    VolumeState
	uploads   []UploadRecord
	recordErr error
	closed    bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{volume: VolumeState{Volume: 1}}
}

func (m *Mock) DB() *sql.DB { return nil }

func (m *Mock) SaveSelection(songID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selection = songID
}

func (m *Mock) GetSelection() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selection, nil
}

func (m *Mock) GetVolume() (*VolumeState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.volume
	return &v, nil
}

func (m *Mock) SaveVolume(volume float64, muted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = VolumeState{Volume: volume, Muted: muted, Saved: true}
	return nil
}

func (m *Mock) RecordUpload(_ context.Context, r UploadRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recordErr != nil {
		return m.recordErr
	}
	m.uploads = append(m.uploads, r)
	return nil
}

func (m *Mock) ListUploads(_ context.Context, limit int) ([]UploadRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := slices.Clone(m.uploads)
	slices.Reverse(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) SetRecordError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordErr = err
}

func (m *Mock) Uploads() []UploadRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.uploads)
}

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
