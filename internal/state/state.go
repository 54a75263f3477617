// Package state persists local preferences and the upload history in
// sqlite.
package state

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/llehouerou/tunecrate/internal/logger"
)

const (
	appName      = "tunecrate"
	dbFileName   = "tunecrate.db"
	saveDebounce = 500 * time.Millisecond
)

type Manager struct {
	db        *sql.DB
	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   *string
}

// Open opens the database under the XDG data directory.
func Open() (*Manager, error) {
	dbPath, err := xdg.DataFile(filepath.Join(appName, dbFileName))
	if err != nil {
		return nil, err
	}
	return OpenPath(dbPath)
}

// OpenPath opens or creates the database at path. ":memory:" is accepted.
func OpenPath(path string) (*Manager, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// one connection keeps ":memory:" a single database
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Manager{db: db}, nil
}

func (m *Manager) Close() error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	pending := m.pending
	m.pending = nil
	m.saveMu.Unlock()

	if pending != nil {
		m.flushSelection(*pending)
	}

	return m.db.Close()
}

func (m *Manager) DB() *sql.DB {
	return m.db
}

// SaveSelection records the selected song id. Writes are debounced so
// cursor movement does not hit the disk on every key.
func (m *Manager) SaveSelection(songID string) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pending = &songID

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}

	m.saveTimer = time.AfterFunc(saveDebounce, func() {
		m.saveMu.Lock()
		pending := m.pending
		m.pending = nil
		m.saveMu.Unlock()

		if pending != nil {
			m.flushSelection(*pending)
		}
	})
}

func (m *Manager) flushSelection(songID string) {
	if err := saveSelection(m.db, songID); err != nil {
		logger.L().Warn("save selection", zap.Error(err))
	}
}

// GetSelection returns the saved song id, or "" if none.
func (m *Manager) GetSelection() (string, error) {
	return getSelection(m.db)
}
