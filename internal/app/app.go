package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/llehouerou/tunecrate/internal/app/popupctl"
	"github.com/llehouerou/tunecrate/internal/catalog"
	"github.com/llehouerou/tunecrate/internal/keymap"
	"github.com/llehouerou/tunecrate/internal/logger"
	"github.com/llehouerou/tunecrate/internal/notify"
	"github.com/llehouerou/tunecrate/internal/playback"
	"github.com/llehouerou/tunecrate/internal/state"
	"github.com/llehouerou/tunecrate/internal/ui/songlist"
)

// StatusDuration is how long a status message stays visible.
const StatusDuration = 4 * time.Second

// volumeStep is the change per volume key press.
const volumeStep = 0.05

// Deps are the collaborators of the TUI.
type Deps struct {
	Catalog  CatalogClient
	Playback Playback
	State    state.Interface
	Notifier notify.Notifier // nil disables notifications
}

// Model is the root application model containing all state.
type Model struct {
	catalog  CatalogClient
	songs    *catalog.Catalog
	playback Playback
	sub      *playback.Subscription
	state    state.Interface
	notifier notify.Notifier

	SongList songlist.Model
	Popups   *popupctl.Manager
	keys     *keymap.Resolver

	Status    Status
	statusSeq int64

	restoreID   string // song to put the cursor on after the first load
	notifiedURL string // last song announced as now playing
	ticking     bool

	Width  int
	Height int
}

// New creates the application model. It subscribes to d.Playback right away
// so no event is missed before the program starts.
func New(d Deps) Model {
	m := Model{
		catalog:  d.Catalog,
		songs:    catalog.NewCatalog(),
		playback: d.Playback,
		state:    d.State,
		notifier: d.Notifier,
		SongList: songlist.New(),
		Popups:   popupctl.New(),
		keys:     keymap.ForContexts("global", "playback"),
	}
	m.SongList.SetLoading(true)
	if d.Playback != nil {
		m.sub = d.Playback.Subscribe()
	}
	if d.State != nil {
		id, err := d.State.GetSelection()
		if err != nil {
			logger.L().Warn("read saved selection", zap.Error(err))
		}
		m.restoreID = id
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadSongsCmd(m.songs.Begin()), m.WatchPlayback())
}
