package app

import (
	"context"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tunecrate/internal/catalog"
	"github.com/llehouerou/tunecrate/internal/playback"
	"github.com/llehouerou/tunecrate/internal/state"
	"github.com/llehouerou/tunecrate/internal/ui/testutil"
	"github.com/llehouerou/tunecrate/internal/upload"
)

// fakeCatalog is an in-memory song API.
type fakeCatalog struct {
	mu        sync.Mutex
	songs     []catalog.Song
	listErr   error
	uploadErr error
	deleteErr error
	uploaded  []*upload.Pending
	deleted   []string
	nextID    int
}

func (f *fakeCatalog) List(context.Context) ([]catalog.Song, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return slices.Clone(f.songs), nil
}

func (f *fakeCatalog) Upload(_ context.Context, p *upload.Pending) (catalog.Song, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded = append(f.uploaded, p)
	if f.uploadErr != nil {
		return catalog.Song{}, f.uploadErr
	}
	f.nextID++
	song := catalog.Song{
		ID:     "new-" + strconv.Itoa(f.nextID),
		Title:  p.Title,
		Artist: p.Artist,
		Album:  p.Album,
		URL:    "/media/new.mp3",
	}
	f.songs = append(f.songs, song)
	return song, nil
}

func (f *fakeCatalog) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.songs = slices.DeleteFunc(f.songs, func(s catalog.Song) bool { return s.ID == id })
	return nil
}

func (f *fakeCatalog) Limits() upload.Limits { return upload.DefaultLimits() }

// fakePlayback records calls and lets tests push events.
type fakePlayback struct {
	mu       sync.Mutex
	sel      playback.Selection
	state    playback.State
	volume   float64
	muted    bool
	selected []string
	toggles  int
	stops    int

	now  chan playback.NowPlaying
	errs chan playback.ErrorEvent
	done chan struct{}
}

func newFakePlayback() *fakePlayback {
	return &fakePlayback{
		volume: 1,
		now:    make(chan playback.NowPlaying, 8),
		errs:   make(chan playback.ErrorEvent, 8),
		done:   make(chan struct{}),
	}
}

func (f *fakePlayback) Select(_ context.Context, song catalog.Song) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selected = append(f.selected, song.ID)
	f.sel = playback.Selection{Song: &song, Playing: true}
	f.state = playback.StatePlaying
	return nil
}

func (f *fakePlayback) Toggle(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toggles++
	if f.sel.Song == nil {
		return playback.ErrNoSong
	}
	return nil
}

func (f *fakePlayback) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	f.sel = playback.Selection{}
	f.state = playback.StateStopped
}

func (f *fakePlayback) Selection() playback.Selection {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sel
}

func (f *fakePlayback) State() playback.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakePlayback) Position() time.Duration { return 0 }
func (f *fakePlayback) Duration() time.Duration { return 0 }

func (f *fakePlayback) SetVolume(level float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.volume = level
}

func (f *fakePlayback) Volume() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.volume
}

func (f *fakePlayback) SetMuted(muted bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.muted = muted
}

func (f *fakePlayback) Muted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.muted
}

func (f *fakePlayback) Subscribe() *playback.Subscription {
	return &playback.Subscription{NowPlaying: f.now, Error: f.errs, Done: f.done}
}

func (f *fakePlayback) setCurrent(song *catalog.Song, st playback.State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sel = playback.Selection{Song: song, Playing: st == playback.StatePlaying}
	f.state = st
}

var (
	songA = catalog.Song{ID: "1", Title: "So What", Artist: "Miles Davis", Album: "Kind of Blue", Year: "1959", Duration: "9:22", Genre: "Jazz", URL: "/media/1.mp3"}
	songB = catalog.Song{ID: "2", Title: "Naima", Artist: "John Coltrane", Album: "Giant Steps", Year: "1960", Duration: "4:21", Genre: "Jazz", URL: "/media/2.mp3"}
	songC = catalog.Song{ID: "3", Title: "Peace Piece", Artist: "Bill Evans", Album: "Everybody Digs", Year: "1958", Duration: "6:42", Genre: "Jazz", URL: "/media/3.mp3"}
)

type testEnv struct {
	catalog  *fakeCatalog
	playback *fakePlayback
	state    *state.Mock
}

func newTestModel(t *testing.T, songs ...catalog.Song) (Model, *testEnv) {
	t.Helper()
	env := &testEnv{
		catalog:  &fakeCatalog{songs: songs},
		playback: newFakePlayback(),
		state:    state.NewMock(),
	}
	m := New(Deps{Catalog: env.catalog, Playback: env.playback, State: env.state})
	m, _ = updateModel(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	return m, env
}

// loadedModel returns a model with songs fetched and applied.
func loadedModel(t *testing.T, songs ...catalog.Song) (Model, *testEnv) {
	t.Helper()
	m, env := newTestModel(t, songs...)
	m = drain(t, m, m.Init())
	return m, env
}

// updateModel is a helper that calls Update and returns the Model.
func updateModel(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	newModel, cmd := m.Update(msg)
	result, ok := newModel.(Model)
	if !ok {
		t.Fatalf("Update should return Model, got %T", newModel)
	}
	return result, cmd
}

// cmdTimeout bounds how long a command may block before it counts as a
// timer or a watcher and is dropped.
const cmdTimeout = 300 * time.Millisecond

// drain feeds every message cmd produces back into the model, following
// the commands they return, until nothing is left.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := testutil.RunCmd(cmd, cmdTimeout)
	for i := 0; len(queue) > 0; i++ {
		if i > 100 {
			t.Fatal("message loop did not settle")
		}
		msg := queue[0]
		queue = queue[1:]
		if _, ok := msg.(tea.QuitMsg); ok {
			continue
		}
		var next tea.Cmd
		m, next = updateModel(t, m, msg)
		queue = append(queue, testutil.RunCmd(next, cmdTimeout)...)
	}
	return m
}

func keyMsg(key string) tea.KeyMsg { return testutil.Key(key) }
