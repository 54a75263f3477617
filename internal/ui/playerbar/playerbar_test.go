package playerbar

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/tunecrate/internal/catalog"
	"github.com/llehouerou/tunecrate/internal/playback"
)

type fakeSource struct {
	sel    playback.Selection
	state  playback.State
	pos    time.Duration
	dur    time.Duration
	volume float64
	muted  bool
}

func (f fakeSource) Selection() playback.Selection { return f.sel }
func (f fakeSource) State() playback.State         { return f.state }
func (f fakeSource) Position() time.Duration       { return f.pos }
func (f fakeSource) Duration() time.Duration       { return f.dur }
func (f fakeSource) Volume() float64               { return f.volume }
func (f fakeSource) Muted() bool                   { return f.muted }

func TestNewState(t *testing.T) {
	song := catalog.Song{ID: "1", Title: "So What", Artist: "Miles Davis", Album: "Kind of Blue"}
	src := fakeSource{
		sel:    playback.Selection{Song: &song, Playing: true},
		state:  playback.StatePlaying,
		pos:    30 * time.Second,
		dur:    9 * time.Minute,
		volume: 0.8,
	}

	st := NewState(src)

	assert.Equal(t, "So What", st.Title)
	assert.Equal(t, "Miles Davis", st.Artist)
	assert.Equal(t, playback.StatePlaying, st.State)
	assert.Equal(t, 30*time.Second, st.Position)
	assert.Equal(t, 9*time.Minute, st.Duration)
	assert.InDelta(t, 0.8, st.Volume, 1e-9)
}

func TestNewState_LoadingHasNoProgress(t *testing.T) {
	song := catalog.Song{Title: "x"}
	st := NewState(fakeSource{
		sel:   playback.Selection{Song: &song},
		state: playback.StateLoading,
		pos:   time.Minute,
	})
	assert.Zero(t, st.Position)
}

func TestNewState_NothingCurrent(t *testing.T) {
	st := NewState(fakeSource{volume: 0.5, muted: true})
	assert.Empty(t, st.Title)
	assert.True(t, st.Muted)
}

func TestRender_Playing(t *testing.T) {
	out := ansi.Strip(Render(State{
		Title:    "So What",
		Artist:   "Miles Davis",
		Album:    "Kind of Blue",
		State:    playback.StatePlaying,
		Position: 83 * time.Second,
		Duration: 238 * time.Second,
		Volume:   1,
	}, 120))

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, Height)
	assert.Contains(t, out, "So What")
	assert.Contains(t, out, "Miles Davis · Kind of Blue")
	assert.Contains(t, out, "▶")
	assert.Contains(t, out, "1:23 / 3:58")
	assert.Contains(t, out, "vol 100%")
	for _, l := range lines {
		assert.Equal(t, 120, ansi.StringWidth(l))
	}
}

func TestRender_PausedAndMuted(t *testing.T) {
	out := ansi.Strip(Render(State{
		Title: "So What", State: playback.StatePaused, Volume: 0.25, Muted: true,
	}, 80))
	assert.Contains(t, out, "⏸")
	assert.Contains(t, out, "mute  25%")
}

func TestRender_Idle(t *testing.T) {
	out := ansi.Strip(Render(State{Volume: 0.5}, 60))
	assert.Contains(t, out, "Nothing playing")
	assert.Contains(t, out, "vol  50%")
}

func TestRender_NarrowTruncatesTitle(t *testing.T) {
	out := ansi.Strip(Render(State{
		Title: strings.Repeat("Long Title ", 10), Artist: "A", State: playback.StatePlaying,
	}, 50))
	for _, l := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, ansi.StringWidth(l), 50)
	}
	assert.Contains(t, out, "…")
}

func TestProgressBar(t *testing.T) {
	bar := ansi.Strip(progressBar(30*time.Second, time.Minute, 10))
	assert.Equal(t, "━━━━━─────", bar)
	assert.Empty(t, progressBar(0, 0, 0))
	assert.Equal(t, strings.Repeat("━", 4), ansi.Strip(progressBar(2*time.Minute, time.Minute, 4)))
}
