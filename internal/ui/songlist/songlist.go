// Package songlist renders the catalog as a scrollable table and marks the
// current song.
package songlist

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tunecrate/internal/catalog"
	"github.com/llehouerou/tunecrate/internal/keymap"
	"github.com/llehouerou/tunecrate/internal/playback"
	"github.com/llehouerou/tunecrate/internal/ui"
	"github.com/llehouerou/tunecrate/internal/ui/list"
)

// Model is the song table.
type Model struct {
	list list.Model[catalog.Song]

	current playback.Selection
	state   playback.State
	loading bool
}

// New creates an empty, focused song table.
func New() Model {
	l := list.New[catalog.Song](ui.ScrollMargin, keymap.ForContexts("songs"))
	l.SetFocused(true)
	return Model{list: l}
}

// SetSize sets the panel dimensions, borders included.
func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

// SetFocused sets whether the table takes input.
func (m *Model) SetFocused(focused bool) {
	m.list.SetFocused(focused)
}

// SetSongs replaces the rows. The cursor stays on the same song when it is
// still listed.
func (m *Model) SetSongs(songs []catalog.Song) {
	prev, hadPrev := m.list.Selected()
	m.list.SetItems(songs)
	if hadPrev {
		m.list.Focus(func(s catalog.Song) bool { return s.ID == prev.ID })
	}
}

// SetLoading marks a catalog fetch in flight.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
}

// SetNowPlaying updates which song is marked as current.
func (m *Model) SetNowPlaying(sel playback.Selection, state playback.State) {
	m.current = sel
	m.state = state
}

// FocusSong moves the cursor to the song with the given id.
func (m *Model) FocusSong(id string) bool {
	return m.list.Focus(func(s catalog.Song) bool { return s.ID == id })
}

// Songs returns the listed songs.
func (m Model) Songs() []catalog.Song {
	return m.list.Items()
}

// Selected returns the song under the cursor.
func (m Model) Selected() (catalog.Song, bool) {
	return m.list.Selected()
}

// Update handles navigation and turns enter, clicks and delete into
// actions.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	res := m.list.Update(msg)
	songs := m.list.Items()
	if res.Index < 0 || res.Index >= len(songs) {
		return m, nil
	}
	song := songs[res.Index]

	switch res.Action { //nolint:exhaustive // navigation needs no action
	case list.ActionEnter, list.ActionClick:
		return m, func() tea.Msg { return ActionMsg(Play{Song: song}) }
	case list.ActionDelete:
		return m, func() tea.Msg { return ActionMsg(Delete{Song: song}) }
	}
	return m, nil
}
