package popupctl

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/tunecrate/internal/catalog"
	"github.com/llehouerou/tunecrate/internal/ui/action"
	"github.com/llehouerou/tunecrate/internal/ui/confirm"
	"github.com/llehouerou/tunecrate/internal/upload"
)

func newManager() *Manager {
	m := New()
	m.SetSize(100, 30)
	return m
}

func TestManager_NothingVisible(t *testing.T) {
	m := newManager()

	assert.Equal(t, None, m.ActivePopup())
	handled, cmd := m.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.False(t, handled)
	assert.Nil(t, cmd)
	assert.Equal(t, "base", m.RenderOverlay("base"))
}

func TestManager_Priority(t *testing.T) {
	m := newManager()

	m.ShowUpload(upload.DefaultLimits())
	assert.Equal(t, Upload, m.ActivePopup())

	m.ShowDeleteConfirm(catalog.Song{ID: "1", Title: "Naima"})
	assert.Equal(t, Confirm, m.ActivePopup())

	m.ShowError("boom")
	assert.Equal(t, Error, m.ActivePopup())

	m.Hide(Error)
	m.Hide(Confirm)
	assert.Equal(t, Upload, m.ActivePopup())
}

func TestManager_ShowUploadKeepsOpenForm(t *testing.T) {
	m := newManager()
	m.ShowUpload(upload.DefaultLimits())
	first := m.UploadForm()
	require.NotNil(t, first)
	first.SetPath("/music/a.mp3")

	m.ShowUpload(upload.DefaultLimits())

	assert.Same(t, first, m.UploadForm())
}

func TestManager_ErrorDismissedByAnyKey(t *testing.T) {
	m := newManager()
	m.ShowError("Failed to delete song 'Naima': song not found")

	view := m.RenderOverlay("")
	assert.Contains(t, view, "song not found")

	handled, _ := m.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("z")})
	assert.True(t, handled)
	assert.Empty(t, m.ErrorMsg())
	assert.Equal(t, None, m.ActivePopup())
}

func TestManager_ConfirmKeyReturnsResult(t *testing.T) {
	m := newManager()
	song := catalog.Song{ID: "7", Title: "Naima"}
	m.ShowDeleteConfirm(song)

	handled, cmd := m.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	require.True(t, handled)
	require.NotNil(t, cmd)

	msg, ok := cmd().(action.Msg)
	require.True(t, ok)
	res, ok := msg.Action.(confirm.Result)
	require.True(t, ok)
	assert.True(t, res.Confirmed)
	assert.Equal(t, song, res.Context)
}

func TestManager_RouteToClosedPopup(t *testing.T) {
	m := newManager()
	assert.Nil(t, m.Route(Upload, struct{}{}))
}
