package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tunecrate/internal/app/handler"
	"github.com/llehouerou/tunecrate/internal/app/popupctl"
	"github.com/llehouerou/tunecrate/internal/keymap"
	"github.com/llehouerou/tunecrate/internal/playback"
	"github.com/llehouerou/tunecrate/internal/ui"
	"github.com/llehouerou/tunecrate/internal/ui/action"
	"github.com/llehouerou/tunecrate/internal/ui/playerbar"
)

// Update handles messages and returns updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		if m.Popups.ActivePopup() != popupctl.None {
			return m, nil
		}
		var cmd tea.Cmd
		m.SongList, cmd = m.SongList.Update(msg)
		return m, cmd

	case action.Msg:
		return m.handleAction(msg)

	case SongsLoadedMsg:
		return m.handleSongsLoaded(msg)

	case FileLoadedMsg:
		return m.handleFileLoaded(msg)

	case UploadDoneMsg:
		return m.handleUploadDone(msg)

	case DeleteDoneMsg:
		return m.handleDeleteDone(msg)

	case PlaybackDoneMsg:
		return m.handlePlaybackDone(msg)

	case NowPlayingMsg:
		return m.handleNowPlaying(msg)

	case PlaybackErrorMsg:
		return m.handlePlaybackError(msg)

	case PlaybackClosedMsg:
		m.sub = nil
		return m, nil

	case HistoryLoadedMsg:
		return m.handleHistoryLoaded(msg)

	case TickMsg:
		if m.playback != nil && m.playback.State() == playback.StatePlaying {
			return m, TickCmd()
		}
		m.ticking = false
		return m, nil

	case StatusClearMsg:
		m.clearStatus(msg.ID)
		return m, nil
	}

	// cursor blink and other input plumbing for the form
	return m, m.Popups.Route(popupctl.Upload, msg)
}

func (m *Model) resize(width, height int) {
	m.Width = width
	m.Height = height
	m.SongList.SetSize(width, max(height-playerbar.Height-ui.StatusHeight, ui.PanelOverhead))
	m.Popups.SetSize(width, height)
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	r := handler.Chain(msg,
		m.handlePopupKey,
		m.handleGlobalKey,
		m.handlePlaybackKey,
		m.handleSongListKey,
	)
	return m, r.Cmd
}

func (m *Model) handlePopupKey(msg tea.KeyMsg) handler.Result {
	if m.Popups.ActivePopup() == popupctl.None {
		return handler.NotHandled
	}
	_, cmd := m.Popups.HandleKey(msg)
	return handler.Handled(cmd)
}

func (m *Model) handleGlobalKey(msg tea.KeyMsg) handler.Result {
	switch m.keys.Resolve(msg.String()) { //nolint:exhaustive // other actions belong to other handlers
	case keymap.ActionQuit:
		return handler.Handled(tea.Quit)
	case keymap.ActionHelp:
		return handler.Handled(m.Popups.ShowHelp("global", "playback", "songs", "upload"))
	case keymap.ActionRefresh:
		return handler.Handled(m.refresh())
	case keymap.ActionUpload:
		return handler.Handled(m.Popups.ShowUpload(m.catalog.Limits()))
	case keymap.ActionHistory:
		return handler.Handled(m.loadHistoryCmd())
	}
	return handler.NotHandled
}

func (m *Model) handlePlaybackKey(msg tea.KeyMsg) handler.Result {
	switch m.keys.Resolve(msg.String()) { //nolint:exhaustive // other actions belong to other handlers
	case keymap.ActionPlayPause:
		return handler.Handled(m.playPause())
	case keymap.ActionStop:
		m.playback.Stop()
		return handler.HandledNoCmd
	case keymap.ActionVolumeUp:
		return handler.Handled(m.changeVolume(volumeStep))
	case keymap.ActionVolumeDown:
		return handler.Handled(m.changeVolume(-volumeStep))
	case keymap.ActionMute:
		m.playback.SetMuted(!m.playback.Muted())
		return handler.Handled(m.saveVolume())
	}
	return handler.NotHandled
}

func (m *Model) handleSongListKey(msg tea.KeyMsg) handler.Result {
	var cmd tea.Cmd
	m.SongList, cmd = m.SongList.Update(msg)
	return handler.Handled(cmd)
}
