package app

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/llehouerou/tunecrate/internal/app/popupctl"
	"github.com/llehouerou/tunecrate/internal/catalog"
	"github.com/llehouerou/tunecrate/internal/errmsg"
	"github.com/llehouerou/tunecrate/internal/logger"
	"github.com/llehouerou/tunecrate/internal/notify"
	"github.com/llehouerou/tunecrate/internal/playback"
	"github.com/llehouerou/tunecrate/internal/state"
	"github.com/llehouerou/tunecrate/internal/ui/action"
	"github.com/llehouerou/tunecrate/internal/ui/confirm"
	"github.com/llehouerou/tunecrate/internal/ui/helpbindings"
	"github.com/llehouerou/tunecrate/internal/ui/songlist"
	"github.com/llehouerou/tunecrate/internal/ui/uploadform"
	"github.com/llehouerou/tunecrate/internal/ui/uploadhistory"
)

func (m Model) handleAction(msg action.Msg) (tea.Model, tea.Cmd) {
	logger.L().Debug("action", zap.Stringer("action", msg))

	switch a := msg.Action.(type) {
	case songlist.Play:
		return m, m.selectCmd(a.Song)

	case songlist.Delete:
		return m, m.Popups.ShowDeleteConfirm(a.Song)

	case confirm.Result:
		m.Popups.Hide(popupctl.Confirm)
		song, ok := a.Context.(catalog.Song)
		if !a.Confirmed || !ok {
			return m, nil
		}
		m.setProgress("Deleting " + song.Label() + "…")
		return m, m.deleteCmd(song)

	case uploadform.LoadFile:
		return m, loadFileCmd(a.Path, a.Type)

	case uploadform.Submit:
		if form := m.Popups.UploadForm(); form != nil {
			form.SetSubmitting(true)
		}
		return m, m.uploadCmd(a.Pending)

	case uploadform.Cancel:
		m.Popups.Hide(popupctl.Upload)
		return m, nil

	case helpbindings.Close:
		m.Popups.Hide(popupctl.Help)
		return m, nil

	case uploadhistory.Close:
		m.Popups.Hide(popupctl.History)
		return m, nil
	}
	return m, nil
}

// refresh starts a catalog fetch that supersedes any in flight.
func (m *Model) refresh() tea.Cmd {
	m.SongList.SetLoading(true)
	return m.loadSongsCmd(m.songs.Begin())
}

// refetchAfterWrite invalidates fetches issued before a mutation and
// reloads the list.
func (m *Model) refetchAfterWrite() tea.Cmd {
	m.songs.Invalidate()
	return m.refresh()
}

func (m Model) handleSongsLoaded(msg SongsLoadedMsg) (tea.Model, tea.Cmd) {
	if !m.songs.Current(msg.Ticket) {
		logger.L().Debug("dropped stale song list", zap.Uint64("ticket", uint64(msg.Ticket)))
		return m, nil
	}
	m.SongList.SetLoading(false)

	if msg.Err != nil {
		logger.L().Warn("load songs failed", zap.Error(msg.Err))
		return m, m.setStatus(StatusError, errmsg.Format(errmsg.OpCatalogLoad, msg.Err))
	}

	m.songs.Apply(msg.Ticket, msg.Songs)
	m.SongList.SetSongs(m.songs.Songs())
	if m.restoreID != "" {
		m.SongList.FocusSong(m.restoreID)
		m.restoreID = ""
	}
	return m, nil
}

func (m Model) handleFileLoaded(msg FileLoadedMsg) (tea.Model, tea.Cmd) {
	form := m.Popups.UploadForm()
	if form == nil {
		return m, nil
	}
	if msg.Err != nil {
		form.FileFailed(errmsg.Wrap(errmsg.OpFileLoad, msg.Err))
		return m, nil
	}
	if msg.PrefillErr != nil {
		logger.L().Info("prefill incomplete",
			zap.String("path", msg.Pending.File.Path),
			zap.Error(msg.PrefillErr),
		)
	}
	form.FileLoaded(msg.Pending, msg.PrefillErr)
	return m, nil
}

func (m Model) handleUploadDone(msg UploadDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		logger.L().Warn("upload failed", zap.Error(msg.Err))
		if form := m.Popups.UploadForm(); form != nil {
			form.SetError(errmsg.Wrap(errmsg.OpUpload, msg.Err))
			return m, nil
		}
		return m, m.setStatus(StatusError, errmsg.Format(errmsg.OpUpload, msg.Err))
	}

	m.Popups.Hide(popupctl.Upload)
	m.recordUpload(msg)
	m.restoreID = msg.Song.ID

	return m, tea.Batch(
		m.setStatus(StatusSuccess, "Uploaded "+msg.Song.Label()),
		m.refetchAfterWrite(),
		m.notifyCmd(notify.Uploaded(msg.Song)),
	)
}

func (m *Model) recordUpload(msg UploadDoneMsg) {
	if m.state == nil {
		return
	}
	r := state.UploadRecord{
		SongID:     msg.Song.ID,
		Title:      msg.Pending.Title,
		Artist:     msg.Pending.Artist,
		UploadedAt: now(),
	}
	if f := msg.Pending.File; f != nil {
		r.FileName = f.Name
		r.Size = f.Size
	}
	if err := m.state.RecordUpload(context.Background(), r); err != nil {
		logger.L().Warn(errmsg.Format(errmsg.OpHistorySave, err))
	}
}

func (m Model) handleDeleteDone(msg DeleteDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		logger.L().Warn("delete failed", zap.String("song_id", msg.Song.ID), zap.Error(msg.Err))
		m.Status = Status{}
		m.Popups.ShowError(errmsg.FormatWith(errmsg.OpSongDelete, msg.Song.Title, msg.Err))
		return m, nil
	}

	if m.playback != nil && m.playback.Selection().IsCurrent(msg.Song) {
		m.playback.Stop()
	}
	return m, tea.Batch(
		m.setStatus(StatusSuccess, "Deleted "+msg.Song.Label()),
		m.refetchAfterWrite(),
	)
}

func (m Model) handlePlaybackDone(msg PlaybackDoneMsg) (tea.Model, tea.Cmd) {
	// failures also arrive as PlaybackErrorMsg
	if !quiet(msg.Err) && !errors.Is(msg.Err, playback.ErrNoSong) {
		logger.L().Debug("playback command returned", zap.Error(msg.Err))
	}
	return m, nil
}

func (m Model) handleNowPlaying(msg NowPlayingMsg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.WatchPlayback()}

	m.SongList.SetNowPlaying(m.playback.Selection(), msg.State)

	if msg.Song != nil && msg.State == playback.StatePlaying {
		if m.state != nil {
			m.state.SaveSelection(msg.Song.ID)
		}
		if msg.Song.URL != m.notifiedURL {
			m.notifiedURL = msg.Song.URL
			cmds = append(cmds, m.notifyCmd(notify.NowPlaying(*msg.Song)))
		}
		if !m.ticking {
			m.ticking = true
			cmds = append(cmds, TickCmd())
		}
	}
	if msg.Song == nil {
		m.notifiedURL = ""
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handlePlaybackError(msg PlaybackErrorMsg) (tea.Model, tea.Cmd) {
	text := errmsg.FormatWith(msg.Operation, msg.Song.Title, msg.Err)
	return m, tea.Batch(m.WatchPlayback(), m.setStatus(StatusError, text))
}

func (m Model) handleHistoryLoaded(msg HistoryLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		return m, m.setStatus(StatusError, errmsg.Format(errmsg.OpHistoryLoad, msg.Err))
	}
	return m, m.Popups.ShowHistory(msg.Records)
}

// playPause toggles the current song, or starts the one under the cursor
// when nothing is current.
func (m *Model) playPause() tea.Cmd {
	if m.playback.Selection().Song != nil {
		return m.toggleCmd()
	}
	if song, ok := m.SongList.Selected(); ok {
		return m.selectCmd(song)
	}
	return nil
}

func (m *Model) changeVolume(delta float64) tea.Cmd {
	level := min(max(m.playback.Volume()+delta, 0), 1)
	m.playback.SetVolume(level)
	if delta > 0 && m.playback.Muted() {
		m.playback.SetMuted(false)
	}
	return m.saveVolume()
}

func (m *Model) saveVolume() tea.Cmd {
	if m.state == nil {
		return nil
	}
	if err := m.state.SaveVolume(m.playback.Volume(), m.playback.Muted()); err != nil {
		logger.L().Warn("save volume", zap.Error(err))
		return m.setStatus(StatusError, errmsg.Format(errmsg.OpVolumeChange, err))
	}
	return nil
}
