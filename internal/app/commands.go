package app

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/llehouerou/tunecrate/internal/catalog"
	"github.com/llehouerou/tunecrate/internal/logger"
	"github.com/llehouerou/tunecrate/internal/notify"
	"github.com/llehouerou/tunecrate/internal/playback"
	"github.com/llehouerou/tunecrate/internal/upload"
)

// historyPopupLimit is how many uploads the history popup lists.
const historyPopupLimit = 200

// TickCmd returns a command that sends TickMsg after 1 second.
func TickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// StatusClearCmd clears status message id after StatusDuration.
func StatusClearCmd(id int64) tea.Cmd {
	return tea.Tick(StatusDuration, func(time.Time) tea.Msg {
		return StatusClearMsg{ID: id}
	})
}

// loadSongsCmd fetches the song list under ticket t.
func (m Model) loadSongsCmd(t catalog.Ticket) tea.Cmd {
	client := m.catalog
	return func() tea.Msg {
		songs, err := client.List(context.Background())
		return SongsLoadedMsg{Ticket: t, Songs: songs, Err: err}
	}
}

// loadFileCmd opens path for the upload form and reads its tags.
func loadFileCmd(path, typeOverride string) tea.Cmd {
	return func() tea.Msg {
		f, err := upload.OpenFile(path, typeOverride)
		if err != nil {
			return FileLoadedMsg{Err: err}
		}
		p := &upload.Pending{}
		p.SetFile(f)
		perr := p.Prefill()
		return FileLoadedMsg{Pending: p, PrefillErr: perr}
	}
}

func (m Model) uploadCmd(p *upload.Pending) tea.Cmd {
	client := m.catalog
	return func() tea.Msg {
		song, err := client.Upload(context.Background(), p)
		return UploadDoneMsg{Pending: p, Song: song, Err: err}
	}
}

func (m Model) deleteCmd(song catalog.Song) tea.Cmd {
	client := m.catalog
	return func() tea.Msg {
		return DeleteDoneMsg{Song: song, Err: client.Delete(context.Background(), song.ID)}
	}
}

func (m Model) selectCmd(song catalog.Song) tea.Cmd {
	pb := m.playback
	return func() tea.Msg {
		return PlaybackDoneMsg{Err: pb.Select(context.Background(), song)}
	}
}

func (m Model) toggleCmd() tea.Cmd {
	pb := m.playback
	return func() tea.Msg {
		return PlaybackDoneMsg{Err: pb.Toggle(context.Background())}
	}
}

func (m Model) loadHistoryCmd() tea.Cmd {
	st := m.state
	return func() tea.Msg {
		if st == nil {
			return HistoryLoadedMsg{}
		}
		records, err := st.ListUploads(context.Background(), historyPopupLimit)
		return HistoryLoadedMsg{Records: records, Err: err}
	}
}

// WatchPlayback waits for the next playback event.
func (m Model) WatchPlayback() tea.Cmd {
	sub := m.sub
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-sub.NowPlaying:
			return NowPlayingMsg(e)
		case e := <-sub.Error:
			return PlaybackErrorMsg(e)
		case <-sub.Done:
			return PlaybackClosedMsg{}
		}
	}
}

// notifyCmd sends a desktop notification off the event loop.
func (m Model) notifyCmd(n notify.Notification) tea.Cmd {
	notifier := m.notifier
	if notifier == nil {
		return nil
	}
	return func() tea.Msg {
		if _, err := notifier.Notify(n); err != nil {
			logger.L().Debug("notification failed", zap.Error(err))
		}
		return nil
	}
}

// quiet reports playback errors that need no message.
func quiet(err error) bool {
	return err == nil ||
		errors.Is(err, playback.ErrSuperseded) ||
		errors.Is(err, playback.ErrClosed)
}
