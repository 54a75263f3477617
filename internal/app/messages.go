// Package app is the root bubbletea model of the TUI: the song list, the
// player bar, the status line and the popups over them.
package app

import (
	"time"

	"github.com/llehouerou/tunecrate/internal/catalog"
	"github.com/llehouerou/tunecrate/internal/playback"
	"github.com/llehouerou/tunecrate/internal/state"
	"github.com/llehouerou/tunecrate/internal/upload"
)

// SongsLoadedMsg carries the result of a catalog fetch.
type SongsLoadedMsg struct {
	Ticket catalog.Ticket
	Songs  []catalog.Song
	Err    error
}

// FileLoadedMsg carries a file opened for the upload form.
type FileLoadedMsg struct {
	Pending    *upload.Pending
	PrefillErr error // tags or duration that could not be read
	Err        error // the file itself could not be opened
}

// UploadDoneMsg is sent when an upload request finished.
type UploadDoneMsg struct {
	Pending *upload.Pending
	Song    catalog.Song
	Err     error
}

// DeleteDoneMsg is sent when a delete request finished.
type DeleteDoneMsg struct {
	Song catalog.Song
	Err  error
}

// PlaybackDoneMsg is sent when a selection or toggle returned.
type PlaybackDoneMsg struct {
	Err error
}

// NowPlayingMsg wraps a playback event.
type NowPlayingMsg playback.NowPlaying

// PlaybackErrorMsg wraps a playback failure event.
type PlaybackErrorMsg playback.ErrorEvent

// PlaybackClosedMsg is sent once the playback subscription ends.
type PlaybackClosedMsg struct{}

// HistoryLoadedMsg carries the upload history for the history popup.
type HistoryLoadedMsg struct {
	Records []state.UploadRecord
	Err     error
}

// TickMsg is sent periodically while playing to move the progress bar.
type TickMsg time.Time

// StatusClearMsg clears the status line if it still shows message ID.
type StatusClearMsg struct {
	ID int64
}
