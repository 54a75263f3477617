package playback

import (
	"github.com/llehouerou/tunecrate/internal/catalog"
	"github.com/llehouerou/tunecrate/internal/errmsg"
)

// Selection is the current song and whether it is playing. Song is nil
// when nothing is current.
type Selection struct {
	Song    *catalog.Song
	Playing bool
}

// IsCurrent reports whether song is the current one. Songs are compared by
// URL.
func (s Selection) IsCurrent(song catalog.Song) bool {
	return s.Song != nil && s.Song.URL == song.URL
}

// NowPlaying is emitted whenever the current song or its state changes.
//
// Emitted by:
//   - Select: Loading when a fetch starts, then Playing once audio starts
//   - Pause/Resume/Toggle: Paused or Playing
//   - Stop: Stopped with a nil Song
//   - end of track: Stopped with the finished Song still set
type NowPlaying struct {
	Song  *catalog.Song
	State State
}

// ErrorEvent is emitted when fetching or starting a song fails.
type ErrorEvent struct {
	Operation errmsg.Op
	Song      catalog.Song
	Err       error
}
