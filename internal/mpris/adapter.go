package mpris

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"slices"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/tunecrate/internal/playback"
	"github.com/llehouerou/tunecrate/internal/upload"
)

// Controller is the part of *playback.Session the bus can drive.
type Controller interface {
	Play(ctx context.Context) error
	Pause()
	Toggle(ctx context.Context) error
	Stop()
	State() playback.State
	Selection() playback.Selection
	Position() time.Duration
	Duration() time.Duration
	Volume() float64
	SetVolume(level float64)
	Subscribe() *playback.Subscription
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error { return nil }

func (r *rootAdapter) Quit() error { return nil }

func (r *rootAdapter) CanQuit() (bool, error) { return false, nil }

func (r *rootAdapter) CanRaise() (bool, error) { return false, nil }

func (r *rootAdapter) HasTrackList() (bool, error) { return false, nil }

func (r *rootAdapter) Identity() (string, error) { return "tunecrate", nil }

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"http", "https"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return slices.Clone(upload.DefaultAllowedTypes), nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter. Calls arrive
// on D-Bus goroutines.
type playerAdapter struct {
	ctl Controller
	// timeout bounds a Play that has to refetch audio
	timeout time.Duration
}

func (p *playerAdapter) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), p.timeout)
}

func (p *playerAdapter) Next() error { return nil }

func (p *playerAdapter) Previous() error { return nil }

func (p *playerAdapter) Pause() error {
	p.ctl.Pause()
	return nil
}

func (p *playerAdapter) PlayPause() error {
	ctx, cancel := p.ctx()
	defer cancel()
	return ignoreNoSong(p.ctl.Toggle(ctx))
}

func (p *playerAdapter) Stop() error {
	p.ctl.Stop()
	return nil
}

func (p *playerAdapter) Play() error {
	ctx, cancel := p.ctx()
	defer cancel()
	return ignoreNoSong(p.ctl.Play(ctx))
}

func (p *playerAdapter) Seek(_ types.Microseconds) error { return nil }

func (p *playerAdapter) SetPosition(_ string, _ types.Microseconds) error { return nil }

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error { return nil }

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.ctl.State() {
	case playback.StatePlaying:
		return types.PlaybackStatusPlaying, nil
	case playback.StatePaused:
		return types.PlaybackStatusPaused, nil
	case playback.StateStopped, playback.StateLoading:
		return types.PlaybackStatusStopped, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) { return 1.0, nil }

func (p *playerAdapter) SetRate(_ float64) error { return nil }

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	song := p.ctl.Selection().Song
	if song == nil {
		return types.Metadata{}, nil
	}

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(song.URL)),
		Length:  types.Microseconds(p.ctl.Duration().Microseconds()),
		Title:   song.Title,
		Album:   song.Album,
	}
	if song.Artist != "" {
		meta.Artist = []string{song.Artist}
	}
	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) { return p.ctl.Volume(), nil }

func (p *playerAdapter) SetVolume(v float64) error {
	p.ctl.SetVolume(v)
	return nil
}

func (p *playerAdapter) Position() (int64, error) {
	return p.ctl.Position().Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) { return 1.0, nil }

func (p *playerAdapter) MaximumRate() (float64, error) { return 1.0, nil }

func (p *playerAdapter) CanGoNext() (bool, error) { return false, nil }

func (p *playerAdapter) CanGoPrevious() (bool, error) { return false, nil }

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.ctl.Selection().Song != nil, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return p.ctl.State() == playback.StatePlaying, nil
}

func (p *playerAdapter) CanSeek() (bool, error) { return false, nil }

func (p *playerAdapter) CanControl() (bool, error) { return true, nil }

func ignoreNoSong(err error) error {
	if errors.Is(err, playback.ErrNoSong) {
		return nil
	}
	return err
}

func formatTrackID(url string) string {
	h := fnv.New64a()
	h.Write([]byte(url))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
