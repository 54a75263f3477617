//go:build linux

package mpris

import (
	"time"

	"github.com/quarckster/go-mpris-server/pkg/events"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"go.uber.org/zap"

	"github.com/llehouerou/tunecrate/internal/logger"
	"github.com/llehouerou/tunecrate/internal/playback"
)

// Adapter exposes a playback session as org.mpris.MediaPlayer2.tunecrate.
type Adapter struct {
	server *server.Server
	events *events.EventHandler
	sub    *playback.Subscription
	done   chan struct{}
}

// New creates and starts a new MPRIS adapter. timeout bounds a Play that
// has to fetch audio again.
func New(ctl Controller, timeout time.Duration) (*Adapter, error) {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	a := &Adapter{done: make(chan struct{})}

	a.server = server.NewServer("tunecrate", &rootAdapter{}, &playerAdapter{ctl: ctl, timeout: timeout})
	a.events = events.NewEventHandler(a.server)
	a.sub = ctl.Subscribe()

	go func() {
		if err := a.server.Listen(); err != nil {
			logger.L().Warn("mpris listen", zap.Error(err))
		}
	}()
	go a.forward()

	return a, nil
}

// forward turns session events into PropertiesChanged signals.
func (a *Adapter) forward() {
	for {
		select {
		case <-a.sub.NowPlaying:
			if err := a.events.Player.OnTitle(); err != nil {
				logger.L().Debug("mpris title signal", zap.Error(err))
			}
			if err := a.events.Player.OnPlayPause(); err != nil {
				logger.L().Debug("mpris status signal", zap.Error(err))
			}
		case <-a.sub.Done:
			return
		case <-a.done:
			return
		}
	}
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	close(a.done)
	return a.server.Stop()
}
