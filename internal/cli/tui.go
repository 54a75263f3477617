package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/llehouerou/tunecrate/internal/app"
	"github.com/llehouerou/tunecrate/internal/errmsg"
	"github.com/llehouerou/tunecrate/internal/logger"
	"github.com/llehouerou/tunecrate/internal/mpris"
	"github.com/llehouerou/tunecrate/internal/notify"
	"github.com/llehouerou/tunecrate/internal/playback"
	"github.com/llehouerou/tunecrate/internal/player"
	"github.com/llehouerou/tunecrate/internal/state"
	"github.com/llehouerou/tunecrate/internal/stderr"
)

// runTUI wires the application and runs it until the user quits.
func runTUI(cmd *cobra.Command, opts *options) error {
	// the TUI owns the terminal, so logs only go to the file
	e, flush, err := setup(cmd, opts, false)
	if err != nil {
		return err
	}
	defer flush()
	log := logger.L()

	st, err := openState(e.cfg)
	if err != nil {
		return errmsg.Wrap(errmsg.OpInitialize, err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warn("close state", zap.Error(err))
		}
	}()

	// oto/ALSA write to fd 2 directly; keep that off the screen
	capture, err := stderr.Start(func(line string) {
		log.Warn("audio backend", zap.String("stderr", line))
	})
	if err != nil {
		log.Debug("stderr capture unavailable", zap.Error(err))
	} else {
		defer capture.Stop()
	}

	session := playback.New(player.New(), e.client)
	defer session.Close()
	restoreVolume(session, st, e.cfg.InitialVolume())

	adapter, err := mpris.New(session, e.cfg.RequestTimeout())
	if err != nil {
		log.Warn("mpris unavailable", zap.Error(err))
	} else {
		defer adapter.Close()
	}

	notifier := notify.Disabled()
	if e.cfg.NotificationsEnabled() {
		if n, err := notify.New(); err != nil {
			log.Warn("notifications unavailable", zap.Error(err))
		} else {
			notifier = n
		}
	}

	m := app.New(app.Deps{
		Catalog:  e.client,
		Playback: session,
		State:    st,
		Notifier: notifier,
	})

	log.Info("starting", zap.String("version", Version))
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

// restoreVolume applies the saved volume, or the configured level when
// nothing was saved yet.
func restoreVolume(session *playback.Session, st state.Interface, initial float64) {
	v, err := st.GetVolume()
	if err != nil || !v.Saved {
		if err != nil {
			logger.L().Warn("read saved volume", zap.Error(err))
		}
		session.SetVolume(initial)
		return
	}
	session.SetVolume(v.Volume)
	session.SetMuted(v.Muted)
}
