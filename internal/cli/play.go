package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/llehouerou/tunecrate/internal/errmsg"
	"github.com/llehouerou/tunecrate/internal/playback"
	"github.com/llehouerou/tunecrate/internal/player"
)

func newPlayCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "play ID",
		Short: "Play one song and exit when it ends",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, flush, err := setup(cmd, opts, true)
			if err != nil {
				return err
			}
			defer flush()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			song, err := findSong(ctx, e.client, args[0])
			if errors.Is(err, errSongNotFound) {
				return err
			}
			if err != nil {
				return errmsg.Wrap(errmsg.OpCatalogLoad, err)
			}

			session := playback.New(player.New(), e.client)
			defer session.Close()
			session.SetVolume(e.cfg.InitialVolume())
			sub := session.Subscribe()

			fmt.Fprintf(e.stdout, "Playing %s\n", song.Label())
			if err := session.Select(ctx, song); err != nil {
				return errmsg.WrapWith(errmsg.OpPlaybackStart, song.Title, err)
			}
			return waitForEnd(ctx, sub)
		},
	}
}

// waitForEnd blocks until playback stops or ctx is cancelled.
func waitForEnd(ctx context.Context, sub *playback.Subscription) error {
	for {
		select {
		case e := <-sub.NowPlaying:
			if e.State == playback.StateStopped {
				return nil
			}
		case e := <-sub.Error:
			return errmsg.WrapWith(e.Operation, e.Song.Title, e.Err)
		case <-sub.Done:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}
