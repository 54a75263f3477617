package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/llehouerou/tunecrate/internal/errmsg"
	"github.com/llehouerou/tunecrate/internal/logger"
	"github.com/llehouerou/tunecrate/internal/state"
	"github.com/llehouerou/tunecrate/internal/upload"
)

func newUploadCmd(opts *options) *cobra.Command {
	var (
		p        upload.Pending
		mimeType string
		noTags   bool
	)

	cmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload an audio file with its metadata",
		Long: `Upload an audio file. Empty metadata flags are filled from the file's
tags and decoded duration unless --no-tags is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, flush, err := setup(cmd, opts, true)
			if err != nil {
				return err
			}
			defer flush()

			f, err := upload.OpenFile(args[0], mimeType)
			if err != nil {
				return errmsg.Wrap(errmsg.OpFileLoad, err)
			}
			p.SetFile(f)
			if !noTags {
				if err := p.Prefill(); err != nil {
					logger.L().Info("prefill incomplete", zap.String("path", f.Path), zap.Error(err))
				}
			}

			song, err := e.client.Upload(cmd.Context(), &p)
			if err != nil {
				return errmsg.Wrap(errmsg.OpUpload, err)
			}

			recordCLIUpload(cmd, e, &p, song.ID, song.Title, song.Artist)
			_, err = fmt.Fprintf(e.stdout, "Uploaded %s (id %s, %s)\n", song.Label(), song.ID, humanize.IBytes(uint64(f.Size))) //nolint:gosec // size from stat
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&p.Title, "title", "", "song title")
	flags.StringVar(&p.Artist, "artist", "", "artist")
	flags.StringVar(&p.Album, "album", "", "album")
	flags.StringVar(&p.Year, "year", "", "release year")
	flags.StringVar(&p.Duration, "duration", "", "duration as mm:ss")
	flags.StringVar(&p.Genre, "genre", "", "genre")
	flags.StringVar(&mimeType, "type", "", "declared media type, e.g. audio/mpeg (default: detected)")
	flags.BoolVar(&noTags, "no-tags", false, "do not read metadata from the file")
	return cmd
}

// recordCLIUpload adds the upload to the local history. History is a
// convenience, so failures are only logged.
func recordCLIUpload(cmd *cobra.Command, e *env, p *upload.Pending, id, title, artist string) {
	st, err := openState(e.cfg)
	if err != nil {
		logger.L().Warn(errmsg.Format(errmsg.OpHistorySave, err))
		return
	}
	defer st.Close()

	if title == "" {
		title = p.Title
	}
	if artist == "" {
		artist = p.Artist
	}
	r := state.UploadRecord{
		SongID:   id,
		Title:    title,
		Artist:   artist,
		FileName: p.File.Name,
		Size:     p.File.Size,
	}
	if err := st.RecordUpload(cmd.Context(), r); err != nil {
		logger.L().Warn(errmsg.Format(errmsg.OpHistorySave, err))
	}
}
