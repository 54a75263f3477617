package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/llehouerou/tunecrate/internal/errmsg"
	"github.com/llehouerou/tunecrate/internal/state"
)

func newHistoryCmd(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the songs uploaded from this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, flush, err := setup(cmd, opts, true)
			if err != nil {
				return err
			}
			defer flush()

			st, err := openState(e.cfg)
			if err != nil {
				return errmsg.Wrap(errmsg.OpHistoryLoad, err)
			}
			defer st.Close()

			records, err := st.ListUploads(cmd.Context(), limit)
			if err != nil {
				return errmsg.Wrap(errmsg.OpHistoryLoad, err)
			}
			_, err = fmt.Fprintln(e.stdout, historyTable(records, time.Now()))
			return err
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of uploads to show (0 for all)")
	return cmd
}

func historyTable(records []state.UploadRecord, now time.Time) string {
	if len(records) == 0 {
		return "Nothing uploaded yet."
	}
	header := lipgloss.NewStyle().Bold(true)
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("WHEN", "ID", "SONG", "FILE", "SIZE").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header.PaddingRight(1)
			}
			return lipgloss.NewStyle().PaddingRight(1)
		})
	for _, r := range records {
		song := r.Title
		if r.Artist != "" {
			song += " - " + r.Artist
		}
		id := r.SongID
		if id == "" {
			id = "-"
		}
		t.Row(
			humanize.RelTime(r.UploadedAt, now, "ago", "from now"),
			id,
			song,
			r.FileName,
			humanize.IBytes(uint64(max(r.Size, 0))),
		)
	}
	return t.Render()
}
