package cli

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/llehouerou/tunecrate/internal/catalog"
	"github.com/llehouerou/tunecrate/internal/errmsg"
)

func newLsCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List the songs on the server",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, flush, err := setup(cmd, opts, true)
			if err != nil {
				return err
			}
			defer flush()

			songs, err := e.client.List(cmd.Context())
			if err != nil {
				return errmsg.Wrap(errmsg.OpCatalogLoad, err)
			}

			if asJSON {
				enc := json.NewEncoder(e.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(songs)
			}
			_, err = fmt.Fprintln(e.stdout, songTable(songs))
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the songs as JSON")
	return cmd
}

func songTable(songs []catalog.Song) string {
	if len(songs) == 0 {
		return "No songs."
	}
	header := lipgloss.NewStyle().Bold(true)
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("ID", "TITLE", "ARTIST", "ALBUM", "YEAR", "TIME", "GENRE").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header.PaddingRight(1)
			}
			return lipgloss.NewStyle().PaddingRight(1)
		})
	for _, s := range songs {
		t.Row(s.ID, s.Title, s.Artist, s.Album, s.Year, s.Duration, s.Genre)
	}
	return t.Render()
}
