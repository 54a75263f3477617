package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/llehouerou/tunecrate/internal/errmsg"
)

func newRmCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a song from the server",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, flush, err := setup(cmd, opts, true)
			if err != nil {
				return err
			}
			defer flush()

			id := args[0]
			if err := e.client.Delete(cmd.Context(), id); err != nil {
				return errmsg.WrapWith(errmsg.OpSongDelete, id, err)
			}
			_, err = fmt.Fprintf(e.stdout, "Deleted %s\n", id)
			return err
		},
	}
}
