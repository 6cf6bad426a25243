package cli

import (
	"fmt"
	"io"

	"github.com/apexcharge/paddock/shared/utils"
	"github.com/spf13/cobra"
)

func newKeygenCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a random jwt_key for private.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := utils.GenerateKey()
			if err != nil {
				return err
			}
			return opts.output(cmd.OutOrStdout(), map[string]string{"jwt_key": key}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "jwt_key: %q\n", key)
				return err
			})
		},
	}
}
