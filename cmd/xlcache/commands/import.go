package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Store source<TAB>translation pairs read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			warnIfTerminal(cmd)
			return c.app.Import(cmd.Context(), c.options(cmd))
		},
	}
}
