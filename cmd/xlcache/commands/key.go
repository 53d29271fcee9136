package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "key",
		Short: "Print the cache key of every line read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			warnIfTerminal(cmd)
			return c.app.Keys(cmd.Context(), c.options(cmd))
		},
	}
}
