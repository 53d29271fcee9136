package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/xlcache/internal/app"
)

func (c *CLI) newSplitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split --records <file>",
		Short: "Write the texts missing from the cache to stdout",
		Long: `Reads one text per line from stdin. Texts missing from the cache are written
to stdout, followed by the control line, ready to be piped into a translator.
The position of every input is recorded in the records file for "join".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, _ := cmd.Flags().GetString("records")

			warnIfTerminal(cmd)
			return c.app.Split(cmd.Context(), app.SplitOptions{
				Options: c.options(cmd),
				Records: records,
			})
		},
	}
	cmd.Flags().StringP("records", "r", "", "Positional records file to write")
	_ = cmd.MarkFlagRequired("records")
	return cmd
}
