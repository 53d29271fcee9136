package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/xlcache/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [flags] [-- translator [args...]]",
		Short: "Translate stdin through the cache and the translator",
		Long: `Reads one text per line from stdin and writes one translation per line to
stdout, in the same order. Only texts missing from the cache are sent to the
translator; every fresh translation is stored for the next run.

The translator command is taken from the configuration file unless given
after "--".`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			strict, _ := cmd.Flags().GetBool("strict")
			spool, _ := cmd.Flags().GetString("spool")
			buffer, _ := cmd.Flags().GetInt("buffer")

			warnIfTerminal(cmd)
			return c.app.Run(cmd.Context(), app.RunOptions{
				Options: c.options(cmd),
				Command: args,
				Strict:  strict,
				Spool:   spool,
				Buffer:  buffer,
			})
		},
	}
	cmd.Flags().Bool("strict", false, "Fail when the translator output does not match its input")
	cmd.Flags().String("spool", "", "Record spool: memory or file")
	cmd.Flags().Int("buffer", 0, "Capacity of the channels between the stages")
	return cmd
}
