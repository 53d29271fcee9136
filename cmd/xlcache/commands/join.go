package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/xlcache/internal/app"
)

func (c *CLI) newJoinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "join --records <file>",
		Short: "Merge translator output with the cache into the final output",
		Long: `Reads the translator output from stdin, stores every translation and writes
the final output to stdout in the order recorded by "split".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, _ := cmd.Flags().GetString("records")
			strict, _ := cmd.Flags().GetBool("strict")

			return c.app.Join(cmd.Context(), app.JoinOptions{
				Options: c.options(cmd),
				Records: records,
				Strict:  strict,
			})
		},
	}
	cmd.Flags().StringP("records", "r", "", "Positional records file written by split")
	cmd.Flags().Bool("strict", false, "Fail when the translator output does not match its input")
	_ = cmd.MarkFlagRequired("records")
	return cmd
}
