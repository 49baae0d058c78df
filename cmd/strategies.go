package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/greengrid/core/dispatch"
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List the dispatch strategies",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		for _, s := range dispatch.Strategies() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-17s %s\n", s, s.Description())
		}
	},
}

func init() {
	rootCmd.AddCommand(strategiesCmd)
}
