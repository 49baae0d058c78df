package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/greengrid/app"
	"github.com/kilianp07/greengrid/config"
	"github.com/kilianp07/greengrid/core/dispatch"
	"github.com/kilianp07/greengrid/core/simulation"
	"github.com/kilianp07/greengrid/pkg/export"
)

var (
	compareFlags overrides
	compareCSV   string
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run every strategy on the same weather and compare the results",
	RunE:  compareStrategies,
}

func init() {
	compareFlags.register(compareCmd, false)
	compareCmd.Flags().StringVarP(&compareCSV, "out", "o", "", "write the summaries as CSV")
	rootCmd.AddCommand(compareCmd)
}

func compareStrategies(cmd *cobra.Command, _ []string) error {
	return withService(cmd, func(cfg *config.Config) { compareFlags.apply(cmd, cfg) },
		func(ctx context.Context, svc *app.Service) error {
			sums, err := svc.Compare(ctx, dispatch.Strategies())
			if err != nil {
				return err
			}
			if err := writeComparison(cmd.OutOrStdout(), sums); err != nil {
				return err
			}
			if compareCSV == "" {
				return nil
			}
			f, err := os.Create(compareCSV)
			if err != nil {
				return err
			}
			if err := export.WriteSummariesCSV(f, sums); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		})
}

func writeComparison(w io.Writer, sums []simulation.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "strategy\timported kWh\texported kWh\tunmet kWh\tnet cost\tself-sufficiency\tfinal SOC %\t")
	for _, s := range sums {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.1f%%\t%.1f\t\n",
			s.Strategy, s.ImportedKWh, s.ExportedKWh, s.UnmetKWh, s.NetCost, s.SelfSufficiency*100, s.FinalSOCPercent)
	}
	if len(sums) > 0 {
		fmt.Fprintf(tw, "\nseed %d, %d days, %s\t\t\t\t\t\t\t\n", sums[0].Seed, sums[0].Days, sums[0].Season)
	}
	return tw.Flush()
}
