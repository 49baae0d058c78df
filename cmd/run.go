package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kilianp07/greengrid/app"
	"github.com/kilianp07/greengrid/config"
	"github.com/kilianp07/greengrid/core/simulation"
)

var (
	runFlags overrides
	runCSV   string
	runJSON  string
	runServe bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate the microgrid and print a report",
	RunE:  runSimulation,
}

func init() {
	runFlags.register(runCmd, true)
	runCmd.Flags().StringVarP(&runCSV, "out", "o", "", "write the step log as CSV")
	runCmd.Flags().StringVar(&runJSON, "json", "", "write the summary and step log as JSON")
	runCmd.Flags().BoolVar(&runServe, "serve", false, "keep the metrics endpoint up after the run until interrupted")
	rootCmd.AddCommand(runCmd)
}

func runSimulation(cmd *cobra.Command, _ []string) error {
	edit := func(cfg *config.Config) {
		runFlags.apply(cmd, cfg)
		if runCSV != "" {
			cfg.Output.CSV = runCSV
		}
		if runJSON != "" {
			cfg.Output.JSON = runJSON
		}
	}
	return withService(cmd, edit, func(ctx context.Context, svc *app.Service) error {
		res, err := svc.Run(ctx)
		if err != nil {
			return err
		}
		if err := simulation.WriteReport(cmd.OutOrStdout(), res.Summary); err != nil {
			return err
		}
		if runServe {
			<-ctx.Done()
		}
		return nil
	})
}
