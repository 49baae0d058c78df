package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/greengrid/config"
	eco "github.com/kilianp07/greengrid/core/metrics/eco"
	"github.com/kilianp07/greengrid/core/steplog"
	"github.com/kilianp07/greengrid/infra/metrics"
	"github.com/kilianp07/greengrid/jobs/ecokpi"
)

var (
	ledgerRun    string
	ledgerFactor float64
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Print the daily ecological KPIs of a persisted run",
	Args:  cobra.NoArgs,
	RunE:  printLedger,
}

func init() {
	ledgerCmd.Flags().StringVar(&ledgerRun, "run", "", "run id to report")
	ledgerCmd.Flags().Float64Var(&ledgerFactor, "emission-factor", metrics.DefaultEmissionFactor, "grid emission factor in gCO2/kWh")
	_ = ledgerCmd.MarkFlagRequired("run")
	rootCmd.AddCommand(ledgerCmd)
}

func printLedger(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.StepLog.Backend != "jsonl" && cfg.StepLog.Backend != "sqlite" {
		return errors.New("ledger reads a jsonl or sqlite step log")
	}
	simCfg, err := cfg.ToSimulation()
	if err != nil {
		return err
	}
	store, err := steplog.New(cfg.StepLog)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	entries, err := store.Query(cmd.Context(), steplog.Query{RunID: ledgerRun})
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no steps logged for run %s", ledgerRun)
	}
	// Days come from each entry's logged time; start_date only places
	// entries written before steps carried one.
	ledger := eco.NewMemoryStore()
	if err := ecokpi.Backfill(ledger, simCfg.Start, entries); err != nil {
		return err
	}
	days, err := ecokpi.Days(ledger, ledgerRun, simCfg.Start, entries)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "day\tsolar kWh\timported kWh\texported kWh\tconsumed kWh\tself-sufficiency\tself-consumption\tCO2 avoided g\t")
	for _, d := range days {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.1f%%\t%.1f%%\t%.0f\t\n",
			d.Date.Format("2006-01-02"), d.SolarKWh, d.ImportedKWh, d.ExportedKWh, d.ConsumedKWh,
			d.SelfSufficiency()*100, d.SelfConsumption()*100, d.CO2Avoided(ledgerFactor))
	}
	return tw.Flush()
}
