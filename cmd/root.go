// Package cmd implements the greengrid command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/greengrid/app"
	"github.com/kilianp07/greengrid/config"
	"github.com/kilianp07/greengrid/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "greengrid",
	Short:         "Household microgrid dispatch simulator",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// overrides are the run flags shared by run and compare.
type overrides struct {
	strategy string
	seed     int64
	days     int
	season   string
	verbose  bool
}

func (o *overrides) register(cmd *cobra.Command, withStrategy bool) {
	if withStrategy {
		cmd.Flags().StringVarP(&o.strategy, "strategy", "s", "", "dispatch strategy (LOAD_PRIORITY, CHARGE_PRIORITY, PRODUCE_PRIORITY)")
	}
	cmd.Flags().Int64Var(&o.seed, "seed", 0, "random seed, 0 picks one from the clock")
	cmd.Flags().IntVarP(&o.days, "days", "d", 0, "number of simulated days")
	cmd.Flags().StringVar(&o.season, "season", "", "season (spring, summer, fall, winter)")
	cmd.Flags().BoolVarP(&o.verbose, "verbose", "v", false, "log a daily component status")
}

func (o *overrides) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("strategy") {
		cfg.Strategy = o.strategy
	}
	if flags.Changed("seed") {
		cfg.Simulation.Seed = o.seed
	}
	if flags.Changed("days") {
		cfg.Simulation.Days = o.days
	}
	if flags.Changed("season") {
		cfg.Simulation.Season = o.season
	}
	if flags.Changed("verbose") {
		cfg.Simulation.Verbose = o.verbose
	}
}

// withService loads the configuration, lets edit adjust it and runs fn with
// a service bound to a signal-aware context.
func withService(cmd *cobra.Command, edit func(*config.Config), fn func(context.Context, *app.Service) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if edit != nil {
		edit(cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	return fn(ctx, svc)
}
