// Package app wires the configuration to a simulation and its observers.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kilianp07/greengrid/config"
	"github.com/kilianp07/greengrid/core/dispatch"
	"github.com/kilianp07/greengrid/core/events"
	coremetrics "github.com/kilianp07/greengrid/core/metrics"
	"github.com/kilianp07/greengrid/core/model"
	"github.com/kilianp07/greengrid/core/simulation"
	"github.com/kilianp07/greengrid/core/steplog"
	"github.com/kilianp07/greengrid/infra/logger"
	"github.com/kilianp07/greengrid/infra/metrics"
	"github.com/kilianp07/greengrid/infra/mqtt"
	"github.com/kilianp07/greengrid/internal/eventbus"
	"github.com/kilianp07/greengrid/pkg/export"
)

// busBuffer holds the events queued for the collector while a slow sink
// catches up.
const busBuffer = 4096

// Service runs simulations with the sinks and stores described by the
// configuration.
type Service struct {
	cfg     *config.Config
	simCfg  simulation.Config
	sink    coremetrics.MetricsSink
	store   steplog.LogStore
	log     logger.Logger
	stopSrv context.CancelFunc
}

// Result holds the outcome of one run.
type Result struct {
	Summary simulation.Summary
	Records []model.StepRecord
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	simCfg, err := cfg.ToSimulation()
	if err != nil {
		return nil, err
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sinks: %w", err)
	}
	if cfg.MQTT.Broker != "" {
		pub, err := mqtt.NewPublisher(cfg.MQTT)
		if err != nil {
			closeSink(sink)
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		sink = coremetrics.NewMultiSink(sink, pub)
	}
	store, err := steplog.New(cfg.StepLog)
	if err != nil {
		closeSink(sink)
		return nil, fmt.Errorf("step log: %w", err)
	}
	svc := &Service{cfg: cfg, simCfg: simCfg, sink: sink, store: store, log: logg}
	if addr := cfg.Metrics.PrometheusAddr; addr != "" {
		ctx, cancel := context.WithCancel(context.Background())
		svc.stopSrv = cancel
		go func() {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				logg.Errorf("prom server: %v", err)
			}
		}()
	}
	return svc, nil
}

// SimulationConfig returns the run configuration derived from the file.
func (s *Service) SimulationConfig() simulation.Config { return s.simCfg }

// Run executes one simulation with the configured strategy and writes the
// configured output files.
func (s *Service) Run(ctx context.Context) (Result, error) {
	res, err := s.run(ctx, s.simCfg)
	if err != nil {
		return res, err
	}
	if err := s.writeOutputs(res); err != nil {
		return res, err
	}
	return res, nil
}

// Compare runs the same configuration and seed once per strategy.
func (s *Service) Compare(ctx context.Context, strategies []dispatch.Strategy) ([]simulation.Summary, error) {
	base := s.simCfg
	if base.Seed == 0 {
		base.Seed = time.Now().UnixNano()
	}
	sums := make([]simulation.Summary, 0, len(strategies))
	for _, st := range strategies {
		c := base
		c.Strategy = st
		res, err := s.run(ctx, c)
		if err != nil {
			return sums, fmt.Errorf("%s: %w", st, err)
		}
		sums = append(sums, res.Summary)
	}
	return sums, nil
}

func (s *Service) run(ctx context.Context, c simulation.Config) (Result, error) {
	bus := eventbus.New[events.Event](busBuffer)
	sim, err := simulation.New(c,
		simulation.WithLogger(logger.New("simulation")),
		simulation.WithSink(s.sink),
		simulation.WithBus(bus),
		simulation.WithStepLog(s.store),
	)
	if err != nil {
		return Result{}, err
	}
	done := metrics.StartEventCollector(context.WithoutCancel(ctx), bus, s.sink, sim.RunID(), c.Start)
	sum, runErr := sim.Run(ctx)
	bus.Close()
	<-done
	if n := bus.Dropped(); n > 0 {
		s.log.Warnf("%d incidents dropped by the event bus", n)
	}
	return Result{Summary: sum, Records: sim.Records()}, runErr
}

func (s *Service) writeOutputs(res Result) error {
	if path := s.cfg.Output.CSV; path != "" {
		if err := writeFile(path, func(f *os.File) error { return export.WriteCSV(f, res.Records) }); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		s.log.Infof("step log written to %s", path)
	}
	if path := s.cfg.Output.JSON; path != "" {
		if err := writeFile(path, func(f *os.File) error { return export.WriteJSON(f, res.Summary, res.Records) }); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
		s.log.Infof("report written to %s", path)
	}
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.stopSrv != nil {
		s.stopSrv()
	}
	var errs []error
	if err := closeSink(s.sink); err != nil {
		errs = append(errs, err)
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func closeSink(sink coremetrics.MetricsSink) error {
	if c, ok := sink.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
