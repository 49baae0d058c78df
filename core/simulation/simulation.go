// Package simulation drives a microgrid through a fixed number of time steps,
// collecting one StepRecord per step and a Summary at the end of the run.
package simulation

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/greengrid/core/components"
	"github.com/kilianp07/greengrid/core/dispatch"
	"github.com/kilianp07/greengrid/core/events"
	"github.com/kilianp07/greengrid/core/logger"
	"github.com/kilianp07/greengrid/core/metrics"
	"github.com/kilianp07/greengrid/core/model"
	"github.com/kilianp07/greengrid/core/random"
	"github.com/kilianp07/greengrid/core/steplog"
	"github.com/kilianp07/greengrid/core/weather"
	"github.com/kilianp07/greengrid/internal/eventbus"
)

// Simulation owns the components of one microgrid and advances them step by
// step. It is not safe for concurrent use.
type Simulation struct {
	cfg   Config
	runID string
	seed  int64
	rng   random.Source

	battery  *components.Battery
	inverter *components.Inverter
	solar    *components.SolarPanel
	load     *components.Load
	grid     *components.Grid
	engine   *dispatch.Engine
	weather  *weather.Model

	log   logger.Logger
	sink  metrics.MetricsSink
	bus   eventbus.EventBus[events.Event]
	store steplog.LogStore

	step    int
	day     int
	sky     weather.Sky
	records []model.StepRecord

	curtailed   float64
	batteryLoss float64
}

// New validates cfg and builds every component. All randomness is drawn from
// a single source seeded with cfg.Seed unless WithRandom is given.
func New(cfg Config, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Simulation{
		cfg:  cfg,
		log:  logger.Nop{},
		sink: metrics.NopSink{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.seed = cfg.Seed
	if s.rng == nil {
		if s.seed == 0 {
			s.seed = time.Now().UnixNano()
		}
		s.rng = random.New(s.seed)
	}
	if s.runID == "" {
		s.runID = uuid.NewString()
	}

	var err error
	if s.battery, err = components.NewBattery(cfg.Battery); err != nil {
		return nil, fmt.Errorf("battery: %w", err)
	}
	if s.inverter, err = components.NewInverter(cfg.Inverter, s.rng); err != nil {
		return nil, fmt.Errorf("inverter: %w", err)
	}
	if s.solar, err = components.NewSolarPanel(cfg.Solar); err != nil {
		return nil, fmt.Errorf("solar: %w", err)
	}
	if s.load, err = components.NewLoad(cfg.Load, s.rng); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	if s.grid, err = components.NewGrid(cfg.Grid, cfg.StepHours()); err != nil {
		return nil, fmt.Errorf("grid: %w", err)
	}
	if s.weather, err = weather.New(cfg.Weather, cfg.Season, s.rng); err != nil {
		return nil, fmt.Errorf("weather: %w", err)
	}
	if s.engine, err = dispatch.NewEngine(cfg.Strategy, s.battery, s.grid, s.load); err != nil {
		return nil, fmt.Errorf("dispatch: %w", err)
	}
	s.records = make([]model.StepRecord, 0, cfg.Steps())
	return s, nil
}

// RunID returns the identifier attached to the run's metrics.
func (s *Simulation) RunID() string { return s.runID }

// Seed returns the seed of the random source.
func (s *Simulation) Seed() int64 { return s.seed }

// Config returns the run configuration.
func (s *Simulation) Config() Config { return s.cfg }

// Done reports whether every step has been executed.
func (s *Simulation) Done() bool { return s.step >= s.cfg.Steps() }

// Records returns the step records produced so far.
func (s *Simulation) Records() []model.StepRecord { return s.records }

// Statuses returns the status snapshot of every component keyed by name.
func (s *Simulation) Statuses() map[string]model.Status {
	return map[string]model.Status{
		"battery":  s.battery.Status(),
		"solar":    s.solar.Status(),
		"inverter": s.inverter.Status(),
		"load":     s.load.Status(),
		"grid":     s.grid.Status(),
	}
}

// Run executes the remaining steps and returns the summary of the run. The
// context is checked between steps; on cancellation the partial summary is
// returned with the context error.
func (s *Simulation) Run(ctx context.Context) (Summary, error) {
	s.log.Infow("simulation started", map[string]any{
		"run_id":   s.runID,
		"strategy": s.cfg.Strategy.String(),
		"season":   s.cfg.Season.String(),
		"days":     s.cfg.Days,
		"steps":    s.cfg.Steps(),
		"seed":     s.seed,
	})
	for !s.Done() {
		if err := ctx.Err(); err != nil {
			s.log.Warnf("simulation interrupted at %s: %v", FormatTime(s.elapsed()), err)
			return s.Summary(), err
		}
		if _, err := s.Step(ctx); err != nil {
			return s.Summary(), err
		}
	}
	sum := s.Summary()
	s.log.Infow("simulation finished", map[string]any{
		"run_id":       s.runID,
		"imported_kwh": model.Round(sum.ImportedKWh, 2),
		"exported_kwh": model.Round(sum.ExportedKWh, 2),
		"net_cost":     model.Round(sum.NetCost, 2),
		"final_soc":    model.Round(sum.FinalSOCPercent, 1),
	})
	if rec, ok := s.sink.(metrics.SummaryRecorder); ok {
		if err := rec.RecordSummary(sum.Event(s.cfg.Start.Add(hoursToDuration(s.elapsed())))); err != nil {
			s.log.Errorf("record summary: %v", err)
		}
	}
	return sum, nil
}

// Step advances the simulation by one time step and returns its record.
// Calling Step after the last step is an error.
func (s *Simulation) Step(ctx context.Context) (model.StepRecord, error) {
	if s.Done() {
		return model.StepRecord{}, fmt.Errorf("simulation finished after %d steps", s.step)
	}
	stepHours := s.cfg.StepHours()
	t := s.elapsed()
	day := int(t/24) + 1
	hour := math.Mod(t, 24)
	hourOfDay := int(hour)

	if day != s.day {
		s.day = day
		s.sky = s.weather.Sample()
		s.publish(events.DayStartedEvent{Day: day, Sky: s.sky.Category.String(), CloudCoverage: s.sky.CloudCoverage})
		s.log.Debugw("day started", map[string]any{
			"day":            day,
			"sky":            s.sky.Category.String(),
			"cloud_coverage": model.Round(s.sky.CloudCoverage, 2),
		})
	}

	switch s.inverter.Update(stepHours) {
	case components.Failed:
		s.publish(events.InverterFailedEvent{TimestampHours: t, DowntimeHours: s.inverter.LastDowntime()})
		s.log.Warnf("inverter failure at %s for %d hours", FormatTime(t), s.inverter.LastDowntime())
	case components.Recovered:
		s.publish(events.InverterRecoveredEvent{TimestampHours: t})
		s.log.Infof("inverter back online at %s", FormatTime(t))
	}

	solarKW := s.solar.GenerateEnergy(hour, s.sky.CloudCoverage, s.inverter.IsOperational(), s.inverter.MaxOutputKW(), stepHours)
	loadKW := s.load.Demand(hourOfDay)
	flow := s.engine.Dispatch(solarKW*stepHours, loadKW*stepHours)

	if flow.Unmet > 0 {
		s.publish(events.UnmetLoadEvent{TimestampHours: t, KWh: flow.Unmet})
		s.log.Warnf("unmet load at %s: %.3f kWh", FormatTime(t), flow.Unmet)
	}
	if flow.Curtailed > 0 {
		s.curtailed += flow.Curtailed
		s.publish(events.CurtailmentEvent{TimestampHours: t, KWh: flow.Curtailed})
		s.log.Debugf("curtailed %.3f kWh at %s", flow.Curtailed, FormatTime(t))
	}
	s.batteryLoss += flow.BatteryLoss()

	rec := model.StepRecord{
		TimestampHours:      t,
		Day:                 day,
		HourOfDay:           hourOfDay,
		SolarGenerationKW:   solarKW,
		LoadDemandKW:        loadKW,
		BatterySOCPercent:   s.battery.SOC(),
		BatteryEnergyKWh:    s.battery.CurrentEnergy(),
		GridImportKWh:       s.grid.TotalImported(),
		GridExportKWh:       s.grid.TotalExported(),
		CloudCoverage:       s.sky.CloudCoverage,
		InverterOperational: s.inverter.IsOperational(),
	}
	s.records = append(s.records, rec)
	s.step++

	at := s.cfg.Start.Add(hoursToDuration(t))
	if err := s.sink.RecordStep(metrics.StepEvent{
		RunID:    s.runID,
		Strategy: s.cfg.Strategy,
		Record:   rec,
		Flow:     flow,
		Time:     at,
	}); err != nil {
		s.log.Errorf("record step: %v", err)
	}
	if s.store != nil {
		entry := steplog.Entry{RunID: s.runID, Strategy: s.cfg.Strategy, StepRecord: rec, Flow: flow, Time: at}
		if err := s.store.Append(ctx, entry); err != nil {
			s.log.Errorf("append step log: %v", err)
		}
	}
	if s.cfg.Verbose && hourOfDay == s.cfg.StatusHour && hour-float64(hourOfDay) < stepHours {
		s.log.Infow("status "+FormatTime(t), map[string]any{
			"soc_percent":  model.Round(rec.BatterySOCPercent, 1),
			"solar_kw":     model.Round(solarKW, 2),
			"load_kw":      model.Round(loadKW, 2),
			"grid_net_kwh": model.Round(rec.GridImportKWh-rec.GridExportKWh, 2),
			"inverter_up":  rec.InverterOperational,
		})
	}
	return rec, nil
}

func (s *Simulation) elapsed() float64 { return float64(s.step) * s.cfg.StepHours() }

func (s *Simulation) publish(ev events.Event) {
	if s.bus != nil {
		s.bus.Publish(ev)
	}
}

func hoursToDuration(h float64) time.Duration {
	return time.Duration(math.Round(h * float64(time.Hour)))
}
