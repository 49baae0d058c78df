// Package config loads the simulator configuration from a YAML or JSON file
// with environment overrides on top of built-in defaults.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/greengrid/core/components"
	"github.com/kilianp07/greengrid/core/dispatch"
	"github.com/kilianp07/greengrid/core/metrics"
	"github.com/kilianp07/greengrid/core/model"
	"github.com/kilianp07/greengrid/core/simulation"
	"github.com/kilianp07/greengrid/core/steplog"
	"github.com/kilianp07/greengrid/core/weather"
	"github.com/kilianp07/greengrid/infra/mqtt"
)

// EnvPrefix marks environment variables overriding file values.
// GREENGRID_SIMULATION__DAYS=7 sets simulation.days.
const EnvPrefix = "GREENGRID_"

const dateLayout = "2006-01-02"

type Config struct {
	Battery    components.BatteryConfig  `json:"battery"`
	Solar      components.SolarConfig    `json:"solar"`
	Inverter   components.InverterConfig `json:"inverter"`
	Load       components.LoadConfig     `json:"load"`
	Grid       components.GridConfig     `json:"grid"`
	Weather    weather.Config            `json:"weather"`
	Strategy   string                    `json:"strategy"`
	Simulation SimulationConfig          `json:"simulation"`
	Metrics    metrics.Config            `json:"metrics"`
	StepLog    steplog.Config            `json:"steplog"`
	Output     OutputConfig              `json:"output"`
	MQTT       mqtt.Config               `json:"mqtt"`
}

// SimulationConfig holds the run parameters.
type SimulationConfig struct {
	Days            int    `json:"days"`
	TimeStepMinutes int    `json:"time_step_minutes"`
	Season          string `json:"season"`
	Seed            int64  `json:"seed"`
	Verbose         bool   `json:"verbose"`
	StatusHour      int    `json:"status_hour"`
	// StartDate (YYYY-MM-DD, UTC) dates the metrics of the first step.
	StartDate string `json:"start_date"`
}

// Default returns the configuration used when a key is absent.
func Default() *Config {
	sim := simulation.DefaultConfig()
	return &Config{
		Battery:  sim.Battery,
		Solar:    sim.Solar,
		Inverter: sim.Inverter,
		Load:     sim.Load,
		Grid:     sim.Grid,
		Weather:  sim.Weather,
		Strategy: sim.Strategy.String(),
		Simulation: SimulationConfig{
			Days:            sim.Days,
			TimeStepMinutes: sim.TimeStepMinutes,
			Season:          sim.Season.String(),
			StatusHour:      sim.StatusHour,
			StartDate:       sim.Start.Format(dateLayout),
		},
	}
}

// Load reads the file at path, applies GREENGRID_ environment overrides on
// top of it and validates the result. Keys missing from both keep their
// default value. An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.StepLog.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if _, err := c.ToSimulation(); err != nil {
		return err
	}
	if err := c.StepLog.Validate(); err != nil {
		return err
	}
	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if c.MQTT.Broker != "" {
		if err := c.MQTT.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ToSimulation builds and validates the simulation configuration.
func (c *Config) ToSimulation() (simulation.Config, error) {
	strategy, err := dispatch.ParseStrategy(c.Strategy)
	if err != nil {
		return simulation.Config{}, err
	}
	season, err := model.ParseSeason(c.Simulation.Season)
	if err != nil {
		return simulation.Config{}, err
	}
	start := simulation.DefaultConfig().Start
	if c.Simulation.StartDate != "" {
		if start, err = time.Parse(dateLayout, c.Simulation.StartDate); err != nil {
			return simulation.Config{}, fmt.Errorf("%w: simulation start_date: %v", components.ErrInvalidConfig, err)
		}
	}
	sc := simulation.Config{
		Battery:         c.Battery,
		Solar:           c.Solar,
		Inverter:        c.Inverter,
		Load:            c.Load,
		Grid:            c.Grid,
		Weather:         c.Weather,
		Strategy:        strategy,
		Season:          season,
		Days:            c.Simulation.Days,
		TimeStepMinutes: c.Simulation.TimeStepMinutes,
		Seed:            c.Simulation.Seed,
		Verbose:         c.Simulation.Verbose,
		StatusHour:      c.Simulation.StatusHour,
		Start:           start,
	}
	if err := sc.Validate(); err != nil {
		return simulation.Config{}, err
	}
	return sc, nil
}
