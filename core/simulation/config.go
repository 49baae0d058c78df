package simulation

import (
	"fmt"
	"time"

	"github.com/kilianp07/greengrid/core/components"
	"github.com/kilianp07/greengrid/core/dispatch"
	"github.com/kilianp07/greengrid/core/model"
	"github.com/kilianp07/greengrid/core/weather"
)

// Config is the immutable description of a run.
type Config struct {
	Battery  components.BatteryConfig
	Solar    components.SolarConfig
	Inverter components.InverterConfig
	Load     components.LoadConfig
	Grid     components.GridConfig
	Weather  weather.Config

	Strategy        dispatch.Strategy
	Season          model.Season
	Days            int
	TimeStepMinutes int
	// Seed initialises the random source. Zero picks a seed from the clock;
	// the seed actually used is reported in the summary.
	Seed int64
	// Verbose logs a status line once a day at StatusHour.
	Verbose    bool
	StatusHour int
	// Start is the wall-clock instant of the first step, used to timestamp
	// metrics.
	Start time.Time
}

// DefaultConfig returns a 30 day spring run with hourly steps.
func DefaultConfig() Config {
	return Config{
		Battery:         components.DefaultBatteryConfig(),
		Solar:           components.DefaultSolarConfig(),
		Inverter:        components.DefaultInverterConfig(),
		Load:            components.DefaultLoadConfig(),
		Grid:            components.DefaultGridConfig(),
		Weather:         weather.DefaultConfig(),
		Strategy:        dispatch.ChargePriority,
		Season:          model.Spring,
		Days:            30,
		TimeStepMinutes: 60,
		StatusHour:      12,
		Start:           time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC),
	}
}

// StepHours returns the length of one step in hours.
func (c Config) StepHours() float64 { return float64(c.TimeStepMinutes) / 60 }

// Steps returns the number of steps in the run.
func (c Config) Steps() int { return c.Days * 24 * 60 / c.TimeStepMinutes }

// Validate checks the run parameters and every component configuration.
func (c Config) Validate() error {
	switch {
	case c.Days < 1:
		return fmt.Errorf("%w: simulation days must be at least 1, got %d", components.ErrInvalidConfig, c.Days)
	case c.TimeStepMinutes < 1 || c.TimeStepMinutes > 24*60:
		return fmt.Errorf("%w: simulation time_step_minutes must lie in [1,1440], got %d", components.ErrInvalidConfig, c.TimeStepMinutes)
	case (24*60)%c.TimeStepMinutes != 0:
		return fmt.Errorf("%w: simulation time_step_minutes must divide a day, got %d", components.ErrInvalidConfig, c.TimeStepMinutes)
	case c.StatusHour < 0 || c.StatusHour > 23:
		return fmt.Errorf("%w: simulation status_hour must lie in [0,23], got %d", components.ErrInvalidConfig, c.StatusHour)
	case !c.Strategy.Valid():
		return fmt.Errorf("%w: %v", dispatch.ErrUnknownStrategy, c.Strategy)
	}
	if _, err := model.ParseSeason(c.Season.String()); err != nil {
		return err
	}
	checks := []func() error{
		c.Battery.Validate,
		c.Solar.Validate,
		c.Inverter.Validate,
		c.Load.Validate,
		c.Grid.Validate,
		c.Weather.Validate,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}
