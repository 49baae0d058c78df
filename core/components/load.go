package components

import (
	"math"

	"github.com/kilianp07/greengrid/core/model"
	"github.com/kilianp07/greengrid/core/random"
)

// LoadConfig describes the household demand profile.
type LoadConfig struct {
	BaseLoadKW     float64 `json:"base_load_kw"`
	PeakLoadMaxKW  float64 `json:"peak_load_max_kw"`
	PeakHoursStart int     `json:"peak_hours_start"`
	PeakHoursEnd   int     `json:"peak_hours_end"`
	Variability    float64 `json:"variability"`
}

// DefaultLoadConfig returns a 0.5 kW base load with an evening peak from
// 18:00 to 21:59.
func DefaultLoadConfig() LoadConfig {
	return LoadConfig{
		BaseLoadKW:     0.5,
		PeakLoadMaxKW:  3.0,
		PeakHoursStart: 18,
		PeakHoursEnd:   21,
		Variability:    0.3,
	}
}

// Validate checks the demand profile.
func (c LoadConfig) Validate() error {
	switch {
	case c.BaseLoadKW < 0:
		return invalid("load base_load_kw must not be negative, got %v", c.BaseLoadKW)
	case c.PeakLoadMaxKW < 0:
		return invalid("load peak_load_max_kw must not be negative, got %v", c.PeakLoadMaxKW)
	case c.PeakHoursStart < 0 || c.PeakHoursStart > 23 || c.PeakHoursEnd < 0 || c.PeakHoursEnd > 23:
		return invalid("load peak hours must lie in [0,23], got %d-%d", c.PeakHoursStart, c.PeakHoursEnd)
	case c.Variability < 0:
		return invalid("load variability must not be negative, got %v", c.Variability)
	}
	return nil
}

// Load draws a noisy household demand and tracks how much of it was served.
type Load struct {
	cfg LoadConfig
	rng random.Source

	totalConsumed   float64
	peakDemand      float64
	unmetEvents     int
	totalUnmetLoad  float64
	demandSamples   int
	totalDemandedKW float64
}

// NewLoad validates cfg and returns a load drawing its noise from rng.
func NewLoad(cfg LoadConfig, rng random.Source) (*Load, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, invalid("load requires a random source")
	}
	return &Load{cfg: cfg, rng: rng}, nil
}

// InPeak reports whether hourOfDay falls inside the inclusive peak window. A
// window whose start is after its end wraps around midnight.
func (l *Load) InPeak(hourOfDay int) bool {
	s, e := l.cfg.PeakHoursStart, l.cfg.PeakHoursEnd
	if s <= e {
		return hourOfDay >= s && hourOfDay <= e
	}
	return hourOfDay >= s || hourOfDay <= e
}

// Demand returns the household demand in kW for hourOfDay: the base load,
// a uniform jitter up to base*variability and, inside the peak window, a
// uniform peak component up to peak_load_max_kw.
func (l *Load) Demand(hourOfDay int) float64 {
	d := l.cfg.BaseLoadKW + random.Uniform(l.rng, 0, l.cfg.BaseLoadKW*l.cfg.Variability)
	if l.InPeak(hourOfDay) {
		d += random.Uniform(l.rng, 0, l.cfg.PeakLoadMaxKW)
	}
	l.peakDemand = math.Max(l.peakDemand, d)
	l.demandSamples++
	l.totalDemandedKW += d
	return d
}

// Consume records energy actually served to the household.
func (l *Load) Consume(kWh float64) {
	if kWh > 0 {
		l.totalConsumed += kWh
	}
}

// RecordUnmet records demand that no source could serve.
func (l *Load) RecordUnmet(kWh float64) {
	if kWh <= 0 {
		return
	}
	l.unmetEvents++
	l.totalUnmetLoad += kWh
}

func (l *Load) TotalConsumed() float64  { return l.totalConsumed }
func (l *Load) PeakDemand() float64     { return l.peakDemand }
func (l *Load) UnmetEvents() int        { return l.unmetEvents }
func (l *Load) TotalUnmetLoad() float64 { return l.totalUnmetLoad }

// AverageDemand returns the mean of every demand drawn so far in kW.
func (l *Load) AverageDemand() float64 {
	if l.demandSamples == 0 {
		return 0
	}
	return l.totalDemandedKW / float64(l.demandSamples)
}

// Status returns a rounded snapshot of the consumption counters.
func (l *Load) Status() model.Status {
	return model.Status{
		"base_load_kw":       l.cfg.BaseLoadKW,
		"total_consumed_kwh": model.Round(l.totalConsumed, 2),
		"peak_demand_kw":     model.Round(l.peakDemand, 2),
		"average_demand_kw":  model.Round(l.AverageDemand(), 2),
		"unmet_load_events":  l.unmetEvents,
		"total_unmet_kwh":    model.Round(l.totalUnmetLoad, 2),
	}
}
