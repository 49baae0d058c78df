package components

import (
	"math"

	"github.com/kilianp07/greengrid/core/model"
)

// SolarConfig describes the array and its daylight window.
type SolarConfig struct {
	PeakPowerKW   float64 `json:"peak_power_kw"`
	SunriseHour   float64 `json:"sunrise_hour"`
	DaylightHours float64 `json:"daylight_hours"`
}

// DefaultSolarConfig returns a 5 kW array lit from 06:00 to 18:00.
func DefaultSolarConfig() SolarConfig {
	return SolarConfig{PeakPowerKW: 5.0, SunriseHour: 6, DaylightHours: 12}
}

// Validate checks the array parameters.
func (c SolarConfig) Validate() error {
	switch {
	case c.PeakPowerKW < 0:
		return invalid("solar peak_power_kw must not be negative, got %v", c.PeakPowerKW)
	case c.SunriseHour < 0 || c.SunriseHour >= 24:
		return invalid("solar sunrise_hour must lie in [0,24), got %v", c.SunriseHour)
	case c.DaylightHours <= 0 || c.DaylightHours > 24:
		return invalid("solar daylight_hours must lie in (0,24], got %v", c.DaylightHours)
	}
	return nil
}

// SolarPanel produces power along a half-sine daylight curve attenuated by
// cloud coverage.
type SolarPanel struct {
	cfg SolarConfig

	totalGenerated float64
	totalClipped   float64
}

// NewSolarPanel validates cfg and returns a panel with zeroed counters.
func NewSolarPanel(cfg SolarConfig) (*SolarPanel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &SolarPanel{cfg: cfg}, nil
}

// Generate returns the raw output in kW at hour (in [0,24)) under the given
// cloud coverage (in [0,1]). Output is zero outside the daylight window and
// reaches the peak power in the middle of it under a clear sky.
func (s *SolarPanel) Generate(hour, cloudCoverage float64) float64 {
	phase := math.Mod(hour-s.cfg.SunriseHour+24, 24)
	if phase > s.cfg.DaylightHours {
		return 0
	}
	raw := math.Max(s.cfg.PeakPowerKW*math.Sin(phase/s.cfg.DaylightHours*math.Pi), 0)
	cloud := math.Min(math.Max(cloudCoverage, 0), 1)
	return raw * (1 - cloud)
}

// GenerateEnergy returns the power delivered through the inverter in kW.
//
// Nothing is produced while the inverter is down. Otherwise the raw output is
// clipped to limitKW. Generated and clipped energy (power times stepHours)
// are accumulated here and nowhere else.
func (s *SolarPanel) GenerateEnergy(hour, cloudCoverage float64, inverterOperational bool, limitKW, stepHours float64) float64 {
	if !inverterOperational {
		return 0
	}
	raw := s.Generate(hour, cloudCoverage)
	out := math.Min(raw, limitKW)
	if clipped := raw - out; clipped > 0 {
		s.totalClipped += clipped * stepHours
	}
	s.totalGenerated += out * stepHours
	return out
}

func (s *SolarPanel) PeakPowerKW() float64    { return s.cfg.PeakPowerKW }
func (s *SolarPanel) TotalGenerated() float64 { return s.totalGenerated }
func (s *SolarPanel) TotalClipped() float64   { return s.totalClipped }

// Status returns a rounded snapshot of the panel counters.
func (s *SolarPanel) Status() model.Status {
	return model.Status{
		"peak_power_kw":       s.cfg.PeakPowerKW,
		"total_generated_kwh": model.Round(s.totalGenerated, 2),
		"total_clipped_kwh":   model.Round(s.totalClipped, 2),
	}
}
