// Package eco aggregates the daily energy ledger of a run and derives the
// ecological KPIs of the household: self-sufficiency, self-consumption and
// CO2 avoided by local generation.
package eco

import "time"

// Record aggregates the energy flows of one run and day.
type Record struct {
	RunID       string
	Date        time.Time
	SolarKWh    float64
	ImportedKWh float64
	ExportedKWh float64
	ConsumedKWh float64
}

// CO2Avoided returns the grams of CO2 avoided by solar energy that displaced
// grid energy, using factor grams per kWh.
func (r Record) CO2Avoided(factor float64) float64 {
	return r.SolarKWh * factor
}

// SelfSufficiency returns the share of consumption not imported from the
// grid. A day without consumption is fully self-sufficient.
func (r Record) SelfSufficiency() float64 {
	if r.ConsumedKWh <= 0 {
		return 1
	}
	v := 1 - r.ImportedKWh/r.ConsumedKWh
	if v < 0 {
		return 0
	}
	return v
}

// SelfConsumption returns the share of solar generation used on site rather
// than exported. A day without generation reports zero.
func (r Record) SelfConsumption() float64 {
	if r.SolarKWh <= 0 {
		return 0
	}
	v := 1 - r.ExportedKWh/r.SolarKWh
	if v < 0 {
		return 0
	}
	return v
}
