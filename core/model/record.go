package model

import "math"

// StepRecord is the per-step log line produced by the simulation driver.
// Grid import and export figures are cumulative since the start of the run.
type StepRecord struct {
	TimestampHours      float64 `json:"timestamp_hours"`
	Day                 int     `json:"day"`
	HourOfDay           int     `json:"hour_of_day"`
	SolarGenerationKW   float64 `json:"solar_generation_kw"`
	LoadDemandKW        float64 `json:"load_demand_kw"`
	BatterySOCPercent   float64 `json:"battery_soc_percent"`
	BatteryEnergyKWh    float64 `json:"battery_energy_kwh"`
	GridImportKWh       float64 `json:"grid_import_kwh"`
	GridExportKWh       float64 `json:"grid_export_kwh"`
	CloudCoverage       float64 `json:"cloud_coverage"`
	InverterOperational bool    `json:"inverter_operational"`
}

// Status is a read-only snapshot of a component's state keyed by field name.
type Status map[string]any

// Round returns v rounded to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
