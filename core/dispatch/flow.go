package dispatch

import "math"

// FlowResult is the immutable outcome of one dispatch step. All quantities
// are energies in kWh.
type FlowResult struct {
	Strategy Strategy `json:"strategy"`
	SolarKWh float64  `json:"solar_kwh"`
	LoadKWh  float64  `json:"load_kwh"`

	SolarToLoad float64 `json:"solar_to_load_kwh"`
	// BatteryChargeInput is the solar consumed by charging, BatteryCharged
	// what the cells actually stored.
	BatteryChargeInput float64 `json:"battery_charge_input_kwh"`
	BatteryCharged     float64 `json:"battery_charged_kwh"`
	// BatteryDrawn is removed from the cells, BatteryDischarged reaches the
	// household.
	BatteryDrawn      float64 `json:"battery_drawn_kwh"`
	BatteryDischarged float64 `json:"battery_discharged_kwh"`
	GridImported      float64 `json:"grid_imported_kwh"`
	GridExported      float64 `json:"grid_exported_kwh"`
	// Curtailed is solar neither consumed, stored nor accepted by the grid.
	Curtailed  float64 `json:"curtailed_kwh"`
	Unmet      float64 `json:"unmet_kwh"`
	LoadServed float64 `json:"load_served_kwh"`
}

// BatteryLoss returns the conversion loss of the step in both directions.
func (f FlowResult) BatteryLoss() float64 {
	return (f.BatteryChargeInput - f.BatteryCharged) + (f.BatteryDrawn - f.BatteryDischarged)
}

// Imbalance returns sources minus sinks for the step. It is zero up to
// floating point error when energy is conserved.
func (f FlowResult) Imbalance() float64 {
	sources := f.SolarKWh + f.BatteryDrawn + f.GridImported
	sinks := f.LoadServed + f.BatteryCharged + f.GridExported + f.BatteryLoss() + f.Curtailed
	return sources - sinks
}

// Balanced reports whether |Imbalance| is within tol.
func (f FlowResult) Balanced(tol float64) bool { return math.Abs(f.Imbalance()) <= tol }
