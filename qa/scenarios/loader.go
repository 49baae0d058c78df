// Package scenarios replays scripted dispatch steps described in YAML files
// and checks the routed flows.
package scenarios

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/greengrid/core/components"
)

// DefaultTolerance bounds the difference between an expected and a routed
// energy when the scenario sets none.
const DefaultTolerance = 1e-6

type BatteryDef struct {
	CapacityKWh float64 `yaml:"capacity_kwh"`
	MinSOC      float64 `yaml:"min_soc"`
	MaxSOC      float64 `yaml:"max_soc"`
	Efficiency  float64 `yaml:"efficiency"`
	InitialSOC  float64 `yaml:"initial_soc"`
}

func (b BatteryDef) ToConfig() components.BatteryConfig {
	return components.BatteryConfig{
		Count:       1,
		CapacityKWh: b.CapacityKWh,
		MinSOC:      b.MinSOC,
		MaxSOC:      b.MaxSOC,
		Efficiency:  b.Efficiency,
		InitialSOC:  b.InitialSOC,
	}
}

type GridDef struct {
	ExportLimitKW float64 `yaml:"export_limit_kw"`
	ImportLimitKW float64 `yaml:"import_limit_kw"`
	ImportCost    float64 `yaml:"import_cost"`
	ExportRevenue float64 `yaml:"export_revenue"`
}

func (g GridDef) ToConfig() components.GridConfig {
	return components.GridConfig{
		ExportLimitKW: g.ExportLimitKW,
		ImportLimitKW: g.ImportLimitKW,
		ImportCost:    g.ImportCost,
		ExportRevenue: g.ExportRevenue,
	}
}

// Expected lists the flows checked after a step. Nil fields are not checked.
type Expected struct {
	SolarToLoad       *float64 `yaml:"solar_to_load"`
	BatteryCharged    *float64 `yaml:"battery_charged"`
	BatteryDischarged *float64 `yaml:"battery_discharged"`
	GridImported      *float64 `yaml:"grid_imported"`
	GridExported      *float64 `yaml:"grid_exported"`
	Curtailed         *float64 `yaml:"curtailed"`
	Unmet             *float64 `yaml:"unmet"`
	SOC               *float64 `yaml:"soc"`
}

type StepDef struct {
	SolarKWh float64  `yaml:"solar_kwh"`
	LoadKWh  float64  `yaml:"load_kwh"`
	Expected Expected `yaml:"expected"`
}

type Scenario struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Strategy    string     `yaml:"strategy"`
	StepHours   float64    `yaml:"step_hours"`
	Tolerance   float64    `yaml:"tolerance,omitempty"`
	Battery     BatteryDef `yaml:"battery"`
	Grid        GridDef    `yaml:"grid"`
	Steps       []StepDef  `yaml:"steps"`
}

// Load reads a scenario file. A missing step_hours defaults to one hour.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if sc.StepHours == 0 {
		sc.StepHours = 1
	}
	if sc.Tolerance == 0 {
		sc.Tolerance = DefaultTolerance
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", sc.Name)
	}
	return &sc, nil
}
