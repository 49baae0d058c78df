package components

import (
	"math"

	"github.com/kilianp07/greengrid/core/model"
)

// GridConfig holds the utility connection limits and tariffs.
type GridConfig struct {
	ExportLimitKW float64 `json:"export_limit_kw"`
	// ImportLimitKW caps the import per step when positive. Zero leaves
	// import unbounded.
	ImportLimitKW float64 `json:"import_limit_kw"`
	ImportCost    float64 `json:"import_cost"`
	ExportRevenue float64 `json:"export_revenue"`
}

// DefaultGridConfig returns an unbounded import with a 20 kW export limit.
func DefaultGridConfig() GridConfig {
	return GridConfig{ExportLimitKW: 20.0, ImportCost: 0.75, ExportRevenue: 0.90}
}

// Validate checks the tariffs and limits.
func (c GridConfig) Validate() error {
	switch {
	case c.ExportLimitKW < 0:
		return invalid("grid export_limit_kw must not be negative, got %v", c.ExportLimitKW)
	case c.ImportLimitKW < 0:
		return invalid("grid import_limit_kw must not be negative, got %v", c.ImportLimitKW)
	case c.ImportCost < 0 || c.ExportRevenue < 0:
		return invalid("grid prices must not be negative, got import %v export %v", c.ImportCost, c.ExportRevenue)
	}
	return nil
}

// Grid meters the energy exchanged with the utility.
type Grid struct {
	cfg       GridConfig
	stepHours float64

	totalImported float64
	totalExported float64
	totalCost     float64
	totalRevenue  float64
}

// NewGrid validates cfg and returns a grid connection whose power limits are
// converted to energy per step of stepHours.
func NewGrid(cfg GridConfig, stepHours float64) (*Grid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if stepHours <= 0 {
		return nil, invalid("grid step length must be positive, got %v", stepHours)
	}
	return &Grid{cfg: cfg, stepHours: stepHours}, nil
}

// ExportCapKWh returns the largest energy that can be exported in one step.
func (g *Grid) ExportCapKWh() float64 { return g.cfg.ExportLimitKW * g.stepHours }

// Import buys kWh from the utility and returns the energy delivered. Without
// an import limit every positive request is fully satisfied.
func (g *Grid) Import(kWh float64) float64 {
	if kWh <= 0 {
		return 0
	}
	got := kWh
	if g.cfg.ImportLimitKW > 0 {
		got = math.Min(kWh, g.cfg.ImportLimitKW*g.stepHours)
	}
	g.totalImported += got
	g.totalCost += got * g.cfg.ImportCost
	return got
}

// Export sells up to the export cap and returns the energy accepted. The
// rest is curtailed.
func (g *Grid) Export(kWh float64) float64 {
	if kWh <= 0 {
		return 0
	}
	got := math.Min(kWh, g.ExportCapKWh())
	if got <= 0 {
		return 0
	}
	g.totalExported += got
	g.totalRevenue += got * g.cfg.ExportRevenue
	return got
}

// NetCost returns cost minus revenue. A negative value is a net profit.
func (g *Grid) NetCost() float64 { return g.totalCost - g.totalRevenue }

func (g *Grid) TotalImported() float64 { return g.totalImported }
func (g *Grid) TotalExported() float64 { return g.totalExported }
func (g *Grid) TotalCost() float64     { return g.totalCost }
func (g *Grid) TotalRevenue() float64  { return g.totalRevenue }

// Status returns a rounded snapshot of the metering counters.
func (g *Grid) Status() model.Status {
	return model.Status{
		"export_limit_kw":    g.cfg.ExportLimitKW,
		"total_imported_kwh": model.Round(g.totalImported, 2),
		"total_exported_kwh": model.Round(g.totalExported, 2),
		"total_cost":         model.Round(g.totalCost, 2),
		"total_revenue":      model.Round(g.totalRevenue, 2),
		"net_cost":           model.Round(g.NetCost(), 2),
	}
}
