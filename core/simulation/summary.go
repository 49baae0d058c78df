package simulation

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/greengrid/core/dispatch"
	"github.com/kilianp07/greengrid/core/metrics"
	"github.com/kilianp07/greengrid/core/model"
)

// Summary aggregates the counters and KPIs of a run.
type Summary struct {
	RunID     string            `json:"run_id"`
	Strategy  dispatch.Strategy `json:"strategy"`
	Season    string            `json:"season"`
	Seed      int64             `json:"seed"`
	Days      int               `json:"days"`
	Steps     int               `json:"steps"`
	StepHours float64           `json:"step_hours"`

	GeneratedKWh   float64 `json:"generated_kwh"`
	ClippedKWh     float64 `json:"clipped_kwh"`
	CurtailedKWh   float64 `json:"curtailed_kwh"`
	ConsumedKWh    float64 `json:"consumed_kwh"`
	UnmetKWh       float64 `json:"unmet_kwh"`
	UnmetEvents    int     `json:"unmet_events"`
	ChargedKWh     float64 `json:"charged_kwh"`
	DischargedKWh  float64 `json:"discharged_kwh"`
	BatteryLossKWh float64 `json:"battery_loss_kwh"`
	ImportedKWh    float64 `json:"imported_kwh"`
	ExportedKWh    float64 `json:"exported_kwh"`
	ImportCost     float64 `json:"import_cost"`
	ExportRevenue  float64 `json:"export_revenue"`
	NetCost        float64 `json:"net_cost"`

	FinalSOCPercent  float64 `json:"final_soc_percent"`
	MeanSOCPercent   float64 `json:"mean_soc_percent"`
	SOCStdDev        float64 `json:"soc_stddev"`
	MinSOCPercent    float64 `json:"min_soc_percent"`
	ChargeCycles     int     `json:"charge_cycles"`
	DischargeCycles  int     `json:"discharge_cycles"`
	PeakDemandKW     float64 `json:"peak_demand_kw"`
	AverageDemandKW  float64 `json:"average_demand_kw"`
	P95DemandKW      float64 `json:"p95_demand_kw"`
	MeanCloud        float64 `json:"mean_cloud_coverage"`
	InverterFailures int     `json:"inverter_failures"`
	DowntimeHours    float64 `json:"downtime_hours"`

	// SelfSufficiency is the share of consumption not imported.
	SelfSufficiency float64 `json:"self_sufficiency"`
	// SelfConsumption is the share of generation not exported.
	SelfConsumption float64 `json:"self_consumption"`

	Components map[string]model.Status `json:"components"`
}

// Summary computes the summary of the steps executed so far.
func (s *Simulation) Summary() Summary {
	sum := Summary{
		RunID:     s.runID,
		Strategy:  s.cfg.Strategy,
		Season:    s.cfg.Season.String(),
		Seed:      s.seed,
		Days:      s.cfg.Days,
		Steps:     len(s.records),
		StepHours: s.cfg.StepHours(),

		GeneratedKWh:   s.solar.TotalGenerated(),
		ClippedKWh:     s.solar.TotalClipped(),
		CurtailedKWh:   s.curtailed,
		ConsumedKWh:    s.load.TotalConsumed(),
		UnmetKWh:       s.load.TotalUnmetLoad(),
		UnmetEvents:    s.load.UnmetEvents(),
		ChargedKWh:     s.battery.TotalCharged(),
		DischargedKWh:  s.battery.TotalDischarged(),
		BatteryLossKWh: s.batteryLoss,
		ImportedKWh:    s.grid.TotalImported(),
		ExportedKWh:    s.grid.TotalExported(),
		ImportCost:     s.grid.TotalCost(),
		ExportRevenue:  s.grid.TotalRevenue(),
		NetCost:        s.grid.NetCost(),

		FinalSOCPercent:  s.battery.SOC(),
		MinSOCPercent:    s.battery.SOC(),
		ChargeCycles:     s.battery.ChargeCycles(),
		DischargeCycles:  s.battery.DischargeCycles(),
		PeakDemandKW:     s.load.PeakDemand(),
		AverageDemandKW:  s.load.AverageDemand(),
		InverterFailures: s.inverter.TotalFailures(),
		DowntimeHours:    s.inverter.TotalDowntime(),

		Components: s.Statuses(),
	}
	if sum.ConsumedKWh > 0 {
		sum.SelfSufficiency = clamp01(1 - sum.ImportedKWh/sum.ConsumedKWh)
	}
	if sum.GeneratedKWh > 0 {
		sum.SelfConsumption = clamp01(1 - sum.ExportedKWh/sum.GeneratedKWh)
	}
	if len(s.records) == 0 {
		return sum
	}

	soc := make([]float64, len(s.records))
	demand := make([]float64, len(s.records))
	cloud := make([]float64, len(s.records))
	for i, r := range s.records {
		soc[i] = r.BatterySOCPercent
		demand[i] = r.LoadDemandKW
		cloud[i] = r.CloudCoverage
	}
	sum.MeanSOCPercent, sum.SOCStdDev = stat.MeanStdDev(soc, nil)
	if len(soc) < 2 {
		sum.SOCStdDev = 0
	}
	sum.MinSOCPercent = floats.Min(soc)
	sum.MeanCloud = stat.Mean(cloud, nil)
	sort.Float64s(demand)
	sum.P95DemandKW = stat.Quantile(0.95, stat.Empirical, demand, nil)
	return sum
}

// Event converts the summary to the metrics representation stamped with t.
func (s Summary) Event(t time.Time) metrics.SummaryEvent {
	season, _ := model.ParseSeason(s.Season)
	return metrics.SummaryEvent{
		RunID:            s.RunID,
		Strategy:         s.Strategy,
		Season:           season,
		Days:             s.Days,
		Steps:            s.Steps,
		GeneratedKWh:     s.GeneratedKWh,
		ClippedKWh:       s.ClippedKWh,
		ConsumedKWh:      s.ConsumedKWh,
		UnmetKWh:         s.UnmetKWh,
		ImportedKWh:      s.ImportedKWh,
		ExportedKWh:      s.ExportedKWh,
		NetCost:          s.NetCost,
		FinalSOCPercent:  s.FinalSOCPercent,
		MeanSOCPercent:   s.MeanSOCPercent,
		InverterFailures: s.InverterFailures,
		DowntimeHours:    s.DowntimeHours,
		SelfSufficiency:  s.SelfSufficiency,
		SelfConsumption:  s.SelfConsumption,
		Time:             t,
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
