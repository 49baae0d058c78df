package scenarios

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/greengrid/core/components"
	"github.com/kilianp07/greengrid/core/dispatch"
	coremetrics "github.com/kilianp07/greengrid/core/metrics"
	"github.com/kilianp07/greengrid/core/model"
	"github.com/kilianp07/greengrid/core/random"
	"github.com/kilianp07/greengrid/infra/metrics"
)

// RunScenario builds a fresh battery, grid and engine for sc, dispatches
// every step in order and checks the expected flows. Every step is also
// recorded on a Prometheus sink whose flow counters must match the routed
// totals.
func RunScenario(t *testing.T, sc *Scenario) {
	t.Helper()
	strategy, err := dispatch.ParseStrategy(sc.Strategy)
	require.NoError(t, err)
	battery, err := components.NewBattery(sc.Battery.ToConfig())
	require.NoError(t, err)
	grid, err := components.NewGrid(sc.Grid.ToConfig(), sc.StepHours)
	require.NoError(t, err)
	load, err := components.NewLoad(components.DefaultLoadConfig(), random.New(1))
	require.NoError(t, err)
	engine, err := dispatch.NewEngine(strategy, battery, grid, load)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	var exported, imported float64
	start := time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC)
	for i, st := range sc.Steps {
		res := engine.Dispatch(st.SolarKWh, st.LoadKWh)
		assert.Truef(t, res.Balanced(1e-9), "step %d: imbalance %g", i, res.Imbalance())

		exp := st.Expected
		check := func(name string, want *float64, got float64) {
			if want != nil {
				assert.InDeltaf(t, *want, got, sc.Tolerance, "step %d: %s", i, name)
			}
		}
		check("solar_to_load", exp.SolarToLoad, res.SolarToLoad)
		check("battery_charged", exp.BatteryCharged, res.BatteryCharged)
		check("battery_discharged", exp.BatteryDischarged, res.BatteryDischarged)
		check("grid_imported", exp.GridImported, res.GridImported)
		check("grid_exported", exp.GridExported, res.GridExported)
		check("curtailed", exp.Curtailed, res.Curtailed)
		check("unmet", exp.Unmet, res.Unmet)
		check("soc", exp.SOC, battery.SOC())

		exported += res.GridExported
		imported += res.GridImported
		hours := float64(i) * sc.StepHours
		rec := model.StepRecord{
			TimestampHours:      hours,
			Day:                 int(hours/24) + 1,
			HourOfDay:           int(hours) % 24,
			LoadDemandKW:        st.LoadKWh / sc.StepHours,
			BatterySOCPercent:   battery.SOC(),
			BatteryEnergyKWh:    battery.CurrentEnergy(),
			GridImportKWh:       grid.TotalImported(),
			GridExportKWh:       grid.TotalExported(),
			InverterOperational: true,
		}
		err := sink.RecordStep(coremetrics.StepEvent{
			RunID:    sc.Name,
			Strategy: strategy,
			Record:   rec,
			Flow:     res,
			Time:     start.Add(time.Duration(hours * float64(time.Hour))),
		})
		require.NoError(t, err)
	}

	assert.InDelta(t, grid.TotalExported(), exported, 1e-9)
	assert.InDelta(t, grid.TotalImported(), imported, 1e-9)
	assert.InDelta(t, exported, flowTotal(t, reg, strategy, "grid_exported"), 1e-9)
	assert.InDelta(t, imported, flowTotal(t, reg, strategy, "grid_imported"), 1e-9)
}

// flowTotal reads the energy flow counter of flow from reg. Flows that never
// carried energy have no series and read as zero.
func flowTotal(t *testing.T, reg *prometheus.Registry, strategy dispatch.Strategy, flow string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "greengrid_energy_flow_kwh_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["strategy"] == strategy.String() && labels["flow"] == flow {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}
