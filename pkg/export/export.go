// Package export writes simulation results as CSV or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/kilianp07/greengrid/core/model"
	"github.com/kilianp07/greengrid/core/simulation"
)

// Header lists the step log columns in file order.
var Header = []string{
	"timestamp_hours",
	"day",
	"hour_of_day",
	"solar_generation_kw",
	"load_demand_kw",
	"battery_soc_percent",
	"battery_energy_kwh",
	"grid_import_kwh",
	"grid_export_kwh",
	"cloud_coverage",
	"inverter_operational",
}

// Rounded returns r with power figures rounded to 3 decimals and every other
// quantity to 2.
func Rounded(r model.StepRecord) model.StepRecord {
	r.SolarGenerationKW = model.Round(r.SolarGenerationKW, 3)
	r.LoadDemandKW = model.Round(r.LoadDemandKW, 3)
	r.BatterySOCPercent = model.Round(r.BatterySOCPercent, 2)
	r.BatteryEnergyKWh = model.Round(r.BatteryEnergyKWh, 2)
	r.GridImportKWh = model.Round(r.GridImportKWh, 2)
	r.GridExportKWh = model.Round(r.GridExportKWh, 2)
	r.CloudCoverage = model.Round(r.CloudCoverage, 2)
	return r
}

// WriteCSV writes the step log to w, one rounded record per line.
func WriteCSV(w io.Writer, records []model.StepRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		r = Rounded(r)
		rec := []string{
			formatFloat(r.TimestampHours),
			strconv.Itoa(r.Day),
			strconv.Itoa(r.HourOfDay),
			formatFloat(r.SolarGenerationKW),
			formatFloat(r.LoadDemandKW),
			formatFloat(r.BatterySOCPercent),
			formatFloat(r.BatteryEnergyKWh),
			formatFloat(r.GridImportKWh),
			formatFloat(r.GridExportKWh),
			formatFloat(r.CloudCoverage),
			strconv.FormatBool(r.InverterOperational),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Report is the JSON document of a run.
type Report struct {
	Summary simulation.Summary `json:"summary"`
	Records []model.StepRecord `json:"records"`
}

// WriteJSON writes the summary and the rounded step log to w.
func WriteJSON(w io.Writer, summary simulation.Summary, records []model.StepRecord) error {
	rounded := make([]model.StepRecord, len(records))
	for i, r := range records {
		rounded[i] = Rounded(r)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Report{Summary: summary, Records: rounded})
}

// WriteSummariesCSV writes one line per run, as produced by a strategy
// comparison.
func WriteSummariesCSV(w io.Writer, summaries []simulation.Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"strategy", "season", "days", "imported_kwh", "exported_kwh", "curtailed_kwh",
		"unmet_kwh", "net_cost", "final_soc_percent", "self_sufficiency", "self_consumption",
	}); err != nil {
		return err
	}
	for _, s := range summaries {
		rec := []string{
			s.Strategy.String(),
			s.Season,
			strconv.Itoa(s.Days),
			formatFloat(model.Round(s.ImportedKWh, 2)),
			formatFloat(model.Round(s.ExportedKWh, 2)),
			formatFloat(model.Round(s.CurtailedKWh, 2)),
			formatFloat(model.Round(s.UnmetKWh, 2)),
			formatFloat(model.Round(s.NetCost, 2)),
			formatFloat(model.Round(s.FinalSOCPercent, 2)),
			formatFloat(model.Round(s.SelfSufficiency, 3)),
			formatFloat(model.Round(s.SelfConsumption, 3)),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
