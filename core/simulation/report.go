package simulation

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// WriteReport prints a human readable summary grouped by component.
func WriteReport(w io.Writer, s Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	sections := []struct {
		title string
		rows  [][2]string
	}{
		{"Run", [][2]string{
			{"Run ID", s.RunID},
			{"Strategy", s.Strategy.String()},
			{"Season", s.Season},
			{"Duration", fmt.Sprintf("%d days (%d steps of %.2f h)", s.Days, s.Steps, s.StepHours)},
			{"Seed", fmt.Sprintf("%d", s.Seed)},
		}},
		{"Battery", [][2]string{
			{"Final SOC", fmt.Sprintf("%.1f %%", s.FinalSOCPercent)},
			{"Mean SOC", fmt.Sprintf("%.1f %% (stddev %.1f, min %.1f)", s.MeanSOCPercent, s.SOCStdDev, s.MinSOCPercent)},
			{"Charged", fmt.Sprintf("%.2f kWh in %d cycles", s.ChargedKWh, s.ChargeCycles)},
			{"Discharged", fmt.Sprintf("%.2f kWh in %d cycles", s.DischargedKWh, s.DischargeCycles)},
			{"Conversion losses", fmt.Sprintf("%.2f kWh", s.BatteryLossKWh)},
		}},
		{"Solar", [][2]string{
			{"Generated", fmt.Sprintf("%.2f kWh", s.GeneratedKWh)},
			{"Clipped by inverter", fmt.Sprintf("%.2f kWh", s.ClippedKWh)},
			{"Curtailed", fmt.Sprintf("%.2f kWh", s.CurtailedKWh)},
			{"Mean cloud coverage", fmt.Sprintf("%.0f %%", s.MeanCloud*100)},
		}},
		{"Consumption", [][2]string{
			{"Consumed", fmt.Sprintf("%.2f kWh", s.ConsumedKWh)},
			{"Demand", fmt.Sprintf("avg %.2f kW, p95 %.2f kW, peak %.2f kW", s.AverageDemandKW, s.P95DemandKW, s.PeakDemandKW)},
			{"Unmet", fmt.Sprintf("%.2f kWh in %d steps", s.UnmetKWh, s.UnmetEvents)},
			{"Self-sufficiency", fmt.Sprintf("%.1f %%", s.SelfSufficiency*100)},
			{"Self-consumption", fmt.Sprintf("%.1f %%", s.SelfConsumption*100)},
		}},
		{"Grid", [][2]string{
			{"Imported", fmt.Sprintf("%.2f kWh (cost %.2f)", s.ImportedKWh, s.ImportCost)},
			{"Exported", fmt.Sprintf("%.2f kWh (revenue %.2f)", s.ExportedKWh, s.ExportRevenue)},
			{"Net cost", fmt.Sprintf("%.2f", s.NetCost)},
		}},
		{"Inverter", [][2]string{
			{"Failures", fmt.Sprintf("%d", s.InverterFailures)},
			{"Downtime", fmt.Sprintf("%.0f h", s.DowntimeHours)},
		}},
	}
	for i, sec := range sections {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "== %s ==\n", sec.title)
		for _, row := range sec.rows {
			fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1])
		}
	}
	return tw.Flush()
}
