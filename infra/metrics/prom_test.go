package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kilianp07/greengrid/core/dispatch"
	coremetrics "github.com/kilianp07/greengrid/core/metrics"
	"github.com/kilianp07/greengrid/core/model"
)

func sampleStep() coremetrics.StepEvent {
	return coremetrics.StepEvent{
		RunID:    "run-1",
		Strategy: dispatch.ChargePriority,
		Record: model.StepRecord{
			TimestampHours:      12,
			Day:                 1,
			HourOfDay:           12,
			SolarGenerationKW:   4,
			LoadDemandKW:        1.2344,
			BatterySOCPercent:   200.0 / 3,
			BatteryEnergyKWh:    9,
			CloudCoverage:       0.1,
			InverterOperational: true,
		},
		Flow: dispatch.FlowResult{
			Strategy:           dispatch.ChargePriority,
			SolarKWh:           4,
			LoadKWh:            1.2344,
			SolarToLoad:        1.2344,
			BatteryChargeInput: 2.2656,
			BatteryCharged:     2.25,
			GridExported:       0.5,
			LoadServed:         1.2344,
		},
		Time: time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC),
	}
}

func TestPromSink_RecordStep(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	ev := sampleStep()
	if err := sink.RecordStep(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}
	if err := sink.RecordStep(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}

	if got := testutil.ToFloat64(sink.soc.WithLabelValues("CHARGE_PRIORITY")); got != 200.0/3 {
		t.Errorf("soc gauge %v", got)
	}
	if got := testutil.ToFloat64(sink.inverter.WithLabelValues("CHARGE_PRIORITY")); got != 1 {
		t.Errorf("inverter gauge %v", got)
	}
	if got := testutil.ToFloat64(sink.flows.WithLabelValues("CHARGE_PRIORITY", "grid_exported")); got != 1 {
		t.Errorf("exported counter %v", got)
	}
	if got := testutil.ToFloat64(sink.flows.WithLabelValues("CHARGE_PRIORITY", "battery_charged")); got != 4.5 {
		t.Errorf("charged counter %v", got)
	}
	// Zero flows are not materialised as series.
	if c := testutil.CollectAndCount(sink.flows); c != 4 {
		t.Errorf("expected 4 flow series got %d", c)
	}
	if c := testutil.CollectAndCount(sink.demand); c != 1 {
		t.Errorf("demand histogram not recorded")
	}
}

func TestPromSink_IncidentsAndSummary(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	for _, kind := range []string{"inverter_failure", "unmet_load", "unmet_load"} {
		if err := sink.RecordIncident(coremetrics.IncidentEvent{Kind: kind}); err != nil {
			t.Fatalf("incident: %v", err)
		}
	}
	expected := `
# HELP greengrid_incidents_total Incidents observed during simulation runs
# TYPE greengrid_incidents_total counter
greengrid_incidents_total{kind="inverter_failure"} 1
greengrid_incidents_total{kind="unmet_load"} 2
`
	if err := testutil.CollectAndCompare(sink.incidents, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}

	if err := sink.RecordSummary(coremetrics.SummaryEvent{Strategy: dispatch.LoadPriority, Season: model.Fall, NetCost: 12.5, SelfSufficiency: 0.4}); err != nil {
		t.Fatalf("summary: %v", err)
	}
	if got := testutil.ToFloat64(sink.netCost.WithLabelValues("LOAD_PRIORITY", "fall")); got != 12.5 {
		t.Errorf("net cost %v", got)
	}
}

func TestPromSink_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("first sink: %v", err)
	}
	b, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("second sink: %v", err)
	}
	if err := b.RecordIncident(coremetrics.IncidentEvent{Kind: "curtailment"}); err != nil {
		t.Fatalf("incident: %v", err)
	}
	if got := testutil.ToFloat64(a.incidents.WithLabelValues("curtailment")); got != 1 {
		t.Fatalf("collectors not shared, got %v", got)
	}
}
