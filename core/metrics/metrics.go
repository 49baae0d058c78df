package metrics

import (
	"time"

	"github.com/kilianp07/greengrid/core/dispatch"
	"github.com/kilianp07/greengrid/core/model"
)

// StepEvent is recorded once per simulated step.
type StepEvent struct {
	RunID    string
	Strategy dispatch.Strategy
	Record   model.StepRecord
	Flow     dispatch.FlowResult
	// Time is the simulated instant of the step.
	Time time.Time
}

// MetricsSink records simulation steps for observability purposes.
type MetricsSink interface {
	RecordStep(ev StepEvent) error
}

// IncidentEvent captures a notable event of the run such as an inverter
// failure, unmet load or curtailment.
type IncidentEvent struct {
	RunID          string
	Kind           string
	TimestampHours float64
	KWh            float64
	DurationHours  float64
	Time           time.Time
}

// IncidentRecorder records incidents.
type IncidentRecorder interface {
	RecordIncident(ev IncidentEvent) error
}

// SummaryEvent holds the totals of a finished run.
type SummaryEvent struct {
	RunID            string
	Strategy         dispatch.Strategy
	Season           model.Season
	Days             int
	Steps            int
	GeneratedKWh     float64
	ClippedKWh       float64
	ConsumedKWh      float64
	UnmetKWh         float64
	ImportedKWh      float64
	ExportedKWh      float64
	NetCost          float64
	FinalSOCPercent  float64
	MeanSOCPercent   float64
	InverterFailures int
	DowntimeHours    float64
	SelfSufficiency  float64
	SelfConsumption  float64
	Time             time.Time
}

// SummaryRecorder records run summaries.
type SummaryRecorder interface {
	RecordSummary(ev SummaryEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordStep(StepEvent) error         { return nil }
func (NopSink) RecordIncident(IncidentEvent) error { return nil }
func (NopSink) RecordSummary(SummaryEvent) error   { return nil }
