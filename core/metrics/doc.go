// Package metrics defines the sinks that observe a simulation run. Every sink
// records per-step events; sinks may also implement IncidentRecorder and
// SummaryRecorder, which callers detect with a type assertion. Sinks are
// built from configuration through NewMetricsSink, which returns a MultiSink
// when several are configured.
package metrics
