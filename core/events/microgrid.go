package events

// Event is any value published on the simulation bus.
type Event interface {
	// Kind is a stable snake_case name used as a metric label.
	Kind() string
}

// DayStartedEvent is published at the first step of each simulated day.
type DayStartedEvent struct {
	Day           int
	Sky           string
	CloudCoverage float64
}

func (DayStartedEvent) Kind() string { return "day_started" }

// InverterFailedEvent is published when the inverter enters a failure.
type InverterFailedEvent struct {
	TimestampHours float64
	DowntimeHours  int
}

func (InverterFailedEvent) Kind() string { return "inverter_failure" }

// InverterRecoveredEvent is published when a failure ends.
type InverterRecoveredEvent struct {
	TimestampHours float64
}

func (InverterRecoveredEvent) Kind() string { return "inverter_recovery" }

// UnmetLoadEvent is published for each step leaving demand unserved.
type UnmetLoadEvent struct {
	TimestampHours float64
	KWh            float64
}

func (UnmetLoadEvent) Kind() string { return "unmet_load" }

// CurtailmentEvent is published for each step discarding solar surplus.
type CurtailmentEvent struct {
	TimestampHours float64
	KWh            float64
}

func (CurtailmentEvent) Kind() string { return "curtailment" }
