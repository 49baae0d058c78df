// Package events defines the incidents published on the event bus while a
// simulation runs.
//
// Available event types:
//   - DayStartedEvent: a new simulated day with its sampled sky
//   - InverterFailedEvent: the inverter went down
//   - InverterRecoveredEvent: the inverter is back in service
//   - UnmetLoadEvent: demand that no source could serve
//   - CurtailmentEvent: solar surplus lost to the export limit
package events
