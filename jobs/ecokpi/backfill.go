// Package ecokpi rebuilds the daily ecological ledger from persisted steps.
package ecokpi

import (
	"time"

	eco "github.com/kilianp07/greengrid/core/metrics/eco"
	"github.com/kilianp07/greengrid/core/steplog"
)

// At returns the simulated instant of e. Entries logged without a time are
// placed relative to fallback, the instant of hour zero.
func At(e steplog.Entry, fallback time.Time) time.Time {
	if !e.Time.IsZero() {
		return e.Time
	}
	return fallback.Add(time.Duration(e.TimestampHours * float64(time.Hour)))
}

// Backfill adds every entry to store.
func Backfill(store eco.Store, fallback time.Time, entries []steplog.Entry) error {
	for _, e := range entries {
		rec := eco.Record{
			RunID:       e.RunID,
			Date:        At(e, fallback),
			SolarKWh:    e.Flow.SolarKWh,
			ImportedKWh: e.Flow.GridImported,
			ExportedKWh: e.Flow.GridExported,
			ConsumedKWh: e.Flow.LoadServed,
		}
		if err := store.Add(rec); err != nil {
			return err
		}
	}
	return nil
}

// Days returns the ledger of runID for the days covered by entries, which
// are in step order.
func Days(store eco.Store, runID string, fallback time.Time, entries []steplog.Entry) ([]eco.Record, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	first := At(entries[0], fallback)
	last := At(entries[len(entries)-1], fallback)
	return store.Query(runID, first, last)
}
