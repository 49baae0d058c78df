// Package steplog persists the per-step records of simulation runs so they
// can be inspected after the fact.
package steplog

import (
	"context"
	"time"

	"github.com/kilianp07/greengrid/core/dispatch"
	"github.com/kilianp07/greengrid/core/model"
)

// Entry is one persisted step.
type Entry struct {
	RunID    string            `json:"run_id"`
	Strategy dispatch.Strategy `json:"strategy"`
	model.StepRecord
	Flow dispatch.FlowResult `json:"flow"`
	// Time is the simulated instant of the step.
	Time time.Time `json:"time"`
}

// Query filters entries. Zero values do not filter.
type Query struct {
	RunID   string
	FromDay int
	ToDay   int
	// InverterDown keeps only steps where the inverter was failed.
	InverterDown bool
	// WithUnmet keeps only steps that left demand unserved.
	WithUnmet bool
}

func (q Query) match(e Entry) bool {
	if q.RunID != "" && e.RunID != q.RunID {
		return false
	}
	if q.FromDay > 0 && e.Day < q.FromDay {
		return false
	}
	if q.ToDay > 0 && e.Day > q.ToDay {
		return false
	}
	if q.InverterDown && e.InverterOperational {
		return false
	}
	if q.WithUnmet && e.Flow.Unmet <= 0 {
		return false
	}
	return true
}

// LogStore persists entries and supports querying.
type LogStore interface {
	Append(ctx context.Context, e Entry) error
	Query(ctx context.Context, q Query) ([]Entry, error)
	Close() error
}
