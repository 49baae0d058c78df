package components

import (
	"github.com/kilianp07/greengrid/core/model"
	"github.com/kilianp07/greengrid/core/random"
)

// InverterConfig holds the power limit and the fault model of the inverter.
type InverterConfig struct {
	MaxOutputKW  float64 `json:"max_output_kw"`
	FailRate     float64 `json:"fail_rate"`
	MinFailHours int     `json:"min_fail_hours"`
	MaxFailHours int     `json:"max_fail_hours"`
}

// DefaultInverterConfig returns a 4 kW inverter failing on average once every
// 200 days for 4 to 72 hours.
func DefaultInverterConfig() InverterConfig {
	return InverterConfig{
		MaxOutputKW:  4.0,
		FailRate:     0.005,
		MinFailHours: 4,
		MaxFailHours: 72,
	}
}

// Validate checks the fault model bounds.
func (c InverterConfig) Validate() error {
	switch {
	case c.MaxOutputKW <= 0:
		return invalid("inverter max_output_kw must be positive, got %v", c.MaxOutputKW)
	case c.FailRate < 0:
		return invalid("inverter fail_rate must not be negative, got %v", c.FailRate)
	case c.MinFailHours < 0:
		return invalid("inverter min_fail_hours must not be negative, got %d", c.MinFailHours)
	case c.MinFailHours > c.MaxFailHours:
		return invalid("inverter min_fail_hours %d exceeds max_fail_hours %d", c.MinFailHours, c.MaxFailHours)
	}
	return nil
}

// Transition reports a state change produced by Inverter.Update.
type Transition int

const (
	NoTransition Transition = iota
	Failed
	Recovered
)

func (t Transition) String() string {
	switch t {
	case Failed:
		return "failed"
	case Recovered:
		return "recovered"
	default:
		return "none"
	}
}

// Inverter gates solar output. It alternates between an operational state and
// a failed state entered at random and left after a random number of hours.
type Inverter struct {
	cfg InverterConfig
	rng random.Source

	operational   bool
	remainingHrs  float64
	lastDowntime  int
	totalFailures int
	totalDowntime float64
}

// NewInverter validates cfg and returns an operational inverter drawing its
// faults from rng.
func NewInverter(cfg InverterConfig, rng random.Source) (*Inverter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, invalid("inverter requires a random source")
	}
	return &Inverter{cfg: cfg, rng: rng, operational: true}, nil
}

// Update advances the fault process by stepHours.
//
// A failed inverter counts down its remaining downtime and recovers on the
// call that brings it to zero or below. An operational inverter draws once
// against fail_rate scaled to the step length; on failure the downtime is
// drawn uniformly among the whole hours of [min_fail_hours, max_fail_hours].
func (i *Inverter) Update(stepHours float64) Transition {
	if !i.operational {
		i.remainingHrs -= stepHours
		if i.remainingHrs <= 0 {
			i.operational = true
			i.remainingHrs = 0
			return Recovered
		}
		return NoTransition
	}
	p := i.cfg.FailRate * (stepHours / 24)
	if i.rng.Float64() >= p {
		return NoTransition
	}
	downtime := random.IntBetween(i.rng, i.cfg.MinFailHours, i.cfg.MaxFailHours)
	i.operational = false
	i.remainingHrs = float64(downtime)
	i.lastDowntime = downtime
	i.totalFailures++
	i.totalDowntime += float64(downtime)
	return Failed
}

func (i *Inverter) IsOperational() bool           { return i.operational }
func (i *Inverter) MaxOutputKW() float64          { return i.cfg.MaxOutputKW }
func (i *Inverter) FailureTimeRemaining() float64 { return i.remainingHrs }
func (i *Inverter) TotalFailures() int            { return i.totalFailures }

// LastDowntime returns the duration in hours drawn for the latest failure.
func (i *Inverter) LastDowntime() int { return i.lastDowntime }

// TotalDowntime returns the sum of every drawn failure duration.
func (i *Inverter) TotalDowntime() float64 { return i.totalDowntime }

// Status returns a rounded snapshot of the inverter.
func (i *Inverter) Status() model.Status {
	return model.Status{
		"max_output_kw":          i.cfg.MaxOutputKW,
		"is_operational":         i.operational,
		"failure_time_remaining": model.Round(i.remainingHrs, 2),
		"total_failures":         i.totalFailures,
		"total_downtime_hours":   model.Round(i.totalDowntime, 2),
	}
}
