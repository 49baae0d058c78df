package dispatch

import (
	"errors"
	"fmt"
)

// epsilon is the energy below which a remainder is treated as zero.
const epsilon = 1e-9

// Storage is the battery as seen by the engine.
type Storage interface {
	Charge(kWh float64) float64
	Discharge(kWh float64) float64
	ChargeInput(stored float64) float64
	DrawnFor(delivered float64) float64
}

// Utility is the grid connection as seen by the engine.
type Utility interface {
	Import(kWh float64) float64
	Export(kWh float64) float64
}

// Consumer is the household load as seen by the engine.
type Consumer interface {
	Consume(kWh float64)
	RecordUnmet(kWh float64)
}

// Dispatcher routes one step of solar supply and household demand.
type Dispatcher interface {
	Dispatch(solarKWh, loadKWh float64) FlowResult
}

// Engine applies a fixed Strategy to the battery, grid and load it was built
// with. It holds no state of its own between steps.
type Engine struct {
	strategy Strategy
	battery  Storage
	grid     Utility
	load     Consumer
}

// NewEngine returns an engine routing energy with strategy.
func NewEngine(strategy Strategy, battery Storage, grid Utility, load Consumer) (*Engine, error) {
	if !strategy.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, int(strategy))
	}
	if battery == nil || grid == nil || load == nil {
		return nil, errors.New("dispatch engine requires a battery, a grid and a load")
	}
	return &Engine{strategy: strategy, battery: battery, grid: grid, load: load}, nil
}

// Strategy returns the policy the engine was built with.
func (e *Engine) Strategy() Strategy { return e.strategy }

// Dispatch routes solarKWh and loadKWh for one step. Negative inputs are
// treated as zero. The household is charged with what it was served and any
// demand left after the battery and the grid is recorded as unmet.
func (e *Engine) Dispatch(solarKWh, loadKWh float64) FlowResult {
	st := &step{
		solar: max(solarKWh, 0),
		load:  max(loadKWh, 0),
	}
	st.res = FlowResult{Strategy: e.strategy, SolarKWh: st.solar, LoadKWh: st.load}

	for _, r := range e.strategy.routes() {
		r(e, st)
	}

	if st.load > epsilon {
		st.res.Unmet = st.load
		e.load.RecordUnmet(st.load)
	} else {
		st.load = 0
	}
	if st.solar > epsilon {
		st.res.Curtailed = st.solar
	}
	st.res.LoadServed = st.res.LoadKWh - st.load
	e.load.Consume(st.res.LoadServed)
	return st.res
}
