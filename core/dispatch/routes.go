package dispatch

// step carries the remainders of one dispatch call between routes.
type step struct {
	solar float64
	load  float64
	res   FlowResult
}

// route moves energy between two endpoints of the microgrid.
type route func(e *Engine, st *step)

func (s Strategy) routes() []route {
	switch s {
	case LoadPriority:
		return []route{solarToLoad, batteryToLoad, gridToLoad, solarToBattery, solarToGrid}
	case ChargePriority:
		return []route{solarToBattery, solarToLoad, batteryToLoad, gridToLoad, solarToGrid}
	case ProducePriority:
		return []route{solarToGrid, solarToBattery, solarToLoad, batteryToLoad, gridToLoad}
	default:
		return nil
	}
}

func solarToLoad(_ *Engine, st *step) {
	x := min(st.solar, st.load)
	if x <= epsilon {
		return
	}
	st.solar -= x
	st.load -= x
	st.res.SolarToLoad += x
}

// solarToBattery offers all remaining solar to the battery. The solar used
// is the input the battery needed for what it stored, never more than was
// offered.
func solarToBattery(e *Engine, st *step) {
	if st.solar <= epsilon {
		return
	}
	stored := e.battery.Charge(st.solar)
	if stored <= 0 {
		return
	}
	input := min(e.battery.ChargeInput(stored), st.solar)
	st.solar -= input
	st.res.BatteryChargeInput += input
	st.res.BatteryCharged += stored
}

func solarToGrid(e *Engine, st *step) {
	if st.solar <= epsilon {
		return
	}
	exported := e.grid.Export(st.solar)
	st.solar -= exported
	st.res.GridExported += exported
}

// batteryToLoad requests the remaining demand from the battery. The delivered
// energy is net of the discharge loss so some demand is usually left for the
// grid.
func batteryToLoad(e *Engine, st *step) {
	if st.load <= epsilon {
		return
	}
	delivered := e.battery.Discharge(st.load)
	if delivered <= 0 {
		return
	}
	st.load -= delivered
	st.res.BatteryDischarged += delivered
	st.res.BatteryDrawn += e.battery.DrawnFor(delivered)
}

func gridToLoad(e *Engine, st *step) {
	if st.load <= epsilon {
		return
	}
	imported := e.grid.Import(st.load)
	st.load -= imported
	st.res.GridImported += imported
}
