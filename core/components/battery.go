package components

import (
	"github.com/kilianp07/greengrid/core/model"
)

// BatteryConfig describes a bank of identical battery units.
type BatteryConfig struct {
	Count       int     `json:"count"`
	CapacityKWh float64 `json:"capacity_kwh"`
	MinSOC      float64 `json:"min_soc"`
	MaxSOC      float64 `json:"max_soc"`
	Efficiency  float64 `json:"efficiency"`
	InitialSOC  float64 `json:"initial_soc"`
}

// DefaultBatteryConfig returns a single 13.5 kWh home battery.
func DefaultBatteryConfig() BatteryConfig {
	return BatteryConfig{
		Count:       1,
		CapacityKWh: 13.5,
		MinSOC:      5,
		MaxSOC:      100,
		Efficiency:  0.9,
		InitialSOC:  50,
	}
}

// Validate checks the physical bounds of the configuration.
func (c BatteryConfig) Validate() error {
	switch {
	case c.Count < 1:
		return invalid("battery count must be at least 1, got %d", c.Count)
	case c.CapacityKWh <= 0:
		return invalid("battery capacity must be positive, got %v", c.CapacityKWh)
	case c.MinSOC < 0 || c.MaxSOC > 100:
		return invalid("battery soc bounds must lie in [0,100], got [%v,%v]", c.MinSOC, c.MaxSOC)
	case c.MinSOC > c.MaxSOC:
		return invalid("battery min_soc %v exceeds max_soc %v", c.MinSOC, c.MaxSOC)
	case c.Efficiency <= 0 || c.Efficiency > 1:
		return invalid("battery efficiency must lie in (0,1], got %v", c.Efficiency)
	case c.InitialSOC < c.MinSOC || c.InitialSOC > c.MaxSOC:
		return invalid("battery initial_soc %v outside [%v,%v]", c.InitialSOC, c.MinSOC, c.MaxSOC)
	}
	return nil
}

// Battery is an energy store with a conversion loss applied once in each
// direction.
type Battery struct {
	cfg         BatteryConfig
	capacityKWh float64
	soc         float64

	totalCharged    float64
	totalDischarged float64
	chargeCycles    int
	dischargeCycles int
}

// NewBattery validates cfg and returns a battery at its initial state of
// charge.
func NewBattery(cfg BatteryConfig) (*Battery, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Battery{
		cfg:         cfg,
		capacityKWh: cfg.CapacityKWh * float64(cfg.Count),
		soc:         cfg.InitialSOC,
	}, nil
}

// CurrentEnergy returns the stored energy in kWh.
func (b *Battery) CurrentEnergy() float64 { return b.soc / 100 * b.capacityKWh }

func (b *Battery) minEnergy() float64 { return b.cfg.MinSOC / 100 * b.capacityKWh }
func (b *Battery) maxEnergy() float64 { return b.cfg.MaxSOC / 100 * b.capacityKWh }

// Charge offers kWh to the battery and returns the energy actually stored.
// kWh is an energy: callers multiply power by the step length first.
// The efficiency loss is applied before storing, and whatever exceeds the
// headroom up to max_soc is rejected.
func (b *Battery) Charge(kWh float64) float64 {
	if kWh <= 0 {
		return 0
	}
	headroom := b.maxEnergy() - b.CurrentEnergy()
	if headroom <= Epsilon {
		return 0
	}
	effective := kWh * b.cfg.Efficiency
	stored := effective
	if stored >= headroom {
		stored = headroom
		b.soc = b.cfg.MaxSOC
	} else {
		b.soc = min((b.CurrentEnergy()+stored)/b.capacityKWh*100, b.cfg.MaxSOC)
	}
	b.totalCharged += stored
	b.chargeCycles++
	return stored
}

// Discharge requests needed kWh from the battery and returns the energy
// delivered to the household. Like Charge it works on energies already
// scaled by the step length.
//
// The state of charge loses the gross amount drawn from the cells while the
// caller receives the drawn amount after the efficiency loss. A request of
// 0.9 kWh from a 0.9 efficient battery therefore lowers the stored energy by
// 0.9 kWh and delivers 0.81 kWh.
func (b *Battery) Discharge(needed float64) float64 {
	if needed <= 0 {
		return 0
	}
	available := b.CurrentEnergy() - b.minEnergy()
	if available <= Epsilon {
		return 0
	}
	drawn := needed
	if drawn >= available {
		drawn = available
		b.soc = b.cfg.MinSOC
	} else {
		b.soc = max((b.CurrentEnergy()-drawn)/b.capacityKWh*100, b.cfg.MinSOC)
	}
	delivered := drawn * b.cfg.Efficiency
	b.totalDischarged += delivered
	b.dischargeCycles++
	return delivered
}

// ChargeInput returns the input energy a charge consumed to store stored kWh.
func (b *Battery) ChargeInput(stored float64) float64 { return stored / b.cfg.Efficiency }

// DrawnFor returns the gross energy removed from the cells to deliver kWh.
func (b *Battery) DrawnFor(delivered float64) float64 { return delivered / b.cfg.Efficiency }

// IsFull reports whether the state of charge reached max_soc.
func (b *Battery) IsFull() bool { return b.soc >= b.cfg.MaxSOC }

// IsEmpty reports whether the state of charge reached min_soc.
func (b *Battery) IsEmpty() bool { return b.soc <= b.cfg.MinSOC }

func (b *Battery) SOC() float64             { return b.soc }
func (b *Battery) CapacityKWh() float64     { return b.capacityKWh }
func (b *Battery) Efficiency() float64      { return b.cfg.Efficiency }
func (b *Battery) TotalCharged() float64    { return b.totalCharged }
func (b *Battery) TotalDischarged() float64 { return b.totalDischarged }
func (b *Battery) ChargeCycles() int        { return b.chargeCycles }
func (b *Battery) DischargeCycles() int     { return b.dischargeCycles }

// Status returns a rounded snapshot of the battery.
func (b *Battery) Status() model.Status {
	return model.Status{
		"battery_count":    b.cfg.Count,
		"capacity_kwh":     model.Round(b.capacityKWh, 2),
		"soc_percent":      model.Round(b.soc, 2),
		"energy_kwh":       model.Round(b.CurrentEnergy(), 2),
		"is_full":          b.IsFull(),
		"is_empty":         b.IsEmpty(),
		"total_charged":    model.Round(b.totalCharged, 2),
		"total_discharged": model.Round(b.totalDischarged, 2),
		"charge_cycles":    b.chargeCycles,
		"discharge_cycles": b.dischargeCycles,
	}
}
