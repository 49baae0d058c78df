package dispatch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownStrategy is returned when a strategy name cannot be parsed.
var ErrUnknownStrategy = errors.New("unknown dispatch strategy")

// Strategy is the priority policy used to route energy within a step.
type Strategy int

const (
	// LoadPriority serves the household first, then charges the battery
	// with the surplus and exports what remains.
	LoadPriority Strategy = iota
	// ChargePriority fills the battery before serving the household.
	ChargePriority
	// ProducePriority exports solar up to the grid limit before anything
	// else.
	ProducePriority
)

var strategyNames = [...]string{
	LoadPriority:    "LOAD_PRIORITY",
	ChargePriority:  "CHARGE_PRIORITY",
	ProducePriority: "PRODUCE_PRIORITY",
}

var strategyDescriptions = [...]string{
	LoadPriority:    "solar to load, battery to load, grid to load, then solar to battery and grid",
	ChargePriority:  "solar to battery first, then solar, battery and grid to load, then export",
	ProducePriority: "solar to grid up to the export limit, then battery, then load",
}

// Strategies lists every strategy.
func Strategies() []Strategy { return []Strategy{LoadPriority, ChargePriority, ProducePriority} }

// Valid reports whether s is one of the known strategies.
func (s Strategy) Valid() bool { return s >= LoadPriority && s <= ProducePriority }

func (s Strategy) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
	return strategyNames[s]
}

// Description returns the routing order of s in plain words.
func (s Strategy) Description() string {
	if !s.Valid() {
		return ""
	}
	return strategyDescriptions[s]
}

// ParseStrategy converts a case-insensitive name such as "charge_priority"
// into a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "-", "_")
	for _, s := range Strategies() {
		if strategyNames[s] == n {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// MarshalText encodes the strategy by name.
func (s Strategy) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a strategy name.
func (s *Strategy) UnmarshalText(b []byte) error {
	v, err := ParseStrategy(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
