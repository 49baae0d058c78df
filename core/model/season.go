package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSeason is returned when a season name cannot be parsed.
var ErrUnknownSeason = errors.New("unknown season")

// Season selects the cloud-coverage distribution used for a run.
type Season int

const (
	Spring Season = iota
	Summer
	Fall
	Winter
)

var seasonNames = map[Season]string{
	Spring: "spring",
	Summer: "summer",
	Fall:   "fall",
	Winter: "winter",
}

func (s Season) String() string {
	if n, ok := seasonNames[s]; ok {
		return n
	}
	return "unknown"
}

// Seasons lists every season in calendar order.
func Seasons() []Season { return []Season{Spring, Summer, Fall, Winter} }

// ParseSeason converts a case-insensitive name into a Season. "autumn" is
// accepted as an alias of fall.
func ParseSeason(name string) (Season, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "autumn" {
		return Fall, nil
	}
	for s, v := range seasonNames {
		if v == n {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSeason, name)
}

// CloudCategory is a coarse sky condition sampled once per simulated day.
type CloudCategory int

const (
	Clear CloudCategory = iota
	PartlyCloudy
	MostlyCloudy
	Overcast
)

// CloudCategories lists every category in the order used by probability
// tables.
func CloudCategories() []CloudCategory {
	return []CloudCategory{Clear, PartlyCloudy, MostlyCloudy, Overcast}
}

func (c CloudCategory) String() string {
	switch c {
	case Clear:
		return "clear"
	case PartlyCloudy:
		return "partly_cloudy"
	case MostlyCloudy:
		return "mostly_cloudy"
	case Overcast:
		return "overcast"
	default:
		return "unknown"
	}
}
