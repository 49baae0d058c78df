// Package weather draws the daily cloud coverage that attenuates solar
// generation. A sky category is sampled from seasonal weights, then the
// coverage is drawn uniformly within the category's range.
package weather

import (
	"fmt"

	"github.com/kilianp07/greengrid/core/components"
	"github.com/kilianp07/greengrid/core/model"
	"github.com/kilianp07/greengrid/core/random"
)

// Config holds the seasonal category weights and the coverage range of each
// category. Weights are listed as [clear, partly_cloudy, mostly_cloudy,
// overcast] and ranges as [min, max] fractions.
type Config struct {
	Probabilities map[string][]float64 `json:"probabilities"`
	Ranges        map[string][]float64 `json:"ranges"`
}

// DefaultConfig returns the built-in seasonal tables.
func DefaultConfig() Config {
	return Config{
		Probabilities: map[string][]float64{
			model.Spring.String(): {0.1, 0.3, 0.4, 0.2},
			model.Summer.String(): {0.05, 0.15, 0.3, 0.5},
			model.Fall.String():   {0.2, 0.4, 0.3, 0.1},
			model.Winter.String(): {0.3, 0.4, 0.2, 0.1},
		},
		Ranges: map[string][]float64{
			model.Clear.String():        {0.0, 0.2},
			model.PartlyCloudy.String(): {0.2, 0.6},
			model.MostlyCloudy.String(): {0.6, 0.8},
			model.Overcast.String():     {0.8, 0.9},
		},
	}
}

// Validate checks that every season and category is present and sane.
func (c Config) Validate() error {
	for name, w := range c.Probabilities {
		if _, err := model.ParseSeason(name); err != nil {
			return fmt.Errorf("%w: weather probabilities: %v", components.ErrInvalidConfig, err)
		}
		if len(w) != len(model.CloudCategories()) {
			return fmt.Errorf("%w: weather probabilities for %s need %d weights, got %d",
				components.ErrInvalidConfig, name, len(model.CloudCategories()), len(w))
		}
		total := 0.0
		for _, p := range w {
			if p < 0 {
				return fmt.Errorf("%w: weather probabilities for %s must not be negative", components.ErrInvalidConfig, name)
			}
			total += p
		}
		if total <= 0 {
			return fmt.Errorf("%w: weather probabilities for %s sum to zero", components.ErrInvalidConfig, name)
		}
	}
	for _, s := range model.Seasons() {
		if _, ok := c.Probabilities[s.String()]; !ok {
			return fmt.Errorf("%w: weather probabilities missing season %s", components.ErrInvalidConfig, s)
		}
	}
	for _, cat := range model.CloudCategories() {
		r, ok := c.Ranges[cat.String()]
		if !ok {
			return fmt.Errorf("%w: weather ranges missing category %s", components.ErrInvalidConfig, cat)
		}
		if len(r) != 2 || r[0] < 0 || r[1] > 1 || r[0] > r[1] {
			return fmt.Errorf("%w: weather range for %s must be [min,max] within [0,1], got %v",
				components.ErrInvalidConfig, cat, r)
		}
	}
	return nil
}

// Sky is the condition drawn for a day.
type Sky struct {
	Category      model.CloudCategory
	CloudCoverage float64
}

// Model samples daily sky conditions for one season.
type Model struct {
	season  model.Season
	weights []float64
	ranges  [][2]float64
	rng     random.Source
}

// New validates cfg and returns a model for season drawing from rng.
func New(cfg Config, season model.Season, rng random.Source) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: weather requires a random source", components.ErrInvalidConfig)
	}
	m := &Model{
		season:  season,
		weights: append([]float64(nil), cfg.Probabilities[season.String()]...),
		rng:     rng,
	}
	if m.weights == nil {
		return nil, fmt.Errorf("%w: %v", model.ErrUnknownSeason, season)
	}
	for _, cat := range model.CloudCategories() {
		r := cfg.Ranges[cat.String()]
		m.ranges = append(m.ranges, [2]float64{r[0], r[1]})
	}
	return m, nil
}

// Season returns the season the model draws for.
func (m *Model) Season() model.Season { return m.season }

// Sample draws the sky of a new day.
func (m *Model) Sample() Sky {
	idx := random.Choice(m.rng, m.weights)
	if idx < 0 {
		idx = 0
	}
	r := m.ranges[idx]
	return Sky{
		Category:      model.CloudCategory(idx),
		CloudCoverage: random.Uniform(m.rng, r[0], r[1]),
	}
}
