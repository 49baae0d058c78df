package weather

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/greengrid/core/components"
	"github.com/kilianp07/greengrid/core/model"
	"github.com/kilianp07/greengrid/core/random"
)

func TestSampleFollowsScriptedDraws(t *testing.T) {
	// spring weights are 0.1/0.3/0.4/0.2: 0.05 picks clear, 0.95 overcast
	src := random.NewSequence(0.05, 0.5, 0.95, 0.5)
	m, err := New(DefaultConfig(), model.Spring, src)
	require.NoError(t, err)

	sky := m.Sample()
	assert.Equal(t, model.Clear, sky.Category)
	assert.InDelta(t, 0.1, sky.CloudCoverage, 1e-12)

	sky = m.Sample()
	assert.Equal(t, model.Overcast, sky.Category)
	assert.InDelta(t, 0.85, sky.CloudCoverage, 1e-12)
}

func TestSampleStaysInRange(t *testing.T) {
	cfg := DefaultConfig()
	for _, s := range model.Seasons() {
		m, err := New(cfg, s, random.New(11))
		require.NoError(t, err)
		counts := map[model.CloudCategory]int{}
		for i := 0; i < 2000; i++ {
			sky := m.Sample()
			r := cfg.Ranges[sky.Category.String()]
			if sky.CloudCoverage < r[0] || sky.CloudCoverage > r[1] {
				t.Fatalf("%s: coverage %v outside %v", s, sky.CloudCoverage, r)
			}
			counts[sky.Category]++
		}
		assert.Len(t, counts, 4, s.String())
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Probabilities["summer"] = []float64{0, 0, 0, 0}
	assert.True(t, errors.Is(cfg.Validate(), components.ErrInvalidConfig))

	cfg = DefaultConfig()
	cfg.Probabilities["monsoon"] = []float64{1, 1, 1, 1}
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Ranges["overcast"] = []float64{0.9, 0.8}
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	delete(cfg.Ranges, "clear")
	assert.Error(t, cfg.Validate())

	assert.NoError(t, DefaultConfig().Validate())
}
