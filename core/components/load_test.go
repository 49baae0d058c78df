package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/greengrid/core/random"
)

func TestLoadDemand(t *testing.T) {
	l, err := NewLoad(DefaultLoadConfig(), random.NewSequence(0.5))
	require.NoError(t, err)

	// off peak: 0.5 + 0.5*0.15
	assert.InDelta(t, 0.575, l.Demand(10), 1e-12)
	// peak: 0.5 + 0.075 + 0.5*3
	assert.InDelta(t, 2.075, l.Demand(18), 1e-12)
	assert.InDelta(t, 2.075, l.Demand(21), 1e-12)
	assert.InDelta(t, 0.575, l.Demand(22), 1e-12)
	assert.InDelta(t, 2.075, l.PeakDemand(), 1e-12)
	assert.InDelta(t, (0.575*2+2.075*2)/4, l.AverageDemand(), 1e-12)
}

func TestLoadDemandBounds(t *testing.T) {
	cfg := DefaultLoadConfig()
	l, err := NewLoad(cfg, random.New(3))
	require.NoError(t, err)
	for i := 0; i < 24*50; i++ {
		h := i % 24
		d := l.Demand(h)
		hi := cfg.BaseLoadKW * (1 + cfg.Variability)
		if l.InPeak(h) {
			hi += cfg.PeakLoadMaxKW
		}
		if d < cfg.BaseLoadKW || d > hi {
			t.Fatalf("hour %d: demand %v outside [%v,%v]", h, d, cfg.BaseLoadKW, hi)
		}
	}
}

func TestLoadPeakWindowWraps(t *testing.T) {
	cfg := DefaultLoadConfig()
	cfg.PeakHoursStart, cfg.PeakHoursEnd = 22, 2
	l, err := NewLoad(cfg, random.New(1))
	require.NoError(t, err)
	assert.True(t, l.InPeak(23))
	assert.True(t, l.InPeak(0))
	assert.True(t, l.InPeak(2))
	assert.False(t, l.InPeak(3))
	assert.False(t, l.InPeak(21))
}

func TestLoadCounters(t *testing.T) {
	l, err := NewLoad(DefaultLoadConfig(), random.New(1))
	require.NoError(t, err)
	l.Consume(1.5)
	l.Consume(-1)
	l.RecordUnmet(0)
	l.RecordUnmet(0.4)
	assert.InDelta(t, 1.5, l.TotalConsumed(), 1e-12)
	assert.Equal(t, 1, l.UnmetEvents())
	assert.InDelta(t, 0.4, l.TotalUnmetLoad(), 1e-12)
	assert.Equal(t, 1, l.Status()["unmet_load_events"])
}

func TestLoadConfigValidate(t *testing.T) {
	cfg := DefaultLoadConfig()
	cfg.PeakHoursEnd = 24
	_, err := NewLoad(cfg, random.New(1))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
