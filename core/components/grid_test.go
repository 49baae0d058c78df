package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridImportIsUnbounded(t *testing.T) {
	g, err := NewGrid(DefaultGridConfig(), 1)
	require.NoError(t, err)
	for _, x := range []float64{0.001, 1, 250, 1e6} {
		assert.Equal(t, x, g.Import(x))
	}
	assert.Zero(t, g.Import(-2))
	assert.InDelta(t, (0.001+1+250+1e6)*0.75, g.TotalCost(), 1e-6)
}

func TestGridExportCap(t *testing.T) {
	g, err := NewGrid(GridConfig{ExportLimitKW: 5, ImportCost: 0.75, ExportRevenue: 0.9}, 1)
	require.NoError(t, err)

	assert.Equal(t, 5.0, g.Export(12))
	assert.InDelta(t, 4.5, g.TotalRevenue(), 1e-12)
	assert.Equal(t, 3.0, g.Export(3))
	assert.Zero(t, g.Export(0))
	assert.InDelta(t, 8.0, g.TotalExported(), 1e-12)
}

func TestGridExportCapScalesWithStep(t *testing.T) {
	g, err := NewGrid(GridConfig{ExportLimitKW: 4}, 0.25)
	require.NoError(t, err)
	assert.Equal(t, 1.0, g.Export(3))
}

func TestGridImportLimit(t *testing.T) {
	g, err := NewGrid(GridConfig{ExportLimitKW: 4, ImportLimitKW: 2, ImportCost: 1}, 1)
	require.NoError(t, err)
	assert.Equal(t, 2.0, g.Import(3.5))
	assert.Equal(t, 1.0, g.Import(1))
	assert.InDelta(t, 3.0, g.TotalCost(), 1e-12)
}

func TestGridNetCost(t *testing.T) {
	g, err := NewGrid(DefaultGridConfig(), 1)
	require.NoError(t, err)
	g.Import(2)
	g.Export(4)
	assert.InDelta(t, 2*0.75-4*0.9, g.NetCost(), 1e-12)
	assert.Equal(t, -2.1, g.Status()["net_cost"])
}

func TestGridConfigValidate(t *testing.T) {
	_, err := NewGrid(GridConfig{ExportLimitKW: -1}, 1)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = NewGrid(DefaultGridConfig(), 0)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
