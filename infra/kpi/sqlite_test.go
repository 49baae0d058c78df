package kpi

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eco "github.com/kilianp07/greengrid/core/metrics/eco"
)

func TestSQLiteStoreAggregatesPerDay(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "eco.db"))
	require.NoError(t, err)
	defer s.Close()

	day := time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Add(eco.Record{RunID: "r1", Date: day.Add(10 * time.Hour), SolarKWh: 3, ExportedKWh: 1, ConsumedKWh: 2}))
	require.NoError(t, s.Add(eco.Record{RunID: "r1", Date: day.Add(20 * time.Hour), ImportedKWh: 1, ConsumedKWh: 2}))
	require.NoError(t, s.Add(eco.Record{RunID: "r1", Date: day.Add(30 * time.Hour), SolarKWh: 1}))
	require.NoError(t, s.Add(eco.Record{RunID: "r2", Date: day, SolarKWh: 9}))

	recs, err := s.Query("r1", day, day.Add(48*time.Hour))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	first := recs[0]
	assert.True(t, first.Date.Equal(day))
	assert.Equal(t, "r1", first.RunID)
	assert.InDelta(t, 3, first.SolarKWh, 1e-12)
	assert.InDelta(t, 1, first.ImportedKWh, 1e-12)
	assert.InDelta(t, 1, first.ExportedKWh, 1e-12)
	assert.InDelta(t, 4, first.ConsumedKWh, 1e-12)
	assert.InDelta(t, 0.75, first.SelfSufficiency(), 1e-12)
	assert.InDelta(t, 1, recs[1].SolarKWh, 1e-12)

	only, err := s.Query("r1", day.Add(12*time.Hour), day.Add(12*time.Hour))
	require.NoError(t, err)
	assert.Len(t, only, 1)
}
