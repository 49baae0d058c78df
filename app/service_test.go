package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/greengrid/config"
	"github.com/kilianp07/greengrid/core/dispatch"
	"github.com/kilianp07/greengrid/core/factory"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Simulation.Days = 2
	cfg.Simulation.Seed = 42
	cfg.StepLog.Backend = "memory"
	cfg.Metrics.Sinks = []factory.ModuleConfig{{Type: "nop"}}
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestServiceRunWritesOutputs(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()
	cfg.Output.CSV = filepath.Join(dir, "steps.csv")
	cfg.Output.JSON = filepath.Join(dir, "report.json")

	svc, err := New(cfg)
	require.NoError(t, err)
	defer func() { require.NoError(t, svc.Close()) }()

	res, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Records, 48)
	assert.Equal(t, int64(42), res.Summary.Seed)
	assert.Equal(t, 48, res.Summary.Steps)

	csvData, err := os.ReadFile(cfg.Output.CSV)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(csvData)), "\n")
	assert.Len(t, lines, 49)
	assert.True(t, strings.HasPrefix(lines[0], "timestamp_hours,"))

	jsonData, err := os.ReadFile(cfg.Output.JSON)
	require.NoError(t, err)
	var report struct {
		Summary struct {
			RunID string `json:"run_id"`
		} `json:"summary"`
		Records []json.RawMessage `json:"records"`
	}
	require.NoError(t, json.Unmarshal(jsonData, &report))
	assert.Equal(t, res.Summary.RunID, report.Summary.RunID)
	assert.Len(t, report.Records, 48)
}

func TestServiceCompareSharesSeed(t *testing.T) {
	cfg := testConfig(t)
	cfg.Simulation.Seed = 0

	svc, err := New(cfg)
	require.NoError(t, err)
	defer svc.Close()

	sums, err := svc.Compare(context.Background(), dispatch.Strategies())
	require.NoError(t, err)
	require.Len(t, sums, 3)
	for i, s := range sums {
		assert.Equal(t, dispatch.Strategies()[i], s.Strategy)
		assert.Equal(t, sums[0].Seed, s.Seed)
		assert.NotZero(t, s.Seed)
		// Weather and demand come from the same draws whatever the strategy.
		assert.InDelta(t, sums[0].GeneratedKWh, s.GeneratedKWh, 1e-9)
	}
}

func TestServiceCancelledRun(t *testing.T) {
	svc, err := New(testConfig(t))
	require.NoError(t, err)
	defer svc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRejectsUnknownSink(t *testing.T) {
	cfg := testConfig(t)
	cfg.Metrics.Sinks = []factory.ModuleConfig{{Type: "carrier-pigeon"}}
	_, err := New(cfg)
	assert.Error(t, err)
}
