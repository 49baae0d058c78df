package scenarios

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenario(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for _, f := range files {
		sc, err := Load(f)
		require.NoErrorf(t, err, "load %s", f)
		t.Run(sc.Name, func(t *testing.T) {
			RunScenario(t, sc)
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	sc, err := Load(filepath.Join("testdata", "load_priority_surplus.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 1.0, sc.StepHours)
	assert.Equal(t, DefaultTolerance, sc.Tolerance)
	assert.Len(t, sc.Steps, 3)
	assert.Nil(t, sc.Steps[0].Expected.Unmet)
	require.NotNil(t, sc.Steps[0].Expected.SOC)
	assert.Equal(t, 68.0, *sc.Steps[0].Expected.SOC)
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load("no-file.yaml")
	assert.Error(t, err)

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(":"), 0o600))
	_, err = Load(bad)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("name: empty\nstrategy: LOAD_PRIORITY\n"), 0o600))
	_, err = Load(empty)
	assert.Error(t, err)
}
