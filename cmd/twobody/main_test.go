package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCurveCommand(t *testing.T) {
	out, _, err := execute(t, "curve", "--times", "0,2.5,5,7.5")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "RV_KM/S")
	assert.Contains(t, lines[1], "5.000000")
	assert.Contains(t, lines[3], "-5.000000")
}

func TestCurveSaveAndList(t *testing.T) {
	dir := t.TempDir()
	_, _, err := execute(t, "curve", "--preset", "hot_jupiter", "--samples", "16", "--save", "--data", dir)
	require.NoError(t, err)

	out, _, err := execute(t, "list", "--data", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "kepler_")
	assert.Contains(t, out, "m/s")
}

func TestDerivedCommand(t *testing.T) {
	out, _, err := execute(t, "derived", "--preset", "eccentric_binary")
	require.NoError(t, err)
	assert.Contains(t, out, "AU")
	assert.Contains(t, out, "Msun")
}

func TestT0Command(t *testing.T) {
	out, _, err := execute(t, "t0", "--ref", "60000.2")
	require.NoError(t, err)
	assert.Contains(t, out, "t0: 60000.000000 MJD")
}

func TestExportCommands(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "rv.csv")
	jsonPath := filepath.Join(dir, "rv.json")

	_, _, err := execute(t, "export-csv", csvPath, "--samples", "8")
	require.NoError(t, err)
	_, _, err = execute(t, "export-json", jsonPath, "--samples", "8")
	require.NoError(t, err)

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "time_mjd,rv_km/s"))

	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"samples": 8`)
}

func TestSVGCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rv.svg")
	_, _, err := execute(t, "svg", path, "--phase", "--preset", "circular_sb1")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<path")
}

func TestAnalyzeCommand(t *testing.T) {
	out, _, err := execute(t, "analyze", "--preset", "hot_jupiter")
	require.NoError(t, err)
	assert.Contains(t, out, "dominant period")
	assert.Contains(t, out, "orbital period")
}

func TestPresetsCommand(t *testing.T) {
	out, _, err := execute(t, "presets")
	require.NoError(t, err)
	for _, name := range []string{"hot_jupiter", "eccentric_binary", "earth_twin", "circular_sb1", "drifting_companion"} {
		assert.Contains(t, out, name)
	}
}

func TestMetricsFlag(t *testing.T) {
	_, errOut, err := execute(t, "curve", "--samples", "4", "--metrics")
	require.NoError(t, err)
	assert.Contains(t, errOut, "twobody_rv_samples_total: 4")
}

func TestErrors(t *testing.T) {
	_, _, err := execute(t, "curve", "--preset", "nope")
	assert.Error(t, err)

	_, _, err = execute(t, "curve", "--times", "0,noon")
	assert.Error(t, err)

	_, _, err = execute(t, "curve", "--unit", "furlongs/s")
	assert.Error(t, err)

	_, _, err = execute(t, "live", "--theme", "neon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown theme")
}
