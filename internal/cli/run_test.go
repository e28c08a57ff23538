package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epaustria/idfkit/internal/store"
)

// stubEnergyPlus writes a shell script that fakes an EnergyPlus run.
func stubEnergyPlus(t *testing.T, errContent string, exitCode int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub script needs a POSIX shell")
	}

	script := `#!/bin/sh
out=""
while [ $# -gt 1 ]; do
  if [ "$1" = "-d" ]; then out="$2"; shift; fi
  shift
done
cat > "$out/eplusout.err" <<'ERREOF'
` + errContent + `ERREOF
touch "$out/eplusout.eso"
exit ` + strconv.Itoa(exitCode) + `
`
	path := filepath.Join(t.TempDir(), "energyplus")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

const runModel = `
Zone,
    AT_Zone_Test, 0, 0, 0, 0, 1, 1, autocalculate, autocalculate;
BuildingSurface:Detailed,
    Wand_Sued, Wall, AT_Außenwand_WDVS_Standard, AT_Zone_Test,
    Outdoors, , SunExposed, WindExposed, 0.5, 4,
    0, 0, 2.7, 0, 0, 0, 5, 0, 0, 5, 0, 2.7;
`

func writeModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "haus.idf")
	require.NoError(t, os.WriteFile(path, []byte(runModel), 0o644))
	return path
}

func TestRunSingleSimulation(t *testing.T) {
	exe := stubEnergyPlus(t, "   ** Warning ** trivial note\n", 0)
	outDir := filepath.Join(t.TempDir(), "out")

	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{writeModel(t), "--weather", "salzburg.epw", "--out", outDir, "--energyplus", exe})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "ok")
	assert.Contains(t, output, "✓ 1 simulation(s) succeeded")
}

func TestRunFailingSimulationExitsWithFailure(t *testing.T) {
	exe := stubEnergyPlus(t, "   **  Fatal  ** terminated\n", 1)
	outDir := filepath.Join(t.TempDir(), "out")

	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{writeModel(t), "--weather", "salzburg.epw", "--out", outDir, "--energyplus", exe})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "FAILED")
}

func TestRunRecordsInDatabase(t *testing.T) {
	exe := stubEnergyPlus(t, "", 0)
	outDir := filepath.Join(t.TempDir(), "out")
	dbPath := filepath.Join(t.TempDir(), "cache.db")

	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{writeModel(t), "--weather", "salzburg.epw", "--out", outDir, "--energyplus", exe, "--db", dbPath})

	require.NoError(t, cmd.Execute())

	db, err := store.Open(dbPath)
	require.NoError(t, err)
	defer db.Close()

	runs, err := db.Runs(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.NotNil(t, runs[0].Success)
	assert.True(t, *runs[0].Success)
	assert.Equal(t, "salzburg.epw", runs[0].WeatherPath)
}

func TestRunScenarioBatch(t *testing.T) {
	exe := stubEnergyPlus(t, "", 0)
	outDir := filepath.Join(t.TempDir(), "out")

	scenarios := filepath.Join(t.TempDir(), "scenarios.yaml")
	require.NoError(t, os.WriteFile(scenarios, []byte(`
scenarios:
  - name: standard
    description: WDVS Bestand
  - name: passivhaus
    description: Passivhaus-Wand
    constructions:
      AT_Außenwand_WDVS_Standard: AT_Außenwand_Passivhaus
`), 0o644))

	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{writeModel(t), "--weather", "salzburg.epw", "--out", outDir, "--energyplus", exe, "--scenarios", scenarios})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "standard")
	assert.Contains(t, output, "passivhaus")
	assert.Contains(t, output, "✓ 2 simulation(s) succeeded")

	// Each scenario got its own rewritten model.
	swapped, err := os.ReadFile(filepath.Join(outDir, "passivhaus", "passivhaus.idf"))
	require.NoError(t, err)
	assert.Contains(t, string(swapped), "AT_Außenwand_Passivhaus")
}

func TestRunRejectsBadScenarioFile(t *testing.T) {
	exe := stubEnergyPlus(t, "", 0)
	scenarios := filepath.Join(t.TempDir(), "scenarios.yaml")
	require.NoError(t, os.WriteFile(scenarios, []byte("scenarios:\n  - description: ohne Name\n"), 0o644))

	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{writeModel(t), "--weather", "salzburg.epw", "--energyplus", exe, "--scenarios", scenarios})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
