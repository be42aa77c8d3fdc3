package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenariosDir = "../harness/testdata/scenarios"

func TestRunCommandDemo(t *testing.T) {
	out, _, err := execute(t, "increment\nadd_user\nquit\n", "run")
	require.NoError(t, err)

	assert.Contains(t, out, "controls:")
	assert.Contains(t, out, "== All users ==")
	assert.Contains(t, out, "User 3 - user3@gmail.com")
	assert.Contains(t, out, "counter: 1")
	assert.Contains(t, out, "boundary: idle")
}

func TestRunCommandUnknownControl(t *testing.T) {
	out, _, err := execute(t, "teleport\nquit\n", "run")
	require.NoError(t, err)

	assert.Contains(t, out, `unknown control "teleport"`)
}

func TestTestCommandAllScenariosPass(t *testing.T) {
	out, _, err := execute(t, "", "test", scenariosDir)
	require.NoError(t, err)

	assert.Contains(t, out, "All scenarios passed")
	assert.Contains(t, out, "ok   demo_walkthrough")
}

func TestTestCommandFilter(t *testing.T) {
	out, _, err := execute(t, "", "test", scenariosDir, "--filter", "boundary_*")
	require.NoError(t, err)

	assert.Contains(t, out, "ok   boundary_persists_after_toggle_off")
	assert.NotContains(t, out, "demo_walkthrough")
}

func TestTestCommandMissingDir(t *testing.T) {
	_, _, err := execute(t, "", "test", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandFailingScenario(t *testing.T) {
	dir := t.TempDir()
	failing := `name: wrong_count
description: asserts an impossible count
steps:
  - do: increment
assertions:
  - type: trace_count
    kind: counter_changed
    count: 9
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wrong_count.yaml"), []byte(failing), 0o644))

	out, _, err := execute(t, "", "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "FAIL wrong_count")
}

func TestTraceCommand(t *testing.T) {
	out, _, err := execute(t, "", "trace", filepath.Join(scenariosDir, "demo_walkthrough.yaml"))
	require.NoError(t, err)

	assert.Contains(t, out, "Trace for demo_walkthrough")
	assert.Contains(t, out, "filter_recomputed")
	assert.Contains(t, out, "boundary_reset")
	assert.Contains(t, out, "last seq 24")
}

func TestTraceCommandKindFilter(t *testing.T) {
	out, _, err := execute(t, "",
		"trace", filepath.Join(scenariosDir, "demo_walkthrough.yaml"),
		"--kind", "counter_changed")
	require.NoError(t, err)

	assert.Contains(t, out, "counter_changed")
	assert.NotContains(t, out, "view_rendered")
}

func TestTraceCommandOnDiskIndex(t *testing.T) {
	db := filepath.Join(t.TempDir(), "trace.db")

	_, _, err := execute(t, "",
		"trace", filepath.Join(scenariosDir, "counter_does_not_rerender_lists.yaml"),
		"--db", db)
	require.NoError(t, err)

	_, statErr := os.Stat(db)
	assert.NoError(t, statErr)
}

func TestValidateCommand(t *testing.T) {
	out, _, err := execute(t, "", "validate", filepath.Join(scenariosDir, "demo_walkthrough.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "ok   demo_walkthrough.yaml")
}

func TestValidateCommandInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: bad\nsteps: []\n"), 0o644))

	out, _, err := execute(t, "", "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "FAIL bad.yaml")
}
