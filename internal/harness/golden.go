package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/viewloop/viewloop/internal/trace"
)

// RunGolden executes a scenario file and compares its canonical trace
// against the committed golden file testdata/golden/<name>.golden.
//
// The trace is serialized with the canonical JSON codec, so golden files
// are byte-stable across runs and platforms. Regenerate with -update.
func RunGolden(t *testing.T, scenarioPath string) *Result {
	t.Helper()

	scenario, err := LoadScenario(scenarioPath)
	require.NoError(t, err, "load scenario")

	result, err := Run(scenario)
	require.NoError(t, err, "run scenario")

	snap := trace.Snapshot{ScenarioName: scenario.Name, Trace: result.Trace}
	data, err := snap.MarshalCanonical()
	require.NoError(t, err, "marshal trace snapshot")

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return result
}
