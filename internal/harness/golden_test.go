package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voxelop/worldopt/internal/engine"
	"github.com/voxelop/worldopt/internal/testutil"
)

func TestGolden_FrozenWagon(t *testing.T) {
	s, err := LoadScenario(scenarioPath("frozen-wagon"))
	require.NoError(t, err)

	RunWithGolden(t, s)
}

func TestGolden_DimLantern(t *testing.T) {
	s, err := LoadScenario(scenarioPath("dim-lantern"))
	require.NoError(t, err)

	RunWithGolden(t, s)
}

func TestGolden_Idempotent(t *testing.T) {
	// Running the pipeline on its own output must land on the same
	// golden bytes.
	s, err := LoadScenario(scenarioPath("frozen-wagon"))
	require.NoError(t, err)

	outcome, err := Run(s)
	require.NoError(t, err)
	require.NoError(t, outcome.RunErr)

	rerun := engine.New(engine.WithRunTokens(testutil.NewFixedRunGenerator("rerun")))
	result, err := rerun.Run(context.Background(), outcome.World)
	require.NoError(t, err)
	require.False(t, result.Changed())

	AssertGolden(t, "frozen-wagon", outcome.World)
}
