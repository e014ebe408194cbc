package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/voxelop/worldopt/internal/world"
)

// AssertGolden compares the canonical JSON of a world's current state
// against the golden fixture testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Golden fixtures are the source of truth for what an optimized world
// looks like byte for byte; canonical serialization guarantees the
// comparison is deterministic.
func AssertGolden(t *testing.T, name string, w *world.World) {
	t.Helper()

	canonical, err := world.Capture(w).MarshalCanonical()
	if err != nil {
		t.Fatalf("canonical marshal: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, canonical)
}

// RunWithGolden executes a scenario, fails the test on any violated
// expectation, and compares the post-run world against the scenario's
// golden fixture.
func RunWithGolden(t *testing.T, scenario *Scenario) *Outcome {
	t.Helper()

	outcome, err := Run(scenario)
	if err != nil {
		t.Fatalf("run scenario %s: %v", scenario.Name, err)
	}
	for _, failure := range Evaluate(outcome) {
		t.Errorf("scenario %s: %s", scenario.Name, failure)
	}
	AssertGolden(t, scenario.Name, outcome.World)
	return outcome
}
