package harness

import (
	"context"
	"fmt"

	"github.com/voxelop/worldopt/internal/engine"
	"github.com/voxelop/worldopt/internal/testutil"
	"github.com/voxelop/worldopt/internal/world"
)

// Outcome is the record of one scenario execution: the mutated world,
// the run report, and the pipeline error if the run failed.
type Outcome struct {
	Scenario *Scenario
	World    *world.World
	Result   *engine.Result
	RunErr   error
}

// Run builds the scenario's world and executes the pipeline on it with
// a fixed run token. The returned error covers harness-level problems
// only; pipeline failures land in Outcome.RunErr so failure scenarios
// can assert on them.
func Run(scenario *Scenario) (*Outcome, error) {
	w := scenario.BuildWorld()

	opts := []engine.Option{
		engine.WithRunTokens(testutil.NewFixedRunGenerator(scenario.RunToken)),
		engine.WithCompaction(!scenario.Options.NoCompact),
		engine.WithZeroPhysicsGridWeight(scenario.Options.ZeroPhysicsWeight),
	}
	if scenario.Options.LightRadiusMax > 0 {
		opts = append(opts, engine.WithLightRadiusMax(scenario.Options.LightRadiusMax))
	}
	if scenario.Options.LightBrightnessMax > 0 {
		opts = append(opts, engine.WithLightBrightnessMax(scenario.Options.LightBrightnessMax))
	}

	result, err := engine.New(opts...).Run(context.Background(), w)
	if err != nil && !engine.IsIntegrityError(err) {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	return &Outcome{
		Scenario: scenario,
		World:    w,
		Result:   result,
		RunErr:   err,
	}, nil
}

// RunFile loads a scenario from a YAML file and runs it.
func RunFile(path string) (*Outcome, error) {
	scenario, err := LoadScenario(path)
	if err != nil {
		return nil, err
	}
	return Run(scenario)
}
