package harness

import (
	"errors"
	"fmt"

	"github.com/voxelop/worldopt/internal/engine"
)

// Evaluate checks an outcome against its scenario's expectations and
// returns one message per violated expectation. An empty slice means
// the scenario passed.
func Evaluate(o *Outcome) []string {
	expect := o.Scenario.Expect

	if expect.ErrorCode != "" {
		return evaluateFailure(o, expect.ErrorCode)
	}

	var failures []string
	if o.RunErr != nil {
		return append(failures, fmt.Sprintf("expected success, pipeline failed: %v", o.RunErr))
	}

	checks := []struct {
		name string
		want int
		got  int
	}{
		{"frozen_bricks", expect.FrozenBricks, o.Result.FrozenBricks},
		{"zeroed_mass", expect.ZeroedMass, o.Result.ZeroedMass},
		{"zeroed_engines", expect.ZeroedEngines, o.Result.ZeroedEngines},
		{"shadows_off", expect.ShadowsOff, o.Result.ShadowsOff},
		{"clamped_lights", expect.ClampedLights, o.Result.ClampedLights},
		{"discarded_revisions", expect.DiscardedRevisions, o.Result.DiscardedRevisions},
	}
	for _, c := range checks {
		if c.got != c.want {
			failures = append(failures, fmt.Sprintf("%s: expected %d, got %d", c.name, c.want, c.got))
		}
	}

	if expect.Changed != nil && o.Result.Changed() != *expect.Changed {
		failures = append(failures, fmt.Sprintf("changed: expected %v, got %v", *expect.Changed, o.Result.Changed()))
	}

	return failures
}

func evaluateFailure(o *Outcome, wantCode string) []string {
	if o.RunErr == nil {
		return []string{fmt.Sprintf("expected integrity error %s, run succeeded", wantCode)}
	}
	var ie *engine.GraphIntegrityError
	if !errors.As(o.RunErr, &ie) {
		return []string{fmt.Sprintf("expected integrity error %s, got: %v", wantCode, o.RunErr)}
	}
	if string(ie.Code) != wantCode {
		return []string{fmt.Sprintf("expected integrity error %s, got %s", wantCode, ie.Code)}
	}
	return nil
}
