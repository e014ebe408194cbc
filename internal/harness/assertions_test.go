package harness

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voxelop/worldopt/internal/engine"
)

func successOutcome(expect ExpectDef, result engine.Result) *Outcome {
	return &Outcome{
		Scenario: &Scenario{Name: "t", Expect: expect},
		Result:   &result,
	}
}

func TestEvaluate_AllMatch(t *testing.T) {
	o := successOutcome(
		ExpectDef{FrozenBricks: 2, ShadowsOff: 1},
		engine.Result{FrozenBricks: 2, ShadowsOff: 1, DigestBefore: "a", DigestAfter: "b"},
	)
	assert.Empty(t, Evaluate(o))
}

func TestEvaluate_CounterMismatch(t *testing.T) {
	o := successOutcome(
		ExpectDef{FrozenBricks: 2},
		engine.Result{FrozenBricks: 3},
	)
	failures := Evaluate(o)
	assert.Len(t, failures, 1)
	assert.Contains(t, failures[0], "frozen_bricks: expected 2, got 3")
}

func TestEvaluate_ChangedOnlyWhenSet(t *testing.T) {
	unchanged := engine.Result{DigestBefore: "a", DigestAfter: "a"}

	o := successOutcome(ExpectDef{}, unchanged)
	assert.Empty(t, Evaluate(o), "changed is not asserted when omitted")

	want := true
	o = successOutcome(ExpectDef{Changed: &want}, unchanged)
	failures := Evaluate(o)
	assert.Len(t, failures, 1)
	assert.Contains(t, failures[0], "changed: expected true")
}

func TestEvaluate_UnexpectedFailure(t *testing.T) {
	o := &Outcome{
		Scenario: &Scenario{Name: "t", Expect: ExpectDef{FrozenBricks: 1}},
		RunErr:   &engine.GraphIntegrityError{Code: engine.CodeOrphanGrid, Message: "adrift"},
	}
	failures := Evaluate(o)
	assert.Len(t, failures, 1)
	assert.Contains(t, failures[0], "expected success")
}

func TestEvaluate_ExpectedFailure(t *testing.T) {
	scenario := &Scenario{Name: "t", Expect: ExpectDef{ErrorCode: "ORPHAN_GRID"}}

	match := &Outcome{
		Scenario: scenario,
		RunErr:   &engine.GraphIntegrityError{Code: engine.CodeOrphanGrid, Message: "adrift"},
	}
	assert.Empty(t, Evaluate(match))

	wrongCode := &Outcome{
		Scenario: scenario,
		RunErr:   &engine.GraphIntegrityError{Code: engine.CodeDanglingAnchor, Message: "x"},
	}
	failures := Evaluate(wrongCode)
	assert.Len(t, failures, 1)
	assert.Contains(t, failures[0], "DANGLING_ANCHOR")

	notIntegrity := &Outcome{Scenario: scenario, RunErr: errors.New("boom")}
	failures = Evaluate(notIntegrity)
	assert.Len(t, failures, 1)
	assert.Contains(t, failures[0], "boom")

	succeeded := &Outcome{Scenario: scenario, Result: &engine.Result{}}
	failures = Evaluate(succeeded)
	assert.Len(t, failures, 1)
	assert.Contains(t, failures[0], "run succeeded")
}
