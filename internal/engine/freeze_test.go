package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxelop/worldopt/internal/catalog"
	"github.com/voxelop/worldopt/internal/world"
)

func TestFreezeGrid_MainGrid(t *testing.T) {
	w := scenarioWorld()
	cls := Classify(w, catalog.Default())
	main := w.Grids[0]

	stats := freezeGrid(main, world.GridKindMain, cls, false)

	assert.Equal(t, 4, stats.frozen)
	assert.Equal(t, 4, stats.zeroedMass)
	assert.Equal(t, 3, stats.zeroedEngines)

	wheel := main.Bricks[0]
	assert.True(t, wheel.Physics.Frozen)
	assert.Equal(t, 0.0, wheel.Physics.Mass)
	assert.Equal(t, 0.0, wheel.Engine.Weight)
	assert.Equal(t, 150.0, wheel.Engine.Torque, "torque is not touched")

	sphere := main.Bricks[3]
	assert.True(t, sphere.Physics.Velocity.Zero())
}

func TestFreezeGrid_PhysicsGridKeepsWeight(t *testing.T) {
	w := scenarioWorld()
	cls := Classify(w, catalog.Default())
	dyn := w.Grids[1]

	stats := freezeGrid(dyn, world.GridKindPhysics, cls, false)

	assert.Equal(t, 1, stats.frozen)
	assert.Zero(t, stats.zeroedMass)
	assert.Zero(t, stats.zeroedEngines)

	wheel := dyn.Bricks[0]
	assert.True(t, wheel.Physics.Frozen)
	assert.True(t, wheel.Physics.AngularVelocity.Zero())
	assert.Equal(t, 30.0, wheel.Physics.Mass)
	assert.Equal(t, 30.0, wheel.Engine.Weight)
}

func TestFreezeGrid_PhysicsGridZeroWeightOption(t *testing.T) {
	w := scenarioWorld()
	cls := Classify(w, catalog.Default())
	dyn := w.Grids[1]

	stats := freezeGrid(dyn, world.GridKindPhysics, cls, true)

	assert.Equal(t, 1, stats.zeroedEngines)
	assert.Equal(t, 0.0, dyn.Bricks[0].Engine.Weight)
	assert.Equal(t, 30.0, dyn.Bricks[0].Physics.Mass, "mass zeroing stays main-grid-only")
}

func TestFreezeGrid_SkipsOtherBricks(t *testing.T) {
	w := scenarioWorld()
	cls := Classify(w, catalog.Default())
	main := w.Grids[0]

	// The light brick is classified other and untouched even if it
	// somehow carried physics data.
	main.Bricks[4].Physics = &world.PhysicsComponent{Mass: 5, Velocity: world.Vec3{Y: 2}}
	freezeGrid(main, world.GridKindMain, cls, false)

	assert.False(t, main.Bricks[4].Physics.Frozen)
	assert.Equal(t, 5.0, main.Bricks[4].Physics.Mass)
}

func TestFreezeGrid_NoPhysicsComponent(t *testing.T) {
	g := &world.Grid{ID: 1, Bricks: []*world.Brick{{
		ID:      1,
		ShapeID: "B_Wheel_10x10",
		Engine:  &world.WheelEngineComponent{Weight: 40},
	}}}
	w := &world.World{Grids: []*world.Grid{g}}
	cls := Classify(w, catalog.Default())

	// Nothing to freeze: the brick is left entirely untouched, engine
	// weight included.
	stats := freezeGrid(g, world.GridKindMain, cls, false)
	assert.Zero(t, stats.frozen)
	assert.Zero(t, stats.zeroedEngines)
	assert.Equal(t, 40.0, g.Bricks[0].Engine.Weight)
}

func TestFreezeGrid_Idempotent(t *testing.T) {
	w := scenarioWorld()
	cls := Classify(w, catalog.Default())
	main := w.Grids[0]

	freezeGrid(main, world.GridKindMain, cls, false)
	digest, err := world.DigestWorld(w)
	require.NoError(t, err)

	stats := freezeGrid(main, world.GridKindMain, cls, false)
	assert.Zero(t, stats.frozen)
	assert.Zero(t, stats.zeroedMass)
	assert.Zero(t, stats.zeroedEngines)

	again, err := world.DigestWorld(w)
	require.NoError(t, err)
	assert.Equal(t, digest, again)
}
