package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxelop/worldopt/internal/catalog"
	"github.com/voxelop/worldopt/internal/world"
)

func TestClassify_GridKinds(t *testing.T) {
	w := scenarioWorld()
	cls := Classify(w, catalog.Default())

	assert.Equal(t, world.GridKindMain, cls.GridKind(1))
	assert.Equal(t, world.GridKindPhysics, cls.GridKind(2))
	assert.Equal(t, 1, cls.MainGrids())
}

func TestClassify_UnknownGridReportsPhysics(t *testing.T) {
	cls := Classify(scenarioWorld(), catalog.Default())
	assert.Equal(t, world.GridKindPhysics, cls.GridKind(99))
}

func TestClassify_BrickClasses(t *testing.T) {
	w := scenarioWorld()
	cls := Classify(w, catalog.Default())

	assert.Equal(t, world.BrickClassWheel, cls.BrickClass(world.BrickRef{Grid: 1, Index: 0}))
	assert.Equal(t, world.BrickClassSphere, cls.BrickClass(world.BrickRef{Grid: 1, Index: 3}))
	assert.Equal(t, world.BrickClassOther, cls.BrickClass(world.BrickRef{Grid: 1, Index: 4}))
	assert.Equal(t, world.BrickClassWheel, cls.BrickClass(world.BrickRef{Grid: 2, Index: 0}))
}

func TestClassify_Total(t *testing.T) {
	w := scenarioWorld()
	cls := Classify(w, catalog.Default())

	// Every brick gets exactly one class; the tallies account for all.
	assert.Equal(t, w.BrickCount(), cls.Wheels()+cls.Spheres()+cls.Others())

	// Unclassified refs fall through to other, never "unknown".
	assert.Equal(t, world.BrickClassOther, cls.BrickClass(world.BrickRef{Grid: 7, Index: 7}))
}

func TestClassify_PureNoMutation(t *testing.T) {
	w := scenarioWorld()
	before, err := world.DigestWorld(w)
	require.NoError(t, err)

	Classify(w, catalog.Default())

	after, err := world.DigestWorld(w)
	require.NoError(t, err)
	assert.Equal(t, before, after, "classification must not touch the graph")
}

func TestClassify_Deterministic(t *testing.T) {
	w := scenarioWorld()
	cat := catalog.Default()

	a := Classify(w, cat)
	b := Classify(w, cat)
	assert.Equal(t, a.Wheels(), b.Wheels())
	assert.Equal(t, a.Spheres(), b.Spheres())
	assert.Equal(t, a.Others(), b.Others())
	for _, g := range w.Grids {
		for i := range g.Bricks {
			ref := world.BrickRef{Grid: g.ID, Index: i}
			assert.Equal(t, a.BrickClass(ref), b.BrickClass(ref))
		}
	}
}
