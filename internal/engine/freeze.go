package engine

import "github.com/voxelop/worldopt/internal/world"

// freezeStats counts what the freeze pass changed in one grid.
type freezeStats struct {
	frozen        int // bricks moved to frozen state
	zeroedMass    int // physics mass fields zeroed
	zeroedEngines int // wheel-engine weight fields zeroed
}

// freezeGrid converts every wheel/sphere brick of one grid to a
// static, zero-velocity state. On the main grid it additionally zeroes
// the physics mass and any wheel-engine weight; on physics grids mass
// is left alone so vehicles that stay dynamic keep their weight
// distribution. zeroPhysicsWeight extends engine-weight zeroing to
// physics grids (off by default, matching the described behavior).
//
// A brick with no PhysicsComponent has nothing to freeze and is left
// untouched. Already-frozen state is re-applied harmlessly; the pass
// is idempotent and failure-free.
//
// Only the grid's own bricks are touched - grid membership and joint
// topology are out of reach of this pass, which is what makes the
// per-grid parallel partition safe.
func freezeGrid(g *world.Grid, kind world.GridKind, cls *Classification, zeroPhysicsWeight bool) freezeStats {
	var stats freezeStats
	for i, b := range g.Bricks {
		class := cls.BrickClass(world.BrickRef{Grid: g.ID, Index: i})
		if class != world.BrickClassWheel && class != world.BrickClassSphere {
			continue
		}
		if b.Physics == nil {
			continue
		}

		if !b.Physics.Frozen || !b.Physics.Velocity.Zero() || !b.Physics.AngularVelocity.Zero() {
			stats.frozen++
		}
		b.Physics.Velocity = world.Vec3{}
		b.Physics.AngularVelocity = world.Vec3{}
		b.Physics.Frozen = true

		if kind == world.GridKindMain {
			if b.Physics.Mass != 0 {
				b.Physics.Mass = 0
				stats.zeroedMass++
			}
		}
		if kind == world.GridKindMain || zeroPhysicsWeight {
			if b.Engine != nil && b.Engine.Weight != 0 {
				b.Engine.Weight = 0
				stats.zeroedEngines++
			}
		}
	}
	return stats
}
