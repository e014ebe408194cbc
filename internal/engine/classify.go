package engine

import (
	"github.com/voxelop/worldopt/internal/catalog"
	"github.com/voxelop/worldopt/internal/world"
)

// Classification is the result of the tagging pass: a kind per grid
// and a class per brick. It lives beside the graph rather than on it,
// keeping the classifier pure - the graph is not touched.
type Classification struct {
	grids  map[world.GridID]world.GridKind
	bricks map[world.BrickRef]world.BrickClass

	// tallies, filled during classification
	wheels  int
	spheres int
	others  int
}

// GridKind returns the kind assigned to a grid. Unknown grid IDs
// report as physics; the validator catches graphs where that matters.
func (c *Classification) GridKind(id world.GridID) world.GridKind {
	if k, ok := c.grids[id]; ok {
		return k
	}
	return world.GridKindPhysics
}

// BrickClass returns the class assigned to a brick ref.
// Total: refs that were never classified report as other.
func (c *Classification) BrickClass(ref world.BrickRef) world.BrickClass {
	if cl, ok := c.bricks[ref]; ok {
		return cl
	}
	return world.BrickClassOther
}

// Wheels returns the number of bricks classified as wheels.
func (c *Classification) Wheels() int { return c.wheels }

// Spheres returns the number of bricks classified as spheres.
func (c *Classification) Spheres() int { return c.spheres }

// Others returns the number of bricks classified as other.
func (c *Classification) Others() int { return c.others }

// MainGrids returns how many grids classified as main.
func (c *Classification) MainGrids() int {
	n := 0
	for _, k := range c.grids {
		if k == world.GridKindMain {
			n++
		}
	}
	return n
}

// Classify labels every grid and every brick in the world.
//
// Deterministic and total: a grid is physics iff the container decoded
// it as dynamic, and every brick receives exactly one class from the
// shape catalog - unmatched shapes fall through to other. There is no
// failure path.
func Classify(w *world.World, cat *catalog.Catalog) *Classification {
	c := &Classification{
		grids:  make(map[world.GridID]world.GridKind, len(w.Grids)),
		bricks: make(map[world.BrickRef]world.BrickClass, w.BrickCount()),
	}
	for _, g := range w.Grids {
		kind := world.GridKindMain
		if g.Dynamic {
			kind = world.GridKindPhysics
		}
		c.grids[g.ID] = kind

		for i, b := range g.Bricks {
			class := cat.Classify(b.ShapeID)
			c.bricks[world.BrickRef{Grid: g.ID, Index: i}] = class
			switch class {
			case world.BrickClassWheel:
				c.wheels++
			case world.BrickClassSphere:
				c.spheres++
			default:
				c.others++
			}
		}
	}
	return c
}
