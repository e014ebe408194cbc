// Package catalog defines the recognized shape sets the classifier
// matches bricks against. The sets are configuration, not code: they
// are declared in CUE (an embedded default, overridable from a user
// file) and compiled to a Catalog via the CUE Go API.
package catalog

import (
	"fmt"
	"strings"

	"github.com/voxelop/worldopt/internal/world"
)

// Catalog holds shape-ID prefix sets per brick class. A shape matches
// a class when its ID starts with any of the class's prefixes, the way
// the container format names wheel entities "Entity_Wheel*".
type Catalog struct {
	Wheels  []string
	Spheres []string
}

// Classify returns the class for a shape ID. Total: unmatched shapes
// fall through to BrickClassOther, never an error.
func (c *Catalog) Classify(shapeID string) world.BrickClass {
	for _, p := range c.Wheels {
		if strings.HasPrefix(shapeID, p) {
			return world.BrickClassWheel
		}
	}
	for _, p := range c.Spheres {
		if strings.HasPrefix(shapeID, p) {
			return world.BrickClassSphere
		}
	}
	return world.BrickClassOther
}

// Validate checks the catalog is usable: at least one prefix per set,
// no empty prefixes, and no prefix claimed by both sets (a shape must
// classify to exactly one class).
func (c *Catalog) Validate() error {
	if len(c.Wheels) == 0 {
		return fmt.Errorf("catalog: no wheel shape prefixes")
	}
	if len(c.Spheres) == 0 {
		return fmt.Errorf("catalog: no sphere shape prefixes")
	}
	seen := make(map[string]string, len(c.Wheels)+len(c.Spheres))
	for _, p := range c.Wheels {
		if p == "" {
			return fmt.Errorf("catalog: empty wheel prefix")
		}
		seen[p] = "wheels"
	}
	for _, p := range c.Spheres {
		if p == "" {
			return fmt.Errorf("catalog: empty sphere prefix")
		}
		if set, dup := seen[p]; dup {
			return fmt.Errorf("catalog: prefix %q in both %s and spheres", p, set)
		}
	}
	return nil
}
