package engine

import "github.com/voxelop/worldopt/internal/world"

// lightStats counts what the light pass changed in one grid.
type lightStats struct {
	shadowsOff int // cast_shadows flipped from true to false
	clamped    int // radius or brightness pulled down to the max
}

// normalizeGridLights walks one grid's light components, disabling
// shadow casting unconditionally and clamping radius and brightness to
// the configured maxima. Values already within bounds are untouched,
// so the pass is idempotent. Bricks without a light component are
// skipped; there is no failure path.
func normalizeGridLights(g *world.Grid, radiusMax, brightnessMax float64) lightStats {
	var stats lightStats
	for _, b := range g.Bricks {
		l := b.Light
		if l == nil {
			continue
		}
		if l.CastShadows {
			l.CastShadows = false
			stats.shadowsOff++
		}
		clamped := false
		if l.Radius > radiusMax {
			l.Radius = radiusMax
			clamped = true
		}
		if l.Brightness > brightnessMax {
			l.Brightness = brightnessMax
			clamped = true
		}
		if clamped {
			stats.clamped++
		}
	}
	return stats
}
