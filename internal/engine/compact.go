package engine

import "github.com/voxelop/worldopt/internal/world"

// compact collapses the world's revision history into a single
// terminal snapshot and returns how many revisions were discarded.
//
// The retained revision is materialized from the live graph, so it
// reflects every per-entity edit made before the barrier - compaction
// must therefore run strictly after the freeze and light passes. The
// materialized state differs from the pre-compaction terminal state
// only by those edits; brick positions, shapes, and joint topology are
// untouched, and only the history length changes.
//
// Every reference that was expressed relative to a revision index is
// re-based so it resolves against the single retained revision: a
// brick added in revision 7 is simply present in revision 1 afterward.
//
// DELIBERATELY LOSSY: all prior history goes away, including revisions
// a user may have wanted for undo. Callers opt in via the compaction
// flag and get the discard count back in the Result.
func compact(w *world.World) int {
	discarded := len(w.Revisions)
	if discarded > 0 {
		// An empty history still gains its snapshot revision but
		// discards nothing.
		discarded--
	}

	// Re-base revision-relative references onto the sole surviving
	// revision before capturing, so the retained snapshot and the live
	// graph agree.
	for _, g := range w.Grids {
		for _, b := range g.Bricks {
			b.AddedIn = 1
		}
	}
	for _, j := range w.Joints {
		j.AddedIn = 1
	}

	w.Revisions = []*world.Revision{{
		Index:    1,
		Kind:     world.RevisionSnapshot,
		Note:     "compacted",
		Snapshot: world.Capture(w),
	}}

	return discarded
}
