package engine

import (
	"fmt"

	"github.com/voxelop/worldopt/internal/world"
)

// validate checks the §graph invariants once, after all passes:
//
//   - every joint anchor resolves to a live brick
//   - exactly one grid classifies as main
//   - every physics grid is reachable from the main grid through the
//     joint adjacency graph (no orphan physics grids)
//   - no AddedIn reference points past the surviving revision history
//
// Returns the first violation found as a *GraphIntegrityError.
func validate(w *world.World, cls *Classification, runToken string) error {
	// Joint anchors must resolve on both sides. Checked in a fixed
	// order so the reported violation is deterministic.
	for i, j := range w.Joints {
		if err := checkAnchor(w, i, "a", j.A, runToken); err != nil {
			return err
		}
		if err := checkAnchor(w, i, "b", j.B, runToken); err != nil {
			return err
		}
	}

	// Exactly one main grid.
	if n := cls.MainGrids(); n != 1 {
		return &GraphIntegrityError{
			Code:     CodeMainGridCount,
			Message:  fmt.Sprintf("world has %d main grids, want exactly 1", n),
			RunToken: runToken,
			Details:  map[string]string{"main_grids": fmt.Sprintf("%d", n)},
		}
	}

	// Physics grids must be reachable from the main grid through joints.
	if err := checkReachability(w, cls, runToken); err != nil {
		return err
	}

	// Revision-relative references must resolve against the surviving
	// history.
	maxRev := len(w.Revisions)
	for _, g := range w.Grids {
		for _, b := range g.Bricks {
			if b.AddedIn < 1 || b.AddedIn > maxRev {
				return staleRef(runToken, fmt.Sprintf("brick %d in grid %d", b.ID, g.ID), b.AddedIn, maxRev)
			}
		}
	}
	for i, j := range w.Joints {
		if j.AddedIn < 1 || j.AddedIn > maxRev {
			return staleRef(runToken, fmt.Sprintf("joint %d", i), j.AddedIn, maxRev)
		}
	}

	return nil
}

func checkAnchor(w *world.World, joint int, side string, ref world.BrickRef, runToken string) error {
	if _, ok := ref.Resolve(w); ok {
		return nil
	}
	return &GraphIntegrityError{
		Code:     CodeDanglingAnchor,
		Message:  fmt.Sprintf("joint %d anchor %s (%s) does not resolve", joint, side, ref),
		RunToken: runToken,
		Details: map[string]string{
			"joint":  fmt.Sprintf("%d", joint),
			"anchor": side,
			"ref":    ref.String(),
		},
	}
}

func staleRef(runToken, what string, got, maxRev int) error {
	return &GraphIntegrityError{
		Code:     CodeStaleRevisionRef,
		Message:  fmt.Sprintf("%s references revision %d, history has %d", what, got, maxRev),
		RunToken: runToken,
		Details: map[string]string{
			"reference": what,
			"revision":  fmt.Sprintf("%d", got),
			"history":   fmt.Sprintf("%d", maxRev),
		},
	}
}

// checkReachability floods the joint adjacency graph from the main
// grid and reports the first physics grid left unvisited.
func checkReachability(w *world.World, cls *Classification, runToken string) error {
	reached := make(map[world.GridID]bool, len(w.Grids))
	for _, g := range w.Grids {
		if cls.GridKind(g.ID) == world.GridKindMain {
			reached[g.ID] = true
		}
	}

	// Joints carry no ordering; iterate to a fixed point.
	for changed := true; changed; {
		changed = false
		for _, j := range w.Joints {
			a, b := j.A.Grid, j.B.Grid
			if reached[a] && !reached[b] {
				reached[b] = true
				changed = true
			}
			if reached[b] && !reached[a] {
				reached[a] = true
				changed = true
			}
		}
	}

	for _, g := range w.Grids {
		if cls.GridKind(g.ID) != world.GridKindPhysics {
			continue
		}
		if !reached[g.ID] {
			return &GraphIntegrityError{
				Code:     CodeOrphanGrid,
				Message:  fmt.Sprintf("physics grid %d is not anchored to the main grid by any joint", g.ID),
				RunToken: runToken,
				Details:  map[string]string{"grid": fmt.Sprintf("%d", g.ID)},
			}
		}
	}
	return nil
}
