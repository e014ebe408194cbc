package world

import "fmt"

// BrickRef is an index/handle reference to a brick: the owning grid's
// ID plus the brick's position in that grid's arena. Refs are how
// joints (and revision ops) point at bricks without owning them.
//
// A ref may dangle if the graph it was built against changes shape;
// Resolve reports that instead of panicking, and the engine's
// integrity check treats an unresolvable anchor as fatal.
type BrickRef struct {
	Grid  GridID `json:"grid"`
	Index int    `json:"index"`
}

// Resolve looks the ref up in w. The second return is false when the
// grid is unknown or the index is out of the arena's bounds.
func (r BrickRef) Resolve(w *World) (*Brick, bool) {
	g := w.Grid(r.Grid)
	if g == nil {
		return nil, false
	}
	if r.Index < 0 || r.Index >= len(g.Bricks) {
		return nil, false
	}
	return g.Bricks[r.Index], true
}

// String renders the ref as "grid/index" for logs and error details.
func (r BrickRef) String() string {
	return fmt.Sprintf("%d/%d", r.Grid, r.Index)
}
