package world

import "fmt"

// RevisionKind distinguishes full snapshots from diff entries.
type RevisionKind string

const (
	// RevisionSnapshot holds the complete world state at that point.
	// The first revision of a history is always a snapshot, and after
	// compaction the single surviving revision is one too.
	RevisionSnapshot RevisionKind = "snapshot"

	// RevisionDiff holds ops expressed relative to the previous
	// revision's state.
	RevisionDiff RevisionKind = "diff"
)

// OpKind identifies a diff operation.
type OpKind string

const (
	OpAddGrid     OpKind = "add_grid"
	OpAddBrick    OpKind = "add_brick"
	OpUpdateBrick OpKind = "update_brick"
	OpAddJoint    OpKind = "add_joint"
)

// Revision is one entry in the world's append-only history log.
// Index is 1-based and revision N+1 is expressible as a diff against
// revision N (invariant of the container format, not re-checked here).
type Revision struct {
	Index    int
	Kind     RevisionKind
	Note     string
	Snapshot *Snapshot // RevisionSnapshot only
	Ops      []Op      // RevisionDiff only
}

// Op is a single diff operation. The payload field matching Kind is
// set; the rest are nil/zero.
type Op struct {
	Kind  OpKind
	Grid  *GridState  // OpAddGrid (bricks ignored)
	Brick *BrickState // OpAddBrick, OpUpdateBrick
	On    GridID      // target grid for brick ops
	Joint *JointState // OpAddJoint
}

// Snapshot is a full world state as plain values, detached from the
// live graph. Snapshots are what revisions store, what the compactor
// retains, and what canonical serialization operates on.
type Snapshot struct {
	Name   string
	Grids  []GridState
	Joints []JointState
}

// GridState is a grid captured by value.
type GridState struct {
	ID        GridID
	Dynamic   bool
	Transform Transform
	Bricks    []BrickState
}

// BrickState is a brick captured by value, components deep-copied.
type BrickState struct {
	ID      uint32
	ShapeID string
	AddedIn int
	Physics *PhysicsComponent
	Engine  *WheelEngineComponent
	Light   *LightComponent
}

// JointState is a joint captured by value.
type JointState struct {
	Kind    JointKind
	A       BrickRef
	B       BrickRef
	Motor   *MotorParams
	AddedIn int
}

// Capture materializes the current state of the live graph as a
// Snapshot. The copy is deep: later mutation of w does not reach it.
func Capture(w *World) *Snapshot {
	s := &Snapshot{Name: w.Name}
	for _, g := range w.Grids {
		gs := GridState{
			ID:        g.ID,
			Dynamic:   g.Dynamic,
			Transform: g.Transform,
			Bricks:    make([]BrickState, 0, len(g.Bricks)),
		}
		for _, b := range g.Bricks {
			gs.Bricks = append(gs.Bricks, captureBrick(b))
		}
		s.Grids = append(s.Grids, gs)
	}
	for _, j := range w.Joints {
		s.Joints = append(s.Joints, captureJoint(j))
	}
	return s
}

func captureBrick(b *Brick) BrickState {
	bs := BrickState{ID: b.ID, ShapeID: b.ShapeID, AddedIn: b.AddedIn}
	if b.Physics != nil {
		p := *b.Physics
		bs.Physics = &p
	}
	if b.Engine != nil {
		e := *b.Engine
		bs.Engine = &e
	}
	if b.Light != nil {
		l := *b.Light
		bs.Light = &l
	}
	return bs
}

func captureJoint(j *Joint) JointState {
	js := JointState{Kind: j.Kind, A: j.A, B: j.B, AddedIn: j.AddedIn}
	if j.Motor != nil {
		m := *j.Motor
		js.Motor = &m
	}
	return js
}

// Restore rebuilds a live World graph from a snapshot. Used by the
// codec after decode and by tests that need a mutable graph from a
// captured state.
func (s *Snapshot) Restore() *World {
	w := &World{Name: s.Name}
	for _, gs := range s.Grids {
		g := &Grid{ID: gs.ID, Dynamic: gs.Dynamic, Transform: gs.Transform}
		for _, bs := range gs.Bricks {
			g.Bricks = append(g.Bricks, bs.restore())
		}
		w.Grids = append(w.Grids, g)
	}
	for _, js := range s.Joints {
		j := &Joint{Kind: js.Kind, A: js.A, B: js.B, AddedIn: js.AddedIn}
		if js.Motor != nil {
			m := *js.Motor
			j.Motor = &m
		}
		w.Joints = append(w.Joints, j)
	}
	return w
}

func (bs BrickState) restore() *Brick {
	b := &Brick{ID: bs.ID, ShapeID: bs.ShapeID, AddedIn: bs.AddedIn}
	if bs.Physics != nil {
		p := *bs.Physics
		b.Physics = &p
	}
	if bs.Engine != nil {
		e := *bs.Engine
		b.Engine = &e
	}
	if bs.Light != nil {
		l := *bs.Light
		b.Light = &l
	}
	return b
}

// FoldRevisions materializes the terminal state of a revision chain by
// folding the diff entries over the base snapshot, in order. The chain
// must start with a snapshot revision.
//
// Folding never mutates the input revisions; the returned snapshot is
// an independent copy.
func FoldRevisions(revs []*Revision) (*Snapshot, error) {
	if len(revs) == 0 {
		return nil, fmt.Errorf("fold: empty revision chain")
	}
	base := revs[0]
	if base.Kind != RevisionSnapshot || base.Snapshot == nil {
		return nil, fmt.Errorf("fold: revision %d is not a snapshot", base.Index)
	}

	// Work on a copy so the chain stays intact.
	acc := Capture(base.Snapshot.Restore())
	acc.Name = base.Snapshot.Name

	for _, rev := range revs[1:] {
		if rev.Kind != RevisionDiff {
			return nil, fmt.Errorf("fold: revision %d: unexpected %s after base", rev.Index, rev.Kind)
		}
		for i, op := range rev.Ops {
			if err := acc.apply(op); err != nil {
				return nil, fmt.Errorf("fold: revision %d op %d: %w", rev.Index, i, err)
			}
		}
	}
	return acc, nil
}

// apply folds a single diff op into the snapshot.
func (s *Snapshot) apply(op Op) error {
	switch op.Kind {
	case OpAddGrid:
		if op.Grid == nil {
			return fmt.Errorf("%s: missing grid payload", op.Kind)
		}
		if s.grid(op.Grid.ID) != nil {
			return fmt.Errorf("%s: grid %d already present", op.Kind, op.Grid.ID)
		}
		s.Grids = append(s.Grids, GridState{
			ID:        op.Grid.ID,
			Dynamic:   op.Grid.Dynamic,
			Transform: op.Grid.Transform,
		})
		return nil

	case OpAddBrick:
		if op.Brick == nil {
			return fmt.Errorf("%s: missing brick payload", op.Kind)
		}
		g := s.grid(op.On)
		if g == nil {
			return fmt.Errorf("%s: unknown grid %d", op.Kind, op.On)
		}
		g.Bricks = append(g.Bricks, *op.Brick)
		return nil

	case OpUpdateBrick:
		if op.Brick == nil {
			return fmt.Errorf("%s: missing brick payload", op.Kind)
		}
		g := s.grid(op.On)
		if g == nil {
			return fmt.Errorf("%s: unknown grid %d", op.Kind, op.On)
		}
		for i := range g.Bricks {
			if g.Bricks[i].ID == op.Brick.ID {
				g.Bricks[i] = *op.Brick
				return nil
			}
		}
		return fmt.Errorf("%s: brick %d not in grid %d", op.Kind, op.Brick.ID, op.On)

	case OpAddJoint:
		if op.Joint == nil {
			return fmt.Errorf("%s: missing joint payload", op.Kind)
		}
		s.Joints = append(s.Joints, *op.Joint)
		return nil

	default:
		return fmt.Errorf("unknown op kind %q", op.Kind)
	}
}

func (s *Snapshot) grid(id GridID) *GridState {
	for i := range s.Grids {
		if s.Grids[i].ID == id {
			return &s.Grids[i]
		}
	}
	return nil
}
