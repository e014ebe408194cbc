package world

// GridID identifies a grid within a world. The main structural grid is
// conventionally grid 1 in the container format, but nothing in the
// engine relies on that - classification goes by the Dynamic flag.
type GridID uint32

// GridKind labels a grid as the main structural grid or a dynamic
// physics sub-grid. Assigned by the classifier, not stored on disk.
type GridKind string

const (
	GridKindMain    GridKind = "main"
	GridKindPhysics GridKind = "physics"
)

// BrickClass is the classifier's shape tag for a brick.
// Every brick receives exactly one class; unmatched shapes are "other".
type BrickClass string

const (
	BrickClassWheel  BrickClass = "wheel"
	BrickClassSphere BrickClass = "sphere"
	BrickClassOther  BrickClass = "other"
)

// LightKind distinguishes light component variants.
type LightKind string

const (
	LightKindPoint LightKind = "point"
	LightKindSpot  LightKind = "spot"
)

// JointKind distinguishes joint constraint variants.
type JointKind string

const (
	JointKindBearing JointKind = "bearing"
	JointKindSlider  JointKind = "slider"
	JointKindWheel   JointKind = "wheel"
)

// Vec3 is a plain 3-component vector. The engine only ever zeroes or
// compares these; it performs no vector arithmetic.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Zero reports whether all three components are exactly zero.
func (v Vec3) Zero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Transform is a grid's placement in world space. Rotation is stored as
// Euler angles in degrees, matching the container format.
type Transform struct {
	Position Vec3 `json:"position"`
	Rotation Vec3 `json:"rotation"`
}

// World is the root container for a decoded world file.
//
// INVARIANTS (validated by the engine after mutation, §validate):
//   - exactly one grid classifies as main
//   - every physics grid is reachable from the main grid through joints
//   - every joint anchor resolves to a live brick
//   - every AddedIn index refers to a revision that still exists
type World struct {
	Name      string
	Grids     []*Grid
	Joints    []*Joint
	Revisions []*Revision
}

// Grid returns the grid with the given ID, or nil if absent.
func (w *World) Grid(id GridID) *Grid {
	for _, g := range w.Grids {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// BrickCount returns the total number of bricks across all grids.
func (w *World) BrickCount() int {
	n := 0
	for _, g := range w.Grids {
		n += len(g.Bricks)
	}
	return n
}

// Grid is a rigid collection of bricks sharing one coordinate frame.
// Grids are created during decode and never deleted by the engine;
// mutation only touches their contents.
type Grid struct {
	ID        GridID
	Dynamic   bool // decoded from the container: dynamic physics sub-grid
	Transform Transform
	Bricks    []*Brick
}

// Brick is a placed structural unit. Brick identity (ID) is stable
// across revisions. Component presence is optional per variant; a nil
// component means the brick does not carry that data.
type Brick struct {
	ID      uint32
	ShapeID string

	// AddedIn is the 1-based index of the revision this brick was
	// introduced in. Compaction re-bases it to 1.
	AddedIn int

	Physics *PhysicsComponent
	Engine  *WheelEngineComponent
	Light   *LightComponent
}

// PhysicsComponent carries the simulation state of a physics-bearing
// brick. Freezing zeroes the velocities and sets Frozen.
type PhysicsComponent struct {
	Mass            float64 `json:"mass"`
	Velocity        Vec3    `json:"velocity"`
	AngularVelocity Vec3    `json:"angular_velocity"`
	Frozen          bool    `json:"frozen"`
}

// WheelEngineComponent carries motor data attached to wheel bricks.
type WheelEngineComponent struct {
	Torque float64 `json:"torque"`
	Weight float64 `json:"weight"`
}

// LightComponent carries render data for light-emitting bricks.
type LightComponent struct {
	Kind        LightKind `json:"kind"`
	Radius      float64   `json:"radius"`
	Brightness  float64   `json:"brightness"`
	CastShadows bool      `json:"cast_shadows"`
}

// MotorParams are optional drive parameters on a joint.
type MotorParams struct {
	TargetSpeed float64 `json:"target_speed"`
	MaxTorque   float64 `json:"max_torque"`
}

// Joint connects two bricks, usually across grids. Anchors are
// non-owning BrickRef handles; both must resolve after any mutation.
type Joint struct {
	Kind  JointKind
	A     BrickRef
	B     BrickRef
	Motor *MotorParams

	// AddedIn is the 1-based revision index the joint was introduced in.
	AddedIn int
}
