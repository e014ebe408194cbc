package store

import (
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/voxelop/worldopt/internal/world"
)

// On-disk DTOs. Versioned separately from the in-memory model so the
// disk schema can evolve without dragging the engine types along.

type gridV1 struct {
	ID        uint32      `json:"id"`
	Dynamic   bool        `json:"dynamic,omitempty"`
	Transform transformV1 `json:"transform"`
	Bricks    []brickV1   `json:"bricks"`
}

type transformV1 struct {
	Position vec3V1 `json:"position"`
	Rotation vec3V1 `json:"rotation"`
}

type vec3V1 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type brickV1 struct {
	ID      uint32     `json:"id"`
	ShapeID string     `json:"shape_id"`
	AddedIn int        `json:"added_in"`
	Physics *physicsV1 `json:"physics,omitempty"`
	Engine  *engineV1  `json:"engine,omitempty"`
	Light   *lightV1   `json:"light,omitempty"`
}

type physicsV1 struct {
	Mass            float64 `json:"mass"`
	Velocity        vec3V1  `json:"velocity"`
	AngularVelocity vec3V1  `json:"angular_velocity"`
	Frozen          bool    `json:"frozen"`
}

type engineV1 struct {
	Torque float64 `json:"torque"`
	Weight float64 `json:"weight"`
}

type lightV1 struct {
	Kind        string  `json:"kind"`
	Radius      float64 `json:"radius"`
	Brightness  float64 `json:"brightness"`
	CastShadows bool    `json:"cast_shadows"`
}

type jointV1 struct {
	Kind    string   `json:"kind"`
	A       refV1    `json:"a"`
	B       refV1    `json:"b"`
	Motor   *motorV1 `json:"motor,omitempty"`
	AddedIn int      `json:"added_in"`
}

type refV1 struct {
	Grid  uint32 `json:"grid"`
	Index int    `json:"index"`
}

type motorV1 struct {
	TargetSpeed float64 `json:"target_speed"`
	MaxTorque   float64 `json:"max_torque"`
}

type revisionV1 struct {
	Index    int         `json:"index"`
	Kind     string      `json:"kind"`
	Note     string      `json:"note,omitempty"`
	Snapshot *snapshotV1 `json:"snapshot,omitempty"`
	Ops      []opV1      `json:"ops,omitempty"`
}

type snapshotV1 struct {
	Name   string    `json:"name"`
	Grids  []gridV1  `json:"grids"`
	Joints []jointV1 `json:"joints"`
}

type opV1 struct {
	Kind  string   `json:"kind"`
	On    uint32   `json:"on,omitempty"`
	Grid  *gridV1  `json:"grid,omitempty"`
	Brick *brickV1 `json:"brick,omitempty"`
	Joint *jointV1 `json:"joint,omitempty"`
}

// marshalSection JSON-encodes v and compresses it. Returns the blob
// and the uncompressed size for the raw_size column.
func marshalSection(v any) ([]byte, int, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, 0, fmt.Errorf("marshal section: %w", err)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, 0, fmt.Errorf("zstd writer: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(raw, nil), len(raw), nil
}

// unmarshalSection decompresses a blob and JSON-decodes it into v.
func unmarshalSection(blob []byte, v any) error {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(blob, nil)
	if err != nil {
		return fmt.Errorf("decompress section: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("unmarshal section: %w", err)
	}
	return nil
}

// Model → DTO conversions.

func gridToV1(g *world.Grid) gridV1 {
	gv := gridV1{
		ID:      uint32(g.ID),
		Dynamic: g.Dynamic,
		Transform: transformV1{
			Position: vec3ToV1(g.Transform.Position),
			Rotation: vec3ToV1(g.Transform.Rotation),
		},
		Bricks: make([]brickV1, 0, len(g.Bricks)),
	}
	for _, b := range g.Bricks {
		gv.Bricks = append(gv.Bricks, brickToV1(b))
	}
	return gv
}

func brickToV1(b *world.Brick) brickV1 {
	bv := brickV1{ID: b.ID, ShapeID: b.ShapeID, AddedIn: b.AddedIn}
	if b.Physics != nil {
		bv.Physics = &physicsV1{
			Mass:            b.Physics.Mass,
			Velocity:        vec3ToV1(b.Physics.Velocity),
			AngularVelocity: vec3ToV1(b.Physics.AngularVelocity),
			Frozen:          b.Physics.Frozen,
		}
	}
	if b.Engine != nil {
		bv.Engine = &engineV1{Torque: b.Engine.Torque, Weight: b.Engine.Weight}
	}
	if b.Light != nil {
		bv.Light = &lightV1{
			Kind:        string(b.Light.Kind),
			Radius:      b.Light.Radius,
			Brightness:  b.Light.Brightness,
			CastShadows: b.Light.CastShadows,
		}
	}
	return bv
}

func jointToV1(j *world.Joint) jointV1 {
	jv := jointV1{
		Kind:    string(j.Kind),
		A:       refV1{Grid: uint32(j.A.Grid), Index: j.A.Index},
		B:       refV1{Grid: uint32(j.B.Grid), Index: j.B.Index},
		AddedIn: j.AddedIn,
	}
	if j.Motor != nil {
		jv.Motor = &motorV1{TargetSpeed: j.Motor.TargetSpeed, MaxTorque: j.Motor.MaxTorque}
	}
	return jv
}

func revisionToV1(r *world.Revision) revisionV1 {
	rv := revisionV1{Index: r.Index, Kind: string(r.Kind), Note: r.Note}
	if r.Snapshot != nil {
		rv.Snapshot = snapshotToV1(r.Snapshot)
	}
	for _, op := range r.Ops {
		rv.Ops = append(rv.Ops, opToV1(op))
	}
	return rv
}

func snapshotToV1(s *world.Snapshot) *snapshotV1 {
	sv := &snapshotV1{Name: s.Name}
	for i := range s.Grids {
		gs := s.Grids[i]
		gv := gridV1{
			ID:      uint32(gs.ID),
			Dynamic: gs.Dynamic,
			Transform: transformV1{
				Position: vec3ToV1(gs.Transform.Position),
				Rotation: vec3ToV1(gs.Transform.Rotation),
			},
			Bricks: make([]brickV1, 0, len(gs.Bricks)),
		}
		for j := range gs.Bricks {
			gv.Bricks = append(gv.Bricks, brickStateToV1(gs.Bricks[j]))
		}
		sv.Grids = append(sv.Grids, gv)
	}
	for i := range s.Joints {
		sv.Joints = append(sv.Joints, jointStateToV1(s.Joints[i]))
	}
	return sv
}

func brickStateToV1(bs world.BrickState) brickV1 {
	bv := brickV1{ID: bs.ID, ShapeID: bs.ShapeID, AddedIn: bs.AddedIn}
	if bs.Physics != nil {
		bv.Physics = &physicsV1{
			Mass:            bs.Physics.Mass,
			Velocity:        vec3ToV1(bs.Physics.Velocity),
			AngularVelocity: vec3ToV1(bs.Physics.AngularVelocity),
			Frozen:          bs.Physics.Frozen,
		}
	}
	if bs.Engine != nil {
		bv.Engine = &engineV1{Torque: bs.Engine.Torque, Weight: bs.Engine.Weight}
	}
	if bs.Light != nil {
		bv.Light = &lightV1{
			Kind:        string(bs.Light.Kind),
			Radius:      bs.Light.Radius,
			Brightness:  bs.Light.Brightness,
			CastShadows: bs.Light.CastShadows,
		}
	}
	return bv
}

func jointStateToV1(js world.JointState) jointV1 {
	jv := jointV1{
		Kind:    string(js.Kind),
		A:       refV1{Grid: uint32(js.A.Grid), Index: js.A.Index},
		B:       refV1{Grid: uint32(js.B.Grid), Index: js.B.Index},
		AddedIn: js.AddedIn,
	}
	if js.Motor != nil {
		jv.Motor = &motorV1{TargetSpeed: js.Motor.TargetSpeed, MaxTorque: js.Motor.MaxTorque}
	}
	return jv
}

func opToV1(op world.Op) opV1 {
	ov := opV1{Kind: string(op.Kind), On: uint32(op.On)}
	if op.Grid != nil {
		ov.Grid = &gridV1{
			ID:      uint32(op.Grid.ID),
			Dynamic: op.Grid.Dynamic,
			Transform: transformV1{
				Position: vec3ToV1(op.Grid.Transform.Position),
				Rotation: vec3ToV1(op.Grid.Transform.Rotation),
			},
			Bricks: []brickV1{},
		}
	}
	if op.Brick != nil {
		bv := brickStateToV1(*op.Brick)
		ov.Brick = &bv
	}
	if op.Joint != nil {
		jv := jointStateToV1(*op.Joint)
		ov.Joint = &jv
	}
	return ov
}

func vec3ToV1(v world.Vec3) vec3V1 {
	return vec3V1{X: v.X, Y: v.Y, Z: v.Z}
}

// DTO → model conversions.

func gridFromV1(gv gridV1) *world.Grid {
	g := &world.Grid{
		ID:      world.GridID(gv.ID),
		Dynamic: gv.Dynamic,
		Transform: world.Transform{
			Position: vec3FromV1(gv.Transform.Position),
			Rotation: vec3FromV1(gv.Transform.Rotation),
		},
	}
	for _, bv := range gv.Bricks {
		g.Bricks = append(g.Bricks, brickFromV1(bv))
	}
	return g
}

func brickFromV1(bv brickV1) *world.Brick {
	b := &world.Brick{ID: bv.ID, ShapeID: bv.ShapeID, AddedIn: bv.AddedIn}
	if bv.Physics != nil {
		b.Physics = &world.PhysicsComponent{
			Mass:            bv.Physics.Mass,
			Velocity:        vec3FromV1(bv.Physics.Velocity),
			AngularVelocity: vec3FromV1(bv.Physics.AngularVelocity),
			Frozen:          bv.Physics.Frozen,
		}
	}
	if bv.Engine != nil {
		b.Engine = &world.WheelEngineComponent{Torque: bv.Engine.Torque, Weight: bv.Engine.Weight}
	}
	if bv.Light != nil {
		b.Light = &world.LightComponent{
			Kind:        world.LightKind(bv.Light.Kind),
			Radius:      bv.Light.Radius,
			Brightness:  bv.Light.Brightness,
			CastShadows: bv.Light.CastShadows,
		}
	}
	return b
}

func jointFromV1(jv jointV1) *world.Joint {
	j := &world.Joint{
		Kind:    world.JointKind(jv.Kind),
		A:       world.BrickRef{Grid: world.GridID(jv.A.Grid), Index: jv.A.Index},
		B:       world.BrickRef{Grid: world.GridID(jv.B.Grid), Index: jv.B.Index},
		AddedIn: jv.AddedIn,
	}
	if jv.Motor != nil {
		j.Motor = &world.MotorParams{TargetSpeed: jv.Motor.TargetSpeed, MaxTorque: jv.Motor.MaxTorque}
	}
	return j
}

func revisionFromV1(rv revisionV1) *world.Revision {
	r := &world.Revision{Index: rv.Index, Kind: world.RevisionKind(rv.Kind), Note: rv.Note}
	if rv.Snapshot != nil {
		r.Snapshot = snapshotFromV1(rv.Snapshot)
	}
	for _, ov := range rv.Ops {
		r.Ops = append(r.Ops, opFromV1(ov))
	}
	return r
}

func snapshotFromV1(sv *snapshotV1) *world.Snapshot {
	// Round-trip through the live-graph constructors and Capture to
	// reuse the component copying they already do.
	w := &world.World{Name: sv.Name}
	for _, gv := range sv.Grids {
		w.Grids = append(w.Grids, gridFromV1(gv))
	}
	for _, jv := range sv.Joints {
		w.Joints = append(w.Joints, jointFromV1(jv))
	}
	return world.Capture(w)
}

func opFromV1(ov opV1) world.Op {
	op := world.Op{Kind: world.OpKind(ov.Kind), On: world.GridID(ov.On)}
	if ov.Grid != nil {
		op.Grid = &world.GridState{
			ID:      world.GridID(ov.Grid.ID),
			Dynamic: ov.Grid.Dynamic,
			Transform: world.Transform{
				Position: vec3FromV1(ov.Grid.Transform.Position),
				Rotation: vec3FromV1(ov.Grid.Transform.Rotation),
			},
		}
	}
	if ov.Brick != nil {
		op.Brick = brickStateFromV1(*ov.Brick)
	}
	if ov.Joint != nil {
		op.Joint = jointStateFromV1(*ov.Joint)
	}
	return op
}

func brickStateFromV1(bv brickV1) *world.BrickState {
	bs := &world.BrickState{ID: bv.ID, ShapeID: bv.ShapeID, AddedIn: bv.AddedIn}
	if bv.Physics != nil {
		bs.Physics = &world.PhysicsComponent{
			Mass:            bv.Physics.Mass,
			Velocity:        vec3FromV1(bv.Physics.Velocity),
			AngularVelocity: vec3FromV1(bv.Physics.AngularVelocity),
			Frozen:          bv.Physics.Frozen,
		}
	}
	if bv.Engine != nil {
		bs.Engine = &world.WheelEngineComponent{Torque: bv.Engine.Torque, Weight: bv.Engine.Weight}
	}
	if bv.Light != nil {
		bs.Light = &world.LightComponent{
			Kind:        world.LightKind(bv.Light.Kind),
			Radius:      bv.Light.Radius,
			Brightness:  bv.Light.Brightness,
			CastShadows: bv.Light.CastShadows,
		}
	}
	return bs
}

func jointStateFromV1(jv jointV1) *world.JointState {
	js := &world.JointState{
		Kind:    world.JointKind(jv.Kind),
		A:       world.BrickRef{Grid: world.GridID(jv.A.Grid), Index: jv.A.Index},
		B:       world.BrickRef{Grid: world.GridID(jv.B.Grid), Index: jv.B.Index},
		AddedIn: jv.AddedIn,
	}
	if jv.Motor != nil {
		js.Motor = &world.MotorParams{TargetSpeed: jv.Motor.TargetSpeed, MaxTorque: jv.Motor.MaxTorque}
	}
	return js
}

func vec3FromV1(v vec3V1) world.Vec3 {
	return world.Vec3{X: v.X, Y: v.Y, Z: v.Z}
}
