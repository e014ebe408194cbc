package testutil

import "github.com/voxelop/worldopt/internal/world"

// WheelBrick returns a wheel brick with live physics, ready to be
// frozen by the engine.
func WheelBrick(id uint32, addedIn int, mass float64) *world.Brick {
	return &world.Brick{
		ID:      id,
		ShapeID: "B_Wheel_10x10",
		AddedIn: addedIn,
		Physics: &world.PhysicsComponent{
			Mass:     mass,
			Velocity: world.Vec3{X: 1},
		},
		Engine: &world.WheelEngineComponent{Torque: 100, Weight: mass},
	}
}

// LampBrick returns a shadow-casting light brick exceeding the default
// clamp bounds.
func LampBrick(id uint32, addedIn int) *world.Brick {
	return &world.Brick{
		ID:      id,
		ShapeID: "B_Lamp_2x2",
		AddedIn: addedIn,
		Light: &world.LightComponent{
			Kind:        world.LightKindPoint,
			Radius:      500,
			Brightness:  10,
			CastShadows: true,
		},
	}
}

// SealHistory gives w a minimal valid revision history: one snapshot
// of the current state followed by n-1 empty diffs.
func SealHistory(w *world.World, n int) {
	if n < 1 {
		n = 1
	}
	w.Revisions = []*world.Revision{
		{Index: 1, Kind: world.RevisionSnapshot, Note: "initial", Snapshot: world.Capture(w)},
	}
	for i := 2; i <= n; i++ {
		w.Revisions = append(w.Revisions, &world.Revision{Index: i, Kind: world.RevisionDiff})
	}
}
