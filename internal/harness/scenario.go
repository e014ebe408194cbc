package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/voxelop/worldopt/internal/world"
)

// Scenario defines one optimization test case: the world to build,
// the pipeline options to run it with, and the expected run report.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden fixtures are
	// stored under this name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// RunToken is an optional fixed run token for deterministic runs.
	// If empty, defaults to "test-run-default".
	RunToken string `yaml:"run_token,omitempty"`

	// World describes the input world graph.
	World WorldDef `yaml:"world"`

	// Options tune the pipeline. Zero values mean engine defaults.
	Options OptionsDef `yaml:"options,omitempty"`

	// Expect holds the expected run report numbers, or the expected
	// integrity error code for failure scenarios.
	Expect ExpectDef `yaml:"expect"`
}

// WorldDef describes the input world.
type WorldDef struct {
	Name   string     `yaml:"name"`
	Grids  []GridDef  `yaml:"grids"`
	Joints []JointDef `yaml:"joints,omitempty"`

	// Revisions is the history length: one snapshot of the built world
	// followed by revisions-1 empty diffs. Defaults to 1.
	Revisions int `yaml:"revisions,omitempty"`
}

// GridDef describes one grid.
type GridDef struct {
	ID      uint32     `yaml:"id"`
	Dynamic bool       `yaml:"dynamic,omitempty"`
	Bricks  []BrickDef `yaml:"bricks"`
}

// BrickDef describes one brick with optional components.
type BrickDef struct {
	ID      uint32      `yaml:"id"`
	Shape   string      `yaml:"shape"`
	AddedIn int         `yaml:"added_in,omitempty"`
	Physics *PhysicsDef `yaml:"physics,omitempty"`
	Engine  *EngineDef  `yaml:"engine,omitempty"`
	Light   *LightDef   `yaml:"light,omitempty"`
}

// PhysicsDef mirrors world.PhysicsComponent.
type PhysicsDef struct {
	Mass            float64 `yaml:"mass"`
	Velocity        Vec3Def `yaml:"velocity,omitempty"`
	AngularVelocity Vec3Def `yaml:"angular_velocity,omitempty"`
	Frozen          bool    `yaml:"frozen,omitempty"`
}

// Vec3Def mirrors world.Vec3.
type Vec3Def struct {
	X float64 `yaml:"x,omitempty"`
	Y float64 `yaml:"y,omitempty"`
	Z float64 `yaml:"z,omitempty"`
}

// EngineDef mirrors world.WheelEngineComponent.
type EngineDef struct {
	Torque float64 `yaml:"torque"`
	Weight float64 `yaml:"weight"`
}

// LightDef mirrors world.LightComponent.
type LightDef struct {
	Kind        string  `yaml:"kind"`
	Radius      float64 `yaml:"radius"`
	Brightness  float64 `yaml:"brightness"`
	CastShadows bool    `yaml:"cast_shadows,omitempty"`
}

// JointDef describes one joint.
type JointDef struct {
	Kind    string    `yaml:"kind"`
	A       RefDef    `yaml:"a"`
	B       RefDef    `yaml:"b"`
	Motor   *MotorDef `yaml:"motor,omitempty"`
	AddedIn int       `yaml:"added_in,omitempty"`
}

// RefDef mirrors world.BrickRef.
type RefDef struct {
	Grid  uint32 `yaml:"grid"`
	Index int    `yaml:"index"`
}

// MotorDef mirrors world.MotorParams.
type MotorDef struct {
	TargetSpeed float64 `yaml:"target_speed"`
	MaxTorque   float64 `yaml:"max_torque"`
}

// OptionsDef tunes the pipeline for a scenario.
type OptionsDef struct {
	NoCompact          bool    `yaml:"no_compact,omitempty"`
	LightRadiusMax     float64 `yaml:"light_radius_max,omitempty"`
	LightBrightnessMax float64 `yaml:"light_brightness_max,omitempty"`
	ZeroPhysicsWeight  bool    `yaml:"zero_physics_weight,omitempty"`
}

// ExpectDef holds scenario expectations. Counters are always compared
// (an absent key asserts zero); Changed is only compared when set.
type ExpectDef struct {
	// ErrorCode, when non-empty, marks a failure scenario: the run must
	// fail with a GraphIntegrityError carrying this code, and the
	// counters below are not evaluated.
	ErrorCode string `yaml:"error_code,omitempty"`

	FrozenBricks       int   `yaml:"frozen_bricks,omitempty"`
	ZeroedMass         int   `yaml:"zeroed_mass,omitempty"`
	ZeroedEngines      int   `yaml:"zeroed_engines,omitempty"`
	ShadowsOff         int   `yaml:"shadows_off,omitempty"`
	ClampedLights      int   `yaml:"clamped_lights,omitempty"`
	DiscardedRevisions int   `yaml:"discarded_revisions,omitempty"`
	Changed            *bool `yaml:"changed,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields
// are rejected so a typo'd key fails loudly instead of silently
// weakening the scenario.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.World.Grids) == 0 {
		return fmt.Errorf("world.grids is required and must be non-empty")
	}
	if s.World.Revisions < 0 {
		return fmt.Errorf("world.revisions must be non-negative")
	}

	for i, g := range s.World.Grids {
		if len(g.Bricks) == 0 {
			return fmt.Errorf("world.grids[%d]: bricks is required and must be non-empty", i)
		}
		for j, b := range g.Bricks {
			if b.Shape == "" {
				return fmt.Errorf("world.grids[%d].bricks[%d]: shape is required", i, j)
			}
		}
	}
	for i, j := range s.World.Joints {
		if j.Kind == "" {
			return fmt.Errorf("world.joints[%d]: kind is required", i)
		}
	}
	return nil
}

// BuildWorld materializes the scenario's world definition as a live
// graph with a sealed revision history.
func (s *Scenario) BuildWorld() *world.World {
	w := &world.World{Name: s.World.Name}

	for _, gd := range s.World.Grids {
		g := &world.Grid{ID: world.GridID(gd.ID), Dynamic: gd.Dynamic}
		for _, bd := range gd.Bricks {
			g.Bricks = append(g.Bricks, bd.build())
		}
		w.Grids = append(w.Grids, g)
	}
	for _, jd := range s.World.Joints {
		j := &world.Joint{
			Kind:    world.JointKind(jd.Kind),
			A:       world.BrickRef{Grid: world.GridID(jd.A.Grid), Index: jd.A.Index},
			B:       world.BrickRef{Grid: world.GridID(jd.B.Grid), Index: jd.B.Index},
			AddedIn: defaultRevision(jd.AddedIn),
		}
		if jd.Motor != nil {
			j.Motor = &world.MotorParams{TargetSpeed: jd.Motor.TargetSpeed, MaxTorque: jd.Motor.MaxTorque}
		}
		w.Joints = append(w.Joints, j)
	}

	n := s.World.Revisions
	if n < 1 {
		n = 1
	}
	w.Revisions = []*world.Revision{
		{Index: 1, Kind: world.RevisionSnapshot, Note: "initial", Snapshot: world.Capture(w)},
	}
	for i := 2; i <= n; i++ {
		w.Revisions = append(w.Revisions, &world.Revision{Index: i, Kind: world.RevisionDiff})
	}
	return w
}

func (bd BrickDef) build() *world.Brick {
	b := &world.Brick{
		ID:      bd.ID,
		ShapeID: bd.Shape,
		AddedIn: defaultRevision(bd.AddedIn),
	}
	if bd.Physics != nil {
		b.Physics = &world.PhysicsComponent{
			Mass:            bd.Physics.Mass,
			Velocity:        bd.Physics.Velocity.build(),
			AngularVelocity: bd.Physics.AngularVelocity.build(),
			Frozen:          bd.Physics.Frozen,
		}
	}
	if bd.Engine != nil {
		b.Engine = &world.WheelEngineComponent{Torque: bd.Engine.Torque, Weight: bd.Engine.Weight}
	}
	if bd.Light != nil {
		b.Light = &world.LightComponent{
			Kind:        world.LightKind(bd.Light.Kind),
			Radius:      bd.Light.Radius,
			Brightness:  bd.Light.Brightness,
			CastShadows: bd.Light.CastShadows,
		}
	}
	return b
}

func (v Vec3Def) build() world.Vec3 {
	return world.Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

// defaultRevision maps an omitted added_in to the first revision.
func defaultRevision(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
