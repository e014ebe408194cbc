package world

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces deterministic JSON for a snapshot. This is
// the ONLY serialization used for digests, golden files, and snapshot
// equality - two snapshots are equal iff their canonical bytes are.
//
// Properties:
//  1. Object keys sorted bytewise (all keys are ASCII)
//  2. Strings NFC normalized, no HTML escaping
//  3. Floats rendered with shortest round-trip formatting; NaN and
//     Inf are errors (they cannot appear in a decodable world)
//  4. Absent optional components are omitted, never null
func (s *Snapshot) MarshalCanonical() ([]byte, error) {
	return marshalCanonical(s.canonicalMap())
}

func marshalCanonical(v any) ([]byte, error) {
	switch val := v.(type) {
	case string:
		return marshalCanonicalString(val)
	case bool:
		if val {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case int:
		return []byte(strconv.Itoa(val)), nil
	case int64:
		return []byte(strconv.FormatInt(val, 10)), nil
	case uint32:
		return []byte(strconv.FormatUint(uint64(val), 10)), nil
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, fmt.Errorf("non-finite float in canonical JSON: %v", val)
		}
		return []byte(strconv.FormatFloat(val, 'g', -1, 64)), nil
	case []any:
		return marshalCanonicalArray(val)
	case map[string]any:
		return marshalCanonicalObject(val)
	case nil:
		return nil, fmt.Errorf("null is forbidden in canonical JSON")
	default:
		return nil, fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
}

// marshalCanonicalString NFC-normalizes at the serialization boundary
// and disables HTML escaping so shape IDs like "B_2x2<round>" survive
// byte-for-byte.
func marshalCanonicalString(s string) ([]byte, error) {
	normalized := norm.NFC.String(s)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return nil, err
	}

	// json.Encoder adds a trailing newline, remove it
	result := buf.Bytes()
	if len(result) > 0 && result[len(result)-1] == '\n' {
		result = result[:len(result)-1]
	}
	return result, nil
}

func marshalCanonicalArray(arr []any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		elemBytes, err := marshalCanonical(elem)
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", i, err)
		}
		buf.Write(elemBytes)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func marshalCanonicalObject(obj map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := marshalCanonicalString(k)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valBytes, err := marshalCanonical(obj[k])
		if err != nil {
			return nil, fmt.Errorf("value for key %q: %w", k, err)
		}
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// canonicalMap renders the snapshot as plain maps/slices with explicit
// keys. Optional components appear only when present.
func (s *Snapshot) canonicalMap() map[string]any {
	grids := make([]any, len(s.Grids))
	for i, g := range s.Grids {
		grids[i] = g.canonicalMap()
	}
	joints := make([]any, len(s.Joints))
	for i, j := range s.Joints {
		joints[i] = j.canonicalMap()
	}
	return map[string]any{
		"name":   s.Name,
		"grids":  grids,
		"joints": joints,
	}
}

func (g GridState) canonicalMap() map[string]any {
	bricks := make([]any, len(g.Bricks))
	for i, b := range g.Bricks {
		bricks[i] = b.canonicalMap()
	}
	return map[string]any{
		"id":        uint32(g.ID),
		"dynamic":   g.Dynamic,
		"transform": g.Transform.canonicalMap(),
		"bricks":    bricks,
	}
}

func (b BrickState) canonicalMap() map[string]any {
	m := map[string]any{
		"id":       b.ID,
		"shape_id": b.ShapeID,
		"added_in": b.AddedIn,
	}
	if b.Physics != nil {
		m["physics"] = map[string]any{
			"mass":             b.Physics.Mass,
			"velocity":         b.Physics.Velocity.canonicalMap(),
			"angular_velocity": b.Physics.AngularVelocity.canonicalMap(),
			"frozen":           b.Physics.Frozen,
		}
	}
	if b.Engine != nil {
		m["engine"] = map[string]any{
			"torque": b.Engine.Torque,
			"weight": b.Engine.Weight,
		}
	}
	if b.Light != nil {
		m["light"] = map[string]any{
			"kind":         string(b.Light.Kind),
			"radius":       b.Light.Radius,
			"brightness":   b.Light.Brightness,
			"cast_shadows": b.Light.CastShadows,
		}
	}
	return m
}

func (j JointState) canonicalMap() map[string]any {
	m := map[string]any{
		"kind":     string(j.Kind),
		"a":        j.A.canonicalMap(),
		"b":        j.B.canonicalMap(),
		"added_in": j.AddedIn,
	}
	if j.Motor != nil {
		m["motor"] = map[string]any{
			"target_speed": j.Motor.TargetSpeed,
			"max_torque":   j.Motor.MaxTorque,
		}
	}
	return m
}

func (r BrickRef) canonicalMap() map[string]any {
	return map[string]any{
		"grid":  uint32(r.Grid),
		"index": r.Index,
	}
}

func (t Transform) canonicalMap() map[string]any {
	return map[string]any{
		"position": t.Position.canonicalMap(),
		"rotation": t.Rotation.canonicalMap(),
	}
}

func (v Vec3) canonicalMap() map[string]any {
	return map[string]any{
		"x": v.X,
		"y": v.Y,
		"z": v.Z,
	}
}
