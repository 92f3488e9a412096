package engine

import (
	"fmt"
	"strconv"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Transform is a node's local placement relative to its parent.
type Transform struct {
	Position rl.Vector3
	Rotation rl.Vector3 // Euler angles in degrees
	Scale    rl.Vector3
}

// IdentityTransform places a node at its parent's origin with unit scale.
func IdentityTransform() Transform {
	return Transform{Scale: rl.Vector3{X: 1, Y: 1, Z: 1}}
}

// Matrix composes scale, then rotation (X then Y then Z), then translation.
func (t Transform) Matrix() rl.Matrix {
	scale := rl.MatrixScale(t.Scale.X, t.Scale.Y, t.Scale.Z)
	rotX := rl.MatrixRotateX(t.Rotation.X * rl.Deg2rad)
	rotY := rl.MatrixRotateY(t.Rotation.Y * rl.Deg2rad)
	rotZ := rl.MatrixRotateZ(t.Rotation.Z * rl.Deg2rad)
	rot := rl.MatrixMultiply(rl.MatrixMultiply(rotX, rotY), rotZ)
	translate := rl.MatrixTranslate(t.Position.X, t.Position.Y, t.Position.Z)
	return rl.MatrixMultiply(rl.MatrixMultiply(scale, rot), translate)
}

// ParseTransform reads "px py pz [rx ry rz [sx sy sz]]". Missing rotation is
// zero and missing scale is one. Commas are accepted as separators.
func ParseTransform(s string) (Transform, error) {
	fields := strings.Fields(strings.ReplaceAll(s, ",", " "))
	switch len(fields) {
	case 3, 6, 9:
	default:
		return Transform{}, fmt.Errorf("parse transform %q: want 3, 6 or 9 values, got %d", s, len(fields))
	}

	vals := make([]float32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return Transform{}, fmt.Errorf("parse transform %q: %w", s, err)
		}
		vals[i] = float32(v)
	}

	t := IdentityTransform()
	t.Position = rl.Vector3{X: vals[0], Y: vals[1], Z: vals[2]}
	if len(vals) >= 6 {
		t.Rotation = rl.Vector3{X: vals[3], Y: vals[4], Z: vals[5]}
	}
	if len(vals) == 9 {
		t.Scale = rl.Vector3{X: vals[6], Y: vals[7], Z: vals[8]}
	}
	return t, nil
}

// String renders the transform in the form ParseTransform reads, dropping
// trailing identity groups.
func (t Transform) String() string {
	parts := []float32{t.Position.X, t.Position.Y, t.Position.Z}
	unitScale := t.Scale == rl.Vector3{X: 1, Y: 1, Z: 1}
	if t.Rotation != (rl.Vector3{}) || !unitScale {
		parts = append(parts, t.Rotation.X, t.Rotation.Y, t.Rotation.Z)
	}
	if !unitScale {
		parts = append(parts, t.Scale.X, t.Scale.Y, t.Scale.Z)
	}

	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strconv.FormatFloat(float64(p), 'g', -1, 32)
	}
	return strings.Join(out, " ")
}
