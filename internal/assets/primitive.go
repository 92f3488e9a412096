package assets

import (
	"fmt"
	"strconv"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"scene3d/internal/physics"
)

type PrimitiveShape int

const (
	PrimitiveCube PrimitiveShape = iota
	PrimitivePlane
	PrimitiveSphere
)

// Primitive is a generated mesh named inline instead of loaded from disk:
// "cube:w,h,d", "plane:w,d" or "sphere:r".
type Primitive struct {
	Shape PrimitiveShape
	Size  rl.Vector3
}

// ParsePrimitive reports ok=false when name is not a primitive at all, and an
// error when it is one but malformed.
func ParsePrimitive(name string) (Primitive, bool, error) {
	prefix, args, found := strings.Cut(name, ":")
	if !found {
		return Primitive{}, false, nil
	}

	var shape PrimitiveShape
	var want int
	switch prefix {
	case "cube":
		shape, want = PrimitiveCube, 3
	case "plane":
		shape, want = PrimitivePlane, 2
	case "sphere":
		shape, want = PrimitiveSphere, 1
	default:
		return Primitive{}, false, nil
	}

	fields := strings.Split(args, ",")
	if len(fields) != want {
		return Primitive{}, true, fmt.Errorf("primitive %q: want %d values, got %d", name, want, len(fields))
	}
	vals := make([]float32, want)
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 32)
		if err != nil || v <= 0 {
			return Primitive{}, true, fmt.Errorf("primitive %q: bad value %q", name, f)
		}
		vals[i] = float32(v)
	}

	p := Primitive{Shape: shape}
	switch shape {
	case PrimitiveCube:
		p.Size = rl.Vector3{X: vals[0], Y: vals[1], Z: vals[2]}
	case PrimitivePlane:
		p.Size = rl.Vector3{X: vals[0], Z: vals[1]}
	case PrimitiveSphere:
		p.Size = rl.Vector3{X: vals[0], Y: vals[0], Z: vals[0]}
	}
	return p, true, nil
}

// Bounds returns the local extents of the generated mesh.
func (p Primitive) Bounds() physics.AABB {
	switch p.Shape {
	case PrimitiveSphere:
		return physics.NewAABBFromCenter(rl.Vector3{}, rl.Vector3Scale(p.Size, 2))
	default:
		return physics.NewAABBFromCenter(rl.Vector3{}, p.Size)
	}
}
