package physics

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

type AABB struct {
	Min rl.Vector3
	Max rl.Vector3
}

// NewAABBFromCenter creates an AABB from a center point and full size dimensions.
func NewAABBFromCenter(center, size rl.Vector3) AABB {
	half := rl.Vector3{X: math32.Abs(size.X) / 2, Y: math32.Abs(size.Y) / 2, Z: math32.Abs(size.Z) / 2}
	return AABB{
		Min: rl.Vector3Subtract(center, half),
		Max: rl.Vector3Add(center, half),
	}
}

// FromBoundingBox converts a raylib bounding box.
func FromBoundingBox(b rl.BoundingBox) AABB {
	return AABB{Min: b.Min, Max: b.Max}
}

func (a AABB) BoundingBox() rl.BoundingBox {
	return rl.BoundingBox{Min: a.Min, Max: a.Max}
}

func (a AABB) Center() rl.Vector3 {
	return rl.Vector3Scale(rl.Vector3Add(a.Min, a.Max), 0.5)
}

// HalfExtents returns half the box size along each axis.
func (a AABB) HalfExtents() rl.Vector3 {
	return rl.Vector3Scale(rl.Vector3Subtract(a.Max, a.Min), 0.5)
}

// Radius is the radius of the sphere enclosing the box.
func (a AABB) Radius() float32 {
	return rl.Vector3Length(a.HalfExtents())
}

func (a AABB) Intersects(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

func (a AABB) ContainsPoint(p rl.Vector3) bool {
	return p.X >= a.Min.X && p.X <= a.Max.X &&
		p.Y >= a.Min.Y && p.Y <= a.Max.Y &&
		p.Z >= a.Min.Z && p.Z <= a.Max.Z
}

// Merge returns the smallest box containing both a and b.
func (a AABB) Merge(b AABB) AABB {
	return AABB{Min: rl.Vector3Min(a.Min, b.Min), Max: rl.Vector3Max(a.Max, b.Max)}
}

// Transform returns the world-axis-aligned box enclosing a after m.
func (a AABB) Transform(m rl.Matrix) AABB {
	c := rl.Vector3Transform(a.Center(), m)
	e := a.HalfExtents()
	half := rl.Vector3{
		X: math32.Abs(m.M0)*e.X + math32.Abs(m.M4)*e.Y + math32.Abs(m.M8)*e.Z,
		Y: math32.Abs(m.M1)*e.X + math32.Abs(m.M5)*e.Y + math32.Abs(m.M9)*e.Z,
		Z: math32.Abs(m.M2)*e.X + math32.Abs(m.M6)*e.Y + math32.Abs(m.M10)*e.Z,
	}
	return AABB{Min: rl.Vector3Subtract(c, half), Max: rl.Vector3Add(c, half)}
}
