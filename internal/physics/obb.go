package physics

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OBB represents an Oriented Bounding Box
type OBB struct {
	Center   rl.Vector3    // World-space center
	HalfSize rl.Vector3    // Half-extents along local axes
	Axes     [3]rl.Vector3 // Local X, Y, Z axes (rotated)
}

// NewOBBFromMatrix places local bounds into world space. Scale in m ends up
// in HalfSize so Axes stay unit length.
func NewOBBFromMatrix(local AABB, m rl.Matrix) OBB {
	cols := [3]rl.Vector3{
		{X: m.M0, Y: m.M1, Z: m.M2},
		{X: m.M4, Y: m.M5, Z: m.M6},
		{X: m.M8, Y: m.M9, Z: m.M10},
	}
	half := local.HalfExtents()
	scaled := [3]float32{half.X, half.Y, half.Z}

	o := OBB{Center: rl.Vector3Transform(local.Center(), m)}
	for i, col := range cols {
		l := rl.Vector3Length(col)
		if l == 0 {
			// Degenerate axis: keep a unit axis with zero extent.
			o.Axes[i] = unitAxis(i)
			scaled[i] = 0
			continue
		}
		o.Axes[i] = rl.Vector3Scale(col, 1/l)
		scaled[i] *= l
	}
	o.HalfSize = rl.Vector3{X: scaled[0], Y: scaled[1], Z: scaled[2]}
	return o
}

func unitAxis(i int) rl.Vector3 {
	switch i {
	case 0:
		return rl.Vector3{X: 1}
	case 1:
		return rl.Vector3{Y: 1}
	default:
		return rl.Vector3{Z: 1}
	}
}

// NewAABBasOBB creates an axis-aligned OBB (no rotation)
func NewAABBasOBB(a AABB) OBB {
	return OBB{
		Center:   a.Center(),
		HalfSize: a.HalfExtents(),
		Axes: [3]rl.Vector3{
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 1},
		},
	}
}

func (o OBB) halfSizes() [3]float32 {
	return [3]float32{o.HalfSize.X, o.HalfSize.Y, o.HalfSize.Z}
}

// local expresses a world point in the OBB's axes, relative to its center.
func (o OBB) local(p rl.Vector3) [3]float32 {
	d := rl.Vector3Subtract(p, o.Center)
	return [3]float32{
		rl.Vector3DotProduct(d, o.Axes[0]),
		rl.Vector3DotProduct(d, o.Axes[1]),
		rl.Vector3DotProduct(d, o.Axes[2]),
	}
}

// IntersectsSphere tests if an OBB intersects with a sphere
func (o OBB) IntersectsSphere(center rl.Vector3, radius float32) bool {
	p := ClosestPointOnOBB(o, center)
	return rl.Vector3DistanceSqr(p, center) <= radius*radius
}

// ClosestPointOnOBB returns the closest point on or inside the OBB to the given point
func ClosestPointOnOBB(o OBB, point rl.Vector3) rl.Vector3 {
	l := o.local(point)
	h := o.halfSizes()

	result := o.Center
	for i := range 3 {
		result = rl.Vector3Add(result, rl.Vector3Scale(o.Axes[i], clampf(l[i], -h[i], h[i])))
	}
	return result
}

// Corners returns the eight OBB vertices.
func (o OBB) Corners() [8]rl.Vector3 {
	var out [8]rl.Vector3
	ex := rl.Vector3Scale(o.Axes[0], o.HalfSize.X)
	ey := rl.Vector3Scale(o.Axes[1], o.HalfSize.Y)
	ez := rl.Vector3Scale(o.Axes[2], o.HalfSize.Z)
	for i := range 8 {
		c := o.Center
		c = addSigned(c, ex, i&1 != 0)
		c = addSigned(c, ey, i&2 != 0)
		c = addSigned(c, ez, i&4 != 0)
		out[i] = c
	}
	return out
}

func addSigned(c, v rl.Vector3, neg bool) rl.Vector3 {
	if neg {
		return rl.Vector3Subtract(c, v)
	}
	return rl.Vector3Add(c, v)
}

func clampf(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(v, hi))
}
