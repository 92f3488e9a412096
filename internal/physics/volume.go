package physics

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Volume is a culling region. Frustum and LineVolume implement it.
type Volume interface {
	IntersectsAABB(b AABB) bool
	IntersectsSphere(center rl.Vector3, radius float32) bool
}

// LineVolume is a capsule around the segment Start-End. Boxes are tested
// through their enclosing sphere, which keeps the test conservative.
type LineVolume struct {
	Start  rl.Vector3
	End    rl.Vector3
	Radius float32
}

func (l LineVolume) IntersectsAABB(b AABB) bool {
	return l.IntersectsSphere(b.Center(), b.Radius())
}

func (l LineVolume) IntersectsSphere(center rl.Vector3, radius float32) bool {
	return l.Distance(center) <= l.Radius+radius
}

// Distance returns the distance from p to the closest point on the segment.
func (l LineVolume) Distance(p rl.Vector3) float32 {
	seg := rl.Vector3Subtract(l.End, l.Start)
	lenSq := rl.Vector3LengthSqr(seg)
	if lenSq == 0 {
		return rl.Vector3Distance(p, l.Start)
	}
	t := clampf(rl.Vector3DotProduct(rl.Vector3Subtract(p, l.Start), seg)/lenSq, 0, 1)
	closest := rl.Vector3Add(l.Start, rl.Vector3Scale(seg, t))
	return rl.Vector3Distance(p, closest)
}

type Sphere struct {
	Center rl.Vector3
	Radius float32
}

// Overlaps reports whether two spheres touch or intersect.
func (s Sphere) Overlaps(o Sphere) bool {
	return rl.Vector3Distance(s.Center, o.Center) <= s.Radius+o.Radius
}
