package physics

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Plane represents a plane in 3D space (ax + by + cz + d = 0); points with a
// positive distance are on the inner side.
type Plane struct {
	Normal   rl.Vector3
	Distance float32
}

func newPlane(normal, point rl.Vector3) Plane {
	n := rl.Vector3Normalize(normal)
	return Plane{Normal: n, Distance: -rl.Vector3DotProduct(n, point)}
}

// SignedDistance returns the distance of p from the plane.
func (p Plane) SignedDistance(v rl.Vector3) float32 {
	return rl.Vector3DotProduct(p.Normal, v) + p.Distance
}

// Frustum represents the 6 planes of a view frustum for culling
type Frustum struct {
	planes [6]Plane // left, right, bottom, top, near, far
}

// NewFrustum builds a perspective frustum for a camera at eye looking at
// target. fovy is the vertical field of view in degrees.
func NewFrustum(eye, target, up rl.Vector3, fovy, aspect, near, far float32) Frustum {
	fwd := rl.Vector3Normalize(rl.Vector3Subtract(target, eye))
	right := rl.Vector3Normalize(rl.Vector3CrossProduct(fwd, up))
	upv := rl.Vector3CrossProduct(right, fwd)

	halfV := math32.Tan(fovy * rl.Deg2rad / 2)
	halfH := halfV * aspect

	var f Frustum
	f.planes[0] = newPlane(rl.Vector3Add(right, rl.Vector3Scale(fwd, halfH)), eye)
	f.planes[1] = newPlane(rl.Vector3Add(rl.Vector3Negate(right), rl.Vector3Scale(fwd, halfH)), eye)
	f.planes[2] = newPlane(rl.Vector3Add(upv, rl.Vector3Scale(fwd, halfV)), eye)
	f.planes[3] = newPlane(rl.Vector3Add(rl.Vector3Negate(upv), rl.Vector3Scale(fwd, halfV)), eye)
	f.planes[4] = newPlane(fwd, rl.Vector3Add(eye, rl.Vector3Scale(fwd, near)))
	f.planes[5] = newPlane(rl.Vector3Negate(fwd), rl.Vector3Add(eye, rl.Vector3Scale(fwd, far)))
	return f
}

// FrustumFromCamera builds the culling frustum of a raylib perspective camera.
func FrustumFromCamera(cam rl.Camera3D, aspect, near, far float32) Frustum {
	return NewFrustum(cam.Position, cam.Target, cam.Up, cam.Fovy, aspect, near, far)
}

func (f Frustum) Planes() [6]Plane {
	return f.planes
}

// ContainsSphere tests if a sphere is inside or intersects the frustum
func (f Frustum) ContainsSphere(center rl.Vector3, radius float32) bool {
	for i := range f.planes {
		// Completely behind any plane means outside.
		if f.planes[i].SignedDistance(center) < -radius {
			return false
		}
	}
	return true
}

// ContainsPoint tests if a point is inside the frustum
func (f Frustum) ContainsPoint(point rl.Vector3) bool {
	for i := range f.planes {
		if f.planes[i].SignedDistance(point) < 0 {
			return false
		}
	}
	return true
}

// IntersectsAABB rejects a box only when it lies fully outside one plane.
func (f Frustum) IntersectsAABB(b AABB) bool {
	for i := range f.planes {
		n := f.planes[i].Normal
		// Corner furthest along the plane normal.
		p := b.Min
		if n.X >= 0 {
			p.X = b.Max.X
		}
		if n.Y >= 0 {
			p.Y = b.Max.Y
		}
		if n.Z >= 0 {
			p.Z = b.Max.Z
		}
		if f.planes[i].SignedDistance(p) < 0 {
			return false
		}
	}
	return true
}

func (f Frustum) IntersectsSphere(center rl.Vector3, radius float32) bool {
	return f.ContainsSphere(center, radius)
}
