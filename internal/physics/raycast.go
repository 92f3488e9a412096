package physics

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// RayOBB intersects a ray with an oriented box using the slab test in the
// box's local axes. The distance is in units of the ray direction length;
// origins inside the box report the exit distance.
func RayOBB(ray rl.Ray, o OBB) (float32, bool) {
	origin := o.local(ray.Position)
	dir := [3]float32{
		rl.Vector3DotProduct(ray.Direction, o.Axes[0]),
		rl.Vector3DotProduct(ray.Direction, o.Axes[1]),
		rl.Vector3DotProduct(ray.Direction, o.Axes[2]),
	}
	half := o.halfSizes()

	tmin, tmax := math32.Inf(-1), math32.Inf(1)
	for i := range 3 {
		if dir[i] == 0 {
			if origin[i] < -half[i] || origin[i] > half[i] {
				return 0, false
			}
			continue
		}
		t1 := (-half[i] - origin[i]) / dir[i]
		t2 := (half[i] - origin[i]) / dir[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math32.Max(tmin, t1)
		tmax = math32.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}

	if tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// RaySphere intersects a ray with a sphere.
func RaySphere(ray rl.Ray, s Sphere) (float32, bool) {
	oc := rl.Vector3Subtract(ray.Position, s.Center)
	a := rl.Vector3DotProduct(ray.Direction, ray.Direction)
	if a == 0 {
		return 0, false
	}
	b := 2.0 * rl.Vector3DotProduct(oc, ray.Direction)
	c := rl.Vector3DotProduct(oc, oc) - s.Radius*s.Radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return 0, false
	}

	sq := math32.Sqrt(discriminant)
	t := (-b - sq) / (2 * a)
	if t < 0 {
		t = (-b + sq) / (2 * a)
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}
