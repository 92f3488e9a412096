package physics

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitBox() AABB {
	return NewAABBFromCenter(rl.Vector3{}, rl.Vector3{X: 2, Y: 2, Z: 2})
}

func TestRayOBBAxisAligned(t *testing.T) {
	o := NewOBBFromMatrix(unitBox(), rl.MatrixTranslate(0, 0, -10))
	ray := rl.Ray{Position: rl.Vector3{}, Direction: rl.Vector3{Z: -1}}

	d, ok := RayOBB(ray, o)
	require.True(t, ok)
	assert.InDelta(t, 9, d, 1e-4)
}

func TestRayOBBMiss(t *testing.T) {
	o := NewOBBFromMatrix(unitBox(), rl.MatrixTranslate(5, 0, -10))
	_, ok := RayOBB(rl.Ray{Direction: rl.Vector3{Z: -1}}, o)
	assert.False(t, ok)

	// Box behind the origin.
	o = NewOBBFromMatrix(unitBox(), rl.MatrixTranslate(0, 0, 10))
	_, ok = RayOBB(rl.Ray{Direction: rl.Vector3{Z: -1}}, o)
	assert.False(t, ok)
}

func TestRayOBBRotatedAndScaled(t *testing.T) {
	m := rl.MatrixMultiply(rl.MatrixMultiply(rl.MatrixScale(3, 1, 1), rl.MatrixRotateY(90*rl.Deg2rad)), rl.MatrixTranslate(0, 0, -10))
	o := NewOBBFromMatrix(unitBox(), m)
	assert.InDelta(t, 3, o.HalfSize.X, 1e-4)

	// The long axis now lies along Z, so the near face is at z = -7.
	d, ok := RayOBB(rl.Ray{Direction: rl.Vector3{Z: -1}}, o)
	require.True(t, ok)
	assert.InDelta(t, 7, d, 1e-3)
}

func TestRayOBBInside(t *testing.T) {
	o := NewOBBFromMatrix(unitBox(), rl.MatrixIdentity())
	d, ok := RayOBB(rl.Ray{Direction: rl.Vector3{X: 1}}, o)
	require.True(t, ok)
	assert.InDelta(t, 1, d, 1e-5)
}

func TestRaySphere(t *testing.T) {
	s := Sphere{Center: rl.Vector3{X: 10}, Radius: 1}
	d, ok := RaySphere(rl.Ray{Direction: rl.Vector3{X: 1}}, s)
	require.True(t, ok)
	assert.InDelta(t, 9, d, 1e-4)

	_, ok = RaySphere(rl.Ray{Direction: rl.Vector3{X: -1}}, s)
	assert.False(t, ok)
}

func TestOBBIntersectsSphere(t *testing.T) {
	o := NewOBBFromMatrix(unitBox(), rl.MatrixRotateZ(45*rl.Deg2rad))
	assert.True(t, o.IntersectsSphere(rl.Vector3{X: 1.8}, 0.5))
	assert.False(t, o.IntersectsSphere(rl.Vector3{X: 3}, 0.5))
}
