package physics

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
)

func TestAABBIntersects(t *testing.T) {
	a := NewAABBFromCenter(rl.Vector3{}, rl.Vector3{X: 2, Y: 2, Z: 2})
	b := NewAABBFromCenter(rl.Vector3{X: 1.5}, rl.Vector3{X: 2, Y: 2, Z: 2})
	c := NewAABBFromCenter(rl.Vector3{X: 5}, rl.Vector3{X: 2, Y: 2, Z: 2})

	assert.True(t, a.Intersects(b))
	assert.False(t, a.Intersects(c))
	assert.True(t, a.ContainsPoint(rl.Vector3{X: 0.9}))
	assert.False(t, a.ContainsPoint(rl.Vector3{X: 1.1}))
}

func TestAABBTransformTranslateScale(t *testing.T) {
	local := NewAABBFromCenter(rl.Vector3{}, rl.Vector3{X: 2, Y: 2, Z: 2})
	m := rl.MatrixMultiply(rl.MatrixScale(2, 1, 1), rl.MatrixTranslate(10, 0, 0))

	w := local.Transform(m)
	assert.InDelta(t, 8, w.Min.X, 1e-5)
	assert.InDelta(t, 12, w.Max.X, 1e-5)
	assert.InDelta(t, -1, w.Min.Y, 1e-5)
	assert.InDelta(t, 1, w.Max.Y, 1e-5)
}

func TestAABBTransformRotationGrows(t *testing.T) {
	local := NewAABBFromCenter(rl.Vector3{}, rl.Vector3{X: 2, Y: 2, Z: 2})
	w := local.Transform(rl.MatrixRotateY(45 * rl.Deg2rad))
	assert.InDelta(t, 1.41421, w.Max.X, 1e-3)
	assert.InDelta(t, 1, w.Max.Y, 1e-5)
}

func TestAABBMerge(t *testing.T) {
	a := AABB{Min: rl.Vector3{X: -1}, Max: rl.Vector3{X: 1, Y: 1, Z: 1}}
	b := AABB{Min: rl.Vector3{Y: -3}, Max: rl.Vector3{X: 4}}
	m := a.Merge(b)
	assert.Equal(t, rl.Vector3{X: -1, Y: -3}, m.Min)
	assert.Equal(t, rl.Vector3{X: 4, Y: 1, Z: 1}, m.Max)
}
