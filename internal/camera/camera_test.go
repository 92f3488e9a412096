package camera

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
)

func TestForwardFromYawPitch(t *testing.T) {
	c := New(rl.Vector3{})
	c.Pitch = 0

	f := c.Forward()
	assert.InDelta(t, 0, f.X, 1e-5)
	assert.InDelta(t, -1, f.Z, 1e-5)

	c.Yaw = 0
	f = c.Forward()
	assert.InDelta(t, 1, f.X, 1e-5)
}

func TestStepMovesOnViewAxes(t *testing.T) {
	c := New(rl.Vector3{})
	c.Pitch = 0

	c.Step(Input{Forward: 1}, 0.5)
	assert.InDelta(t, -5, c.Position.Z, 1e-4)

	c.Step(Input{Right: 1}, 0.1)
	assert.InDelta(t, 1, c.Position.X, 1e-4)

	c.Step(Input{Up: 1, Fast: true}, 0.1)
	assert.InDelta(t, 4, c.Position.Y, 1e-4)
}

func TestStepClampsPitch(t *testing.T) {
	c := New(rl.Vector3{})
	c.Step(Input{Look: rl.Vector2{Y: -10000}}, 0.016)
	assert.Equal(t, float32(89), c.Pitch)
	c.Step(Input{Look: rl.Vector2{Y: 10000}}, 0.016)
	assert.Equal(t, float32(-89), c.Pitch)
}

func TestCameraLooksForward(t *testing.T) {
	c := New(rl.Vector3{X: 1, Y: 2, Z: 3})
	cam := c.Camera()
	f := c.Forward()
	assert.InDelta(t, 1+f.X, cam.Target.X, 1e-5)
	assert.InDelta(t, 3+f.Z, cam.Target.Z, 1e-5)
	assert.Equal(t, float32(60), cam.Fovy)
}
