package camera

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// FlyCamera is a free-flying viewer camera: WASD moves on the view plane,
// E/Q move up and down, and the mouse looks around while the right button
// is held.
type FlyCamera struct {
	Position  rl.Vector3
	Yaw       float32 // degrees, 0 looks down +X
	Pitch     float32 // degrees
	Fovy      float32
	MoveSpeed float32 // units per second
	FastScale float32 // speed multiplier while shift is held
	LookSpeed float32 // degrees per pixel
}

// Input is one frame of movement intent, each axis in [-1, 1].
type Input struct {
	Forward, Right, Up float32
	Look               rl.Vector2 // mouse delta in pixels
	Fast               bool
}

func New(pos rl.Vector3) *FlyCamera {
	return &FlyCamera{
		Position:  pos,
		Yaw:       -90,
		Pitch:     -20,
		Fovy:      60,
		MoveSpeed: 10,
		FastScale: 4,
		LookSpeed: 0.1,
	}
}

// ReadInput samples the keyboard and mouse.
func ReadInput() Input {
	var in Input
	axis := func(pos, neg int32) float32 {
		var v float32
		if rl.IsKeyDown(pos) {
			v++
		}
		if rl.IsKeyDown(neg) {
			v--
		}
		return v
	}
	in.Forward = axis(rl.KeyW, rl.KeyS)
	in.Right = axis(rl.KeyD, rl.KeyA)
	in.Up = axis(rl.KeyE, rl.KeyQ)
	in.Fast = rl.IsKeyDown(rl.KeyLeftShift)
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		in.Look = rl.GetMouseDelta()
	}
	return in
}

func (c *FlyCamera) Update(dt float32) {
	c.Step(ReadInput(), dt)
}

// Step applies one frame of input.
func (c *FlyCamera) Step(in Input, dt float32) {
	c.Yaw += in.Look.X * c.LookSpeed
	c.Pitch -= in.Look.Y * c.LookSpeed
	if c.Pitch > 89 {
		c.Pitch = 89
	}
	if c.Pitch < -89 {
		c.Pitch = -89
	}

	forward := c.Forward()
	right := rl.Vector3Normalize(rl.Vector3CrossProduct(forward, rl.Vector3{Y: 1}))

	move := rl.Vector3Add(rl.Vector3Scale(forward, in.Forward), rl.Vector3Scale(right, in.Right))
	move.Y += in.Up
	if rl.Vector3Length(move) == 0 {
		return
	}
	speed := c.MoveSpeed
	if in.Fast {
		speed *= c.FastScale
	}
	c.Position = rl.Vector3Add(c.Position, rl.Vector3Scale(rl.Vector3Normalize(move), speed*dt))
}

// Forward is the unit view direction.
func (c *FlyCamera) Forward() rl.Vector3 {
	yaw := float64(c.Yaw) * math.Pi / 180
	pitch := float64(c.Pitch) * math.Pi / 180
	return rl.Vector3{
		X: float32(math.Cos(yaw) * math.Cos(pitch)),
		Y: float32(math.Sin(pitch)),
		Z: float32(math.Sin(yaw) * math.Cos(pitch)),
	}
}

func (c *FlyCamera) Camera() rl.Camera3D {
	return rl.Camera3D{
		Position:   c.Position,
		Target:     rl.Vector3Add(c.Position, c.Forward()),
		Up:         rl.Vector3{Y: 1},
		Fovy:       c.Fovy,
		Projection: rl.CameraPerspective,
	}
}
