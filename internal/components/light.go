package components

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

type DirectionalLight struct {
	Direction    rl.Vector3
	Color        rl.Color
	Intensity    float32
	AmbientColor rl.Color
	CastShadows  bool
}

func NewDirectionalLight() DirectionalLight {
	return DirectionalLight{
		Direction:    rl.Vector3Normalize(rl.Vector3{X: 0.35, Y: -1.0, Z: -0.35}),
		Color:        rl.White,
		Intensity:    1.0,
		AmbientColor: rl.NewColor(25, 25, 25, 255),
	}
}

// ColorFloat returns the light color premultiplied by intensity, as shaders expect it.
func (l DirectionalLight) ColorFloat() [4]float32 {
	return colorFloat(l.Color, l.Intensity)
}

type PointLight struct {
	Color     rl.Color
	Intensity float32
	Radius    float32 // falloff distance
}

func NewPointLight() PointLight {
	return PointLight{
		Color:     rl.White,
		Intensity: 1.0,
		Radius:    10.0,
	}
}

func (p PointLight) ColorFloat() [4]float32 {
	return colorFloat(p.Color, p.Intensity)
}

func colorFloat(c rl.Color, intensity float32) [4]float32 {
	return [4]float32{
		float32(c.R) / 255.0 * intensity,
		float32(c.G) / 255.0 * intensity,
		float32(c.B) / 255.0 * intensity,
		1.0,
	}
}

func vec3(x, y, z float32) rl.Vector3 {
	return rl.Vector3{X: x, Y: y, Z: z}
}
