package components

import (
	"fmt"
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"

	"scene3d/internal/engine"
)

type Shape int

const (
	ShapeSphere Shape = iota
	ShapeBox
)

func (s Shape) String() string {
	switch s {
	case ShapeSphere:
		return "sphere"
	case ShapeBox:
		return "box"
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

func ParseShape(s string) (Shape, bool) {
	switch s {
	case "", "sphere":
		return ShapeSphere, true
	case "box":
		return ShapeBox, true
	}
	return 0, false
}

// Volume is a trigger region. Hit spheres whose tags intersect Filter are
// tested against it each frame; Overlaps holds the ones currently inside.
type Volume struct {
	Shape    Shape
	Radius   float32
	Extents  rl.Vector3 // half extents, box volumes only
	Filter   TagSet
	OnEnter  string
	OnUpdate string
	OnLeave  string

	Overlaps []engine.Handle
}

func (v *Volume) Overlapping(h engine.Handle) bool {
	return slices.Contains(v.Overlaps, h)
}

func (v *Volume) AddOverlap(h engine.Handle) {
	if !v.Overlapping(h) {
		v.Overlaps = append(v.Overlaps, h)
	}
}

func (v *Volume) RemoveOverlap(h engine.Handle) {
	v.Overlaps = slices.DeleteFunc(v.Overlaps, func(o engine.Handle) bool { return o == h })
}

// HitSphere is a passive sphere that trigger volumes detect.
type HitSphere struct {
	Radius float32
}
