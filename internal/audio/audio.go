// Package audio plays a scene's audio emitters through raylib with simple
// distance attenuation and stereo panning around a listener.
package audio

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"scene3d/internal/engine"
	"scene3d/internal/world"
)

// Listener is the ear position and orientation.
type Listener struct {
	Position rl.Vector3
	Forward  rl.Vector3
	Right    rl.Vector3
}

// NewListener normalizes forward (default -Z) and derives the right vector
// from up x forward.
func NewListener(pos, forward, up rl.Vector3) Listener {
	l := Listener{Position: pos, Forward: rl.Vector3{Z: -1}, Right: rl.Vector3{X: 1}}
	if n := rl.Vector3Length(forward); n > 0.001 {
		l.Forward = rl.Vector3Scale(forward, 1/n)
	}
	right := rl.Vector3CrossProduct(l.Forward, up)
	if n := rl.Vector3Length(right); n > 0.001 {
		l.Right = rl.Vector3Scale(right, 1/n)
	}
	return l
}

// Spatialize returns the volume and pan (0 left, 0.5 center, 1 right) of a
// source at pos. Volume falls off linearly to zero at maxDist; sources
// behind the listener are up to 30% quieter.
func Spatialize(l Listener, pos rl.Vector3, volume, maxDist float32) (float32, float32) {
	to := rl.Vector3Subtract(pos, l.Position)
	dist := rl.Vector3Length(to)
	if maxDist <= 0 || dist >= maxDist {
		return 0, 0.5
	}
	vol := volume * (1 - dist/maxDist)
	if dist < 0.001 {
		return vol, 0.5
	}

	dir := rl.Vector3Scale(to, 1/dist)
	pan := rl.Clamp(0.5+rl.Vector3DotProduct(dir, l.Right)*0.5, 0, 1)
	if front := rl.Vector3DotProduct(dir, l.Forward); front < 0 {
		vol *= 0.7 + 0.3*float32(math.Abs(float64(front)))
	}
	return vol, pan
}

// Voice is one playing instance of a sound.
type Voice interface {
	Play()
	Stop()
	Playing() bool
	Set(volume, pan float32)
	Release()
}

// Device creates voices for loaded sound assets.
type Device interface {
	Voice(sound engine.Handle) (Voice, bool)
}

type voice struct {
	v       Voice
	started bool
}

// Mixer keeps one voice per emitter attachment in sync with the scene.
type Mixer struct {
	dev      Device
	listener Listener
	voices   map[engine.Handle]*voice
}

func NewMixer(dev Device) *Mixer {
	return &Mixer{
		dev:      dev,
		listener: NewListener(rl.Vector3{}, rl.Vector3{Z: -1}, rl.Vector3{Y: 1}),
		voices:   make(map[engine.Handle]*voice),
	}
}

func (m *Mixer) SetListener(l Listener) {
	m.listener = l
}

// Sync starts PlayOnLoad emitters the first time they are seen, restarts
// looping ones that finished, updates volume and pan, and releases voices
// whose emitter is gone.
func (m *Mixer) Sync(emitters []world.EmitterData) {
	seen := make(map[engine.Handle]bool, len(emitters))
	for _, e := range emitters {
		seen[e.Attachment] = true
		vc, ok := m.voices[e.Attachment]
		if !ok {
			v, ok := m.dev.Voice(e.Emitter.SoundAsset)
			if !ok {
				continue
			}
			vc = &voice{v: v}
			m.voices[e.Attachment] = vc
		}

		if !vc.started && e.Emitter.PlayOnLoad {
			vc.v.Play()
			vc.started = true
		} else if vc.started && e.Emitter.Loop && !vc.v.Playing() {
			vc.v.Play()
		}
		vc.v.Set(Spatialize(m.listener, e.Position, e.Emitter.Volume, e.Emitter.MaxDistance))
	}

	for h, vc := range m.voices {
		if !seen[h] {
			vc.v.Stop()
			vc.v.Release()
			delete(m.voices, h)
		}
	}
}

// Playing reports how many voices are currently audible.
func (m *Mixer) Playing() int {
	n := 0
	for _, vc := range m.voices {
		if vc.v.Playing() {
			n++
		}
	}
	return n
}

// Close stops and releases every voice.
func (m *Mixer) Close() {
	m.Sync(nil)
}
