package assets

import (
	"fmt"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"

	"scene3d/internal/engine"
	"scene3d/internal/physics"
)

// RaylibBackend uploads assets through raylib. It needs an open window (and
// an initialized audio device for sounds).
type RaylibBackend struct{}

func (RaylibBackend) Upload(d *Decoded) (Resource, error) {
	switch d.Kind {
	case KindModel:
		var model rl.Model
		if d.Primitive != nil {
			model = rl.LoadModelFromMesh(primitiveMesh(*d.Primitive))
		} else {
			model = rl.LoadModel(d.Path)
		}
		if !rl.IsModelValid(model) {
			return Resource{}, fmt.Errorf("upload model %q: invalid model", d.Name)
		}
		return Resource{
			Value:     model,
			Bounds:    physics.FromBoundingBox(rl.GetModelBoundingBox(model)),
			HasBounds: true,
		}, nil

	case KindTexture:
		img := rl.LoadImageFromMemory(filepath.Ext(d.Path), d.Data, int32(len(d.Data)))
		if img == nil || img.Data == nil {
			return Resource{}, fmt.Errorf("upload texture %q: undecodable image", d.Name)
		}
		defer rl.UnloadImage(img)
		tex := rl.LoadTextureFromImage(img)
		if !rl.IsTextureValid(tex) {
			return Resource{}, fmt.Errorf("upload texture %q: invalid texture", d.Name)
		}
		return Resource{Value: tex}, nil

	case KindSound:
		wave := rl.LoadWaveFromMemory(filepath.Ext(d.Path), d.Data, int32(len(d.Data)))
		defer rl.UnloadWave(wave)
		snd := rl.LoadSoundFromWave(wave)
		if !rl.IsSoundValid(snd) {
			return Resource{}, fmt.Errorf("upload sound %q: invalid sound", d.Name)
		}
		return Resource{Value: snd}, nil
	}
	return Resource{}, fmt.Errorf("upload %q: unsupported kind %s", d.Name, d.Kind)
}

func (RaylibBackend) Unload(_ Kind, value any) {
	switch v := value.(type) {
	case rl.Model:
		rl.UnloadModel(v)
	case rl.Texture2D:
		rl.UnloadTexture(v)
	case rl.Sound:
		rl.UnloadSound(v)
	}
}

func primitiveMesh(p Primitive) rl.Mesh {
	switch p.Shape {
	case PrimitivePlane:
		return rl.GenMeshPlane(p.Size.X, p.Size.Z, 1, 1)
	case PrimitiveSphere:
		return rl.GenMeshSphere(p.Size.X, 16, 16)
	default:
		return rl.GenMeshCube(p.Size.X, p.Size.Y, p.Size.Z)
	}
}

// Model returns the raylib model behind a loaded model handle.
func (m *Manager) Model(h engine.Handle) (rl.Model, bool) {
	v, ok := m.Resource(h)
	if !ok {
		return rl.Model{}, false
	}
	model, ok := v.(rl.Model)
	return model, ok
}

// Texture returns the raylib texture behind a loaded texture handle.
func (m *Manager) Texture(h engine.Handle) (rl.Texture2D, bool) {
	v, ok := m.Resource(h)
	if !ok {
		return rl.Texture2D{}, false
	}
	tex, ok := v.(rl.Texture2D)
	return tex, ok
}

// Sound returns the raylib sound behind a loaded sound handle.
func (m *Manager) Sound(h engine.Handle) (rl.Sound, bool) {
	v, ok := m.Resource(h)
	if !ok {
		return rl.Sound{}, false
	}
	snd, ok := v.(rl.Sound)
	return snd, ok
}
