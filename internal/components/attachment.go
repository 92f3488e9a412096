// Package components holds the payloads stored in a scene's attachment pools.
package components

import "fmt"

// Kind identifies an attachment pool.
type Kind int

const (
	KindStaticMesh Kind = iota
	KindTerrain
	KindSkybox
	KindDirectionalLight
	KindPointLight
	KindAudioEmitter
	KindWaterPlane
	KindVolume
	KindHitSphere
	kindCount
)

// Kinds lists every attachment kind in pool order.
func Kinds() []Kind {
	out := make([]Kind, kindCount)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

var kindNames = [...]string{
	KindStaticMesh:       "static_mesh",
	KindTerrain:          "terrain",
	KindSkybox:           "skybox",
	KindDirectionalLight: "directional_light",
	KindPointLight:       "point_light",
	KindAudioEmitter:     "audio_emitter",
	KindWaterPlane:       "water_plane",
	KindVolume:           "volume",
	KindHitSphere:        "hit_sphere",
}

// String returns the persisted "type" discriminator for the kind.
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps a persisted "type" value back to its Kind.
func ParseKind(s string) (Kind, bool) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), true
		}
	}
	return 0, false
}

// Attachment is implemented by every pool payload. The set is closed; switch
// on the concrete type to handle each kind.
type Attachment interface {
	Kind() Kind
	attachment()
}

func (StaticMesh) Kind() Kind       { return KindStaticMesh }
func (Terrain) Kind() Kind          { return KindTerrain }
func (Skybox) Kind() Kind           { return KindSkybox }
func (DirectionalLight) Kind() Kind { return KindDirectionalLight }
func (PointLight) Kind() Kind       { return KindPointLight }
func (AudioEmitter) Kind() Kind     { return KindAudioEmitter }
func (WaterPlane) Kind() Kind       { return KindWaterPlane }
func (Volume) Kind() Kind           { return KindVolume }
func (HitSphere) Kind() Kind        { return KindHitSphere }

func (StaticMesh) attachment()       {}
func (Terrain) attachment()          {}
func (Skybox) attachment()           {}
func (DirectionalLight) attachment() {}
func (PointLight) attachment()       {}
func (AudioEmitter) attachment()     {}
func (WaterPlane) attachment()       {}
func (Volume) attachment()           {}
func (HitSphere) attachment()        {}
