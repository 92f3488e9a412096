package components

import (
	"scene3d/internal/engine"
	"scene3d/internal/physics"
)

type StaticMesh struct {
	Mesh        string
	Material    string
	CastShadows bool

	MeshAsset     engine.Handle
	MaterialAsset engine.Handle
}

// WaterPlane is a flat rectangle in the node's XZ plane.
type WaterPlane struct {
	Width    float32
	Depth    float32
	Material string

	MaterialAsset engine.Handle
}

// Bounds returns the plane's local extents.
func (w WaterPlane) Bounds() physics.AABB {
	return physics.AABB{
		Min: vec3(-w.Width/2, 0, -w.Depth/2),
		Max: vec3(w.Width/2, 0, w.Depth/2),
	}
}

type Skybox struct {
	Texture string

	TextureAsset engine.Handle
}
