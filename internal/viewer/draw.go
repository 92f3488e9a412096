package viewer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"scene3d/internal/components"
	"scene3d/internal/physics"
	"scene3d/internal/world"
)

// rlgl cull face modes
const (
	cullFront int32 = 0
	cullBack  int32 = 1
)

// lodColors tints terrain chunk outlines by detail level.
var lodColors = []rl.Color{rl.Green, rl.Lime, rl.Yellow, rl.Orange, rl.Red, rl.Maroon}

func (v *Viewer) frustum(cam rl.Camera3D) physics.Frustum {
	aspect := float32(rl.GetScreenWidth()) / float32(max(rl.GetScreenHeight(), 1))
	return physics.FrustumFromCamera(cam, aspect, v.Settings.NearClip, v.Settings.FarClip)
}

func (v *Viewer) draw() {
	cam := v.cam.Camera()

	rl.BeginDrawing()
	defer rl.EndDrawing()
	rl.ClearBackground(rl.NewColor(24, 26, 32, 255))
	v.drawSkybox()

	if !v.scene.Loaded() {
		drawHUD(v)
		return
	}

	v.scene.BeginFrame()
	frustum := v.frustum(cam)
	rl.BeginMode3D(cam)
	v.drawRenderData(frustum, cam.Position)
	v.drawWater(frustum)
	v.drawLights(frustum)
	if v.ShowDebug {
		v.drawDebug()
	}
	if v.selected != nil {
		rl.DrawSphereWires(v.selected.Position, 0.1, 6, 6, rl.Magenta)
	}
	rl.DrawGrid(40, 1)
	rl.EndMode3D()

	drawHUD(v)
}

func (v *Viewer) drawSkybox() {
	sky, ok := v.scene.Skybox()
	if !ok {
		return
	}
	tex, ok := v.assets.Texture(sky.TextureAsset)
	if !ok {
		return
	}
	src := rl.Rectangle{Width: float32(tex.Width), Height: float32(tex.Height)}
	dst := rl.Rectangle{Width: float32(rl.GetScreenWidth()), Height: float32(rl.GetScreenHeight())}
	rl.DrawTexturePro(tex, src, dst, rl.Vector2{}, 0, rl.White)
}

func (v *Viewer) drawRenderData(frustum physics.Frustum, eye rl.Vector3) {
	data, err := v.scene.QueryRenderData(frustum, eye)
	if err != nil {
		v.logger.Warn("query render data", "error", err)
		return
	}
	for _, d := range data {
		switch d.Kind {
		case components.KindStaticMesh:
			v.drawMesh(d)
		case components.KindTerrain:
			rl.DrawBoundingBox(d.Bounds.BoundingBox(), lodColors[min(d.LOD, len(lodColors)-1)])
		}
	}
}

func (v *Viewer) drawMesh(d world.RenderData) {
	model, ok := v.assets.Model(d.Mesh)
	if !ok {
		return
	}
	tint := rl.White
	if mat, ok := v.assets.Material(d.Material); ok {
		tint = mat.Color
		if d.Transparent {
			tint = rl.Fade(tint, mat.Opacity)
		}
	}
	model.Transform = d.Transform
	if d.FrontFaceCW {
		rl.SetCullFace(cullFront)
		defer rl.SetCullFace(cullBack)
	}
	rl.DrawModel(model, rl.Vector3{}, 1, tint)
}

func (v *Viewer) drawWater(frustum physics.Frustum) {
	planes, err := v.scene.QueryWaterPlanes(frustum)
	if err != nil {
		return
	}
	for _, w := range planes {
		size := rl.Vector3Subtract(w.Bounds.Max, w.Bounds.Min)
		rl.DrawPlane(w.Bounds.Center(), rl.Vector2{X: size.X, Y: size.Z}, rl.Fade(rl.SkyBlue, 0.5))
	}
}

func (v *Viewer) drawLights(frustum physics.Frustum) {
	lights, err := v.scene.QueryLights(frustum)
	if err != nil {
		return
	}
	for _, l := range lights {
		if l.Kind == components.KindPointLight {
			rl.DrawSphere(l.Position, 0.15, rl.Yellow)
		}
	}
}

func (v *Viewer) drawDebug() {
	shapes, err := v.scene.QueryDebugGeometry()
	if err != nil {
		return
	}
	for _, s := range shapes {
		switch s.Kind {
		case world.DebugBox:
			rl.DrawBoundingBox(s.Box.BoundingBox(), s.Color)
		case world.DebugSphere:
			rl.DrawSphereWires(s.Center, s.Radius, 8, 12, s.Color)
		}
	}
}
