package viewer

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"scene3d/internal/components"
)

var (
	colorBgDark    = rl.NewColor(18, 18, 24, 235)
	colorBgElement = rl.NewColor(32, 32, 42, 255)
	colorAccent    = rl.NewColor(108, 99, 255, 255)
	colorText      = rl.NewColor(200, 200, 215, 255)
)

var panelBounds = rl.Rectangle{X: 10, Y: 10, Width: 260, Height: 330}

const lineHeight = 20

func initStyle() {
	gui.SetStyle(gui.DEFAULT, gui.BACKGROUND_COLOR, gui.NewColorPropertyValue(colorBgDark))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_NORMAL, gui.NewColorPropertyValue(colorBgElement))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_PRESSED, gui.NewColorPropertyValue(colorAccent))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_FOCUSED, gui.NewColorPropertyValue(colorAccent))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_NORMAL, gui.NewColorPropertyValue(colorText))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, 14)
}

func overPanel(p rl.Vector2) bool {
	return rl.CheckCollisionPointRec(p, panelBounds)
}

// statLines renders the scene statistics shown in the panel.
func (v *Viewer) statLines() []string {
	st := v.scene.Stats()
	lines := []string{
		fmt.Sprintf("%s  [%s]", v.scene.Name(), v.scene.State()),
		fmt.Sprintf("nodes %d  assets %d", st.Nodes, v.assets.Count()),
		fmt.Sprintf("visible %d  culled %d  skipped %d", st.Visible, st.Culled, st.Skipped),
		fmt.Sprintf("meshes %d  terrains %d", st.Live[components.KindStaticMesh], st.Live[components.KindTerrain]),
		fmt.Sprintf("volumes %d  spheres %d", st.Live[components.KindVolume], st.Live[components.KindHitSphere]),
	}
	pairs := fmt.Sprintf("pairs %d  triggers %d", st.Pairs, st.Triggers)
	if st.GPU {
		pairs += "  (gpu)"
	}
	return append(lines, pairs, fmt.Sprintf("voices %d", v.mixer.Playing()))
}

func drawHUD(v *Viewer) {
	gui.Panel(panelBounds, "scene")
	x, y := panelBounds.X+10, panelBounds.Y+30

	for _, line := range v.statLines() {
		gui.Label(rl.Rectangle{X: x, Y: y, Width: panelBounds.Width - 20, Height: lineHeight}, line)
		y += lineHeight
	}

	y += 6
	v.ShowDebug = gui.CheckBox(rl.Rectangle{X: x, Y: y, Width: 16, Height: 16}, "debug shapes (F1)", v.ShowDebug)
	y += lineHeight + 6

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 115, Height: 24}, "reload (F5)") {
		v.beginReload()
	}
	if v.scene.Editable() && gui.Button(rl.Rectangle{X: x + 125, Y: y, Width: 115, Height: 24}, "save (F2)") {
		if err := v.scene.Save(v.Path); err != nil {
			v.logger.Warn("save scene", "error", err)
		}
	}
	y += 34

	if v.selected != nil {
		gui.Label(rl.Rectangle{X: x, Y: y, Width: panelBounds.Width - 20, Height: lineHeight},
			fmt.Sprintf("selected: %s", v.scene.Nodes().Name(v.selected.Node)))
	}

	cy := int32(rl.GetScreenHeight()) - int32(len(v.console))*lineHeight - 10
	for _, line := range v.console {
		rl.DrawText(line, 10, cy, 16, colorText)
		cy += lineHeight
	}
	rl.DrawFPS(int32(rl.GetScreenWidth())-90, 10)
}
