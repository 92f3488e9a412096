// Package viewer is an interactive window around one world.Scene: a fly
// camera, the scene's visibility queries drawn with raylib, mouse picking,
// trigger commands, and hot reload of the scene file.
package viewer

import (
	"errors"
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"scene3d/internal/assets"
	"scene3d/internal/audio"
	"scene3d/internal/camera"
	"scene3d/internal/compute"
	"scene3d/internal/world"
)

type Viewer struct {
	Path     string
	Settings world.Settings

	ctx    *world.Context
	assets *assets.Manager
	scene  *world.Scene
	next   *world.Scene // replaces scene once its deferred unload finishes
	cam    *camera.FlyCamera
	mixer  *audio.Mixer
	gpu    *compute.System
	pass   *compute.TriggerPass
	reload *reloader
	logger *slog.Logger

	ShowDebug bool
	selected  *world.Hit
	console   []string
}

func New(path string, settings world.Settings, logger *slog.Logger) *Viewer {
	if logger == nil {
		logger = slog.Default()
	}
	v := &Viewer{
		Path:     path,
		Settings: settings,
		cam:      camera.New(rl.Vector3{X: 0, Y: 5, Z: 15}),
		logger:   logger.With("subsystem", "viewer"),
	}
	return v
}

// Run opens the window and blocks until it is closed.
func (v *Viewer) Run() error {
	rl.SetConfigFlags(rl.FlagWindowHighdpi | rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(v.Settings.Window.Width, v.Settings.Window.Height, "scene3d - "+v.Path)
	defer rl.CloseWindow()
	rl.SetTargetFPS(120)
	rl.InitAudioDevice()
	defer rl.CloseAudioDevice()
	initStyle()

	v.assets = assets.NewManager(assets.RaylibBackend{},
		assets.WithRoot(v.Settings.AssetRoot),
		assets.WithWorkers(v.Settings.LoadWorkers),
		assets.WithLogger(v.logger))
	defer v.assets.Close()

	v.mixer = audio.NewMixer(audio.RaylibDevice{Sounds: v.assets})
	defer v.mixer.Close()

	v.initCompute()
	defer v.releaseCompute()

	v.ctx = world.NewContext(v.assets, v.Settings)
	v.ctx.SetLogger(v.logger)
	v.registerCommands()

	scene, err := v.open()
	if err != nil {
		return err
	}
	v.scene = scene
	defer func() {
		if err := v.scene.Destroy(); err != nil && !errors.Is(err, world.ErrInvalidState) {
			v.logger.Warn("destroy scene", "error", err)
		}
	}()

	if r, err := watch(v.Path); err != nil {
		v.logger.Warn("hot reload disabled", "error", err)
	} else {
		v.reload = r
		defer r.Close()
	}

	for !rl.WindowShouldClose() {
		v.update(rl.GetFrameTime())
		v.draw()
	}
	return nil
}

func (v *Viewer) initCompute() {
	sys, err := compute.Open()
	if err != nil {
		v.logger.Info("compute disabled", "error", err)
		return
	}
	pass, err := compute.NewTriggerPass(sys, 256, 256, 1024)
	if err != nil {
		v.logger.Warn("trigger pass unavailable", "error", err)
		sys.Release()
		return
	}
	v.logger.Info("compute ready", "adapter", sys.Info().String())
	v.gpu, v.pass = sys, pass
}

func (v *Viewer) releaseCompute() {
	if v.pass != nil {
		v.pass.Release()
	}
	if v.gpu != nil {
		v.gpu.Release()
	}
}

// open reads, initializes and loads the scene file.
func (v *Viewer) open() (*world.Scene, error) {
	cfg, err := world.LoadConfig(v.Path)
	if err != nil {
		return nil, err
	}
	opts := []world.Option{world.WithEditable(v.Settings.Editable)}
	if v.pass != nil {
		opts = append(opts, world.WithCandidateFinder(v.pass, v.Settings.GPUTriggerThreshold))
	}
	name := cfg.Name
	if name == "" {
		name = v.Path
	}
	s, err := v.ctx.NewScene(name, opts...)
	if err != nil {
		return nil, err
	}
	s.Triggers.AddListener(v.onTrigger)
	if err := s.Initialize(cfg); err != nil {
		return nil, err
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (v *Viewer) onTrigger(ev world.TriggerEvent) {
	attrs := []any{"phase", ev.Phase, "volume", v.scene.Nodes().Name(ev.VolumeNode)}
	if ev.Err != nil {
		v.logger.Warn("trigger command failed", append(attrs, "command", ev.Command, "error", ev.Err)...)
		return
	}
	v.logger.Debug("trigger", attrs...)
}

func (v *Viewer) update(dt float32) {
	v.assets.Poll()
	v.cam.Update(dt)

	if v.reload != nil && v.reload.Changed() {
		v.beginReload()
	}
	if rl.IsKeyPressed(rl.KeyF1) {
		v.ShowDebug = !v.ShowDebug
	}
	if rl.IsKeyPressed(rl.KeyF5) {
		v.beginReload()
	}
	if rl.IsKeyPressed(rl.KeyF2) && v.scene.Editable() {
		if err := v.scene.Save(v.Path); err != nil {
			v.logger.Warn("save scene", "error", err)
		}
	}

	cam := v.cam.Camera()
	view := world.View{Position: cam.Position, Near: v.Settings.NearClip, Far: v.Settings.FarClip}
	if err := v.scene.Update(view); err != nil {
		v.logger.Warn("update scene", "error", err)
	}
	v.finishReload()

	if v.scene.Loaded() {
		if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
			v.pick(cam)
		}
		v.mixer.SetListener(audio.NewListener(cam.Position, v.cam.Forward(), cam.Up))
		if emitters, err := v.scene.AudioEmitters(); err == nil {
			v.mixer.Sync(emitters)
		}
	}
}

// beginReload parses the file again and starts a deferred unload of the
// current scene. The swap happens once that unload has finished.
func (v *Viewer) beginReload() {
	if v.next != nil {
		return
	}
	next, err := v.open()
	if err != nil {
		v.logger.Warn("reload failed, keeping current scene", "error", err)
		return
	}
	if err := v.scene.Unload(world.UnloadDeferred); err != nil {
		v.logger.Warn("unload for reload", "error", err)
		_ = next.Destroy()
		return
	}
	v.next = next
}

func (v *Viewer) finishReload() {
	if v.next == nil || v.scene.State() != world.StateUnloaded {
		return
	}
	if err := v.scene.Destroy(); err != nil {
		v.logger.Warn("destroy previous scene", "error", err)
	}
	v.scene, v.next, v.selected = v.next, nil, nil
	v.logger.Info("scene reloaded", "path", v.Path)
}

func (v *Viewer) pick(cam rl.Camera3D) {
	if overPanel(rl.GetMousePosition()) {
		return
	}
	ray := rl.GetScreenToWorldRay(rl.GetMousePosition(), cam)
	hits, ok, err := v.scene.Raycast(ray)
	if err != nil {
		v.logger.Warn("pick", "error", err)
		return
	}
	if !ok {
		v.selected = nil
		return
	}
	hit := hits[0]
	v.selected = &hit
	v.print(fmt.Sprintf("picked %s at %.2f", v.scene.Nodes().Name(hit.Node), hit.Distance))
}

// print appends a line to the on-screen console, keeping the last few.
func (v *Viewer) print(line string) {
	const keep = 6
	v.console = append(v.console, line)
	if len(v.console) > keep {
		v.console = v.console[len(v.console)-keep:]
	}
}
