// Command trigger_stress times the trigger pass on the CPU and, where
// compute is available, on the GPU, and checks both fire the same events.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"scene3d/internal/compute"
	"scene3d/internal/engine"
	"scene3d/internal/world"
)

func main() {
	frames := flag.Int("frames", 10, "timed frames per run")
	flag.Parse()

	// Trigger command failures are expected here: nothing is registered.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))

	var pass *compute.TriggerPass
	if sys, err := compute.Open(); err != nil {
		fmt.Printf("GPU: %v (CPU only)\n\n", err)
	} else {
		defer sys.Release()
		fmt.Printf("GPU: %s\n\n", sys.Info())
		pass, err = compute.NewTriggerPass(sys, 1024, 1024, 4096)
		if err != nil {
			fmt.Printf("trigger pass: %v\n", err)
			os.Exit(1)
		}
		defer pass.Release()
	}

	for _, n := range []int{10, 50, 100, 200, 500, 1000} {
		cpu, cpuEvents := run(n, nil, *frames)
		line := fmt.Sprintf("%5d volumes x %5d spheres: CPU %8.3fms (%d events)", n, n, cpu, cpuEvents)
		if pass != nil {
			gpu, gpuEvents := run(n, pass, *frames)
			line += fmt.Sprintf(" | GPU %8.3fms (%d events)", gpu, gpuEvents)
			if gpuEvents != cpuEvents {
				line += " MISMATCH"
			}
		}
		fmt.Println(line)
	}
}

// run builds a scene with n volumes and n moving hit spheres and returns the
// mean Update time in milliseconds and the number of trigger events.
func run(n int, finder world.CandidateFinder, frames int) (float64, int) {
	ctx := world.NewContext(nil, world.DefaultSettings())
	var opts []world.Option
	if finder != nil {
		opts = append(opts, world.WithCandidateFinder(finder, 1))
	}
	s, err := ctx.NewScene(fmt.Sprintf("stress-%d", n), opts...)
	must(err)
	must(s.Initialize(&world.SceneConfig{}))
	must(s.Load())

	events := 0
	s.Triggers.AddListener(func(world.TriggerEvent) { events++ })

	rng := rand.New(rand.NewPCG(42, uint64(n)))
	extent := 20 + float32(n)/10
	place := func() engine.Transform {
		t := engine.IdentityTransform()
		t.Position = rl.Vector3{
			X: (rng.Float32() - 0.5) * extent,
			Y: (rng.Float32() - 0.5) * extent,
			Z: (rng.Float32() - 0.5) * extent,
		}
		return t
	}

	for i := range n {
		t := place()
		node, err := s.AddNode(engine.InvalidHandle, fmt.Sprintf("volume-%d", i), &t)
		must(err)
		_, err = s.Attach(node, &world.VolumeConfig{Radius: 1 + rng.Float32()*2, Filter: []string{"probe"}, OnEnter: "enter"})
		must(err)
	}
	probes := make([]engine.Handle, n)
	for i := range probes {
		t := place()
		node, err := s.AddNode(engine.InvalidHandle, fmt.Sprintf("probe-%d", i), &t)
		must(err)
		must(s.SetNodeTags(node, "probe"))
		_, err = s.Attach(node, &world.HitSphereConfig{Radius: 0.5 + rng.Float32()*0.5})
		must(err)
		probes[i] = node
	}

	var total time.Duration
	for range frames {
		for _, p := range probes {
			must(s.SetNodeTransform(p, place()))
		}
		start := time.Now()
		must(s.Update(world.View{}))
		total += time.Since(start)
	}
	must(s.Destroy())
	return float64(total.Microseconds()) / 1000 / float64(frames), events
}

func must(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
