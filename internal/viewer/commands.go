package viewer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var errUsage = errors.New("viewer: bad command usage")

// registerCommands installs the commands trigger volumes can run.
func (v *Viewer) registerCommands() {
	cmds := v.ctx.Commands
	cmds.Register("log", func(args []string) error {
		v.print(strings.Join(args, " "))
		return nil
	})
	cmds.Register("debug", func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("%w: debug on|off|toggle", errUsage)
		}
		switch args[0] {
		case "on":
			v.ShowDebug = true
		case "off":
			v.ShowDebug = false
		case "toggle":
			v.ShowDebug = !v.ShowDebug
		default:
			return fmt.Errorf("%w: debug %q", errUsage, args[0])
		}
		return nil
	})
	cmds.Register("teleport", func(args []string) error {
		pos, err := parseVector(args)
		if err != nil {
			return fmt.Errorf("teleport: %w", err)
		}
		v.cam.Position = pos
		return nil
	})
}

func parseVector(args []string) (rl.Vector3, error) {
	if len(args) != 3 {
		return rl.Vector3{}, fmt.Errorf("%w: want x y z, got %d values", errUsage, len(args))
	}
	var f [3]float32
	for i, a := range args {
		x, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return rl.Vector3{}, fmt.Errorf("%w: %v", errUsage, err)
		}
		f[i] = float32(x)
	}
	return rl.Vector3{X: f[0], Y: f[1], Z: f[2]}, nil
}
