package assets

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"scene3d/internal/physics"
)

var errNoVertices = errors.New("no vertices")

// ParseOBJBounds scans the vertex records of a Wavefront OBJ stream and
// returns their bounds. Everything but "v" lines is ignored.
func ParseOBJBounds(r io.Reader) (physics.AABB, error) {
	var b physics.AABB
	seen := false

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 || fields[0] != "v" {
			continue
		}
		var p [3]float32
		for i := range 3 {
			v, err := strconv.ParseFloat(fields[i+1], 32)
			if err != nil {
				return physics.AABB{}, fmt.Errorf("obj line %d: %w", line, err)
			}
			p[i] = float32(v)
		}
		v := rl.Vector3{X: p[0], Y: p[1], Z: p[2]}
		if !seen {
			b = physics.AABB{Min: v, Max: v}
			seen = true
			continue
		}
		b.Min = rl.Vector3Min(b.Min, v)
		b.Max = rl.Vector3Max(b.Max, v)
	}
	if err := sc.Err(); err != nil {
		return physics.AABB{}, fmt.Errorf("obj: %w", err)
	}
	if !seen {
		return physics.AABB{}, fmt.Errorf("obj: %w", errNoVertices)
	}
	return b, nil
}
