package assets

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Material defines surface properties for rendering
type Material struct {
	ID          int // explicit sort key; 0 means use the handle index
	Name        string
	Color       rl.Color
	Metallic    float32
	Roughness   float32
	Emissive    float32
	Opacity     float32
	Transparent bool
}

// MaterialInfo is the part of a material the visibility queries need.
type MaterialInfo struct {
	Key         uint32
	Transparent bool
}

// materialDef is the JSON format for material files
type materialDef struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Color       string   `json:"color"`
	Metallic    float32  `json:"metallic"`
	Roughness   float32  `json:"roughness"`
	Emissive    float32  `json:"emissive"`
	Opacity     *float32 `json:"opacity"`
	Transparent bool     `json:"transparent"`
}

// ParseMaterial decodes a material file. A material is transparent when
// flagged so or when its opacity is below one.
func ParseMaterial(data []byte) (*Material, error) {
	var def materialDef
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse material: %w", err)
	}

	m := &Material{
		ID:        def.ID,
		Name:      def.Name,
		Color:     rl.White,
		Metallic:  def.Metallic,
		Roughness: def.Roughness,
		Emissive:  def.Emissive,
		Opacity:   1,
	}
	if def.Color != "" {
		c, err := ParseColor(def.Color)
		if err != nil {
			return nil, fmt.Errorf("parse material %q: %w", def.Name, err)
		}
		m.Color = c
	}
	if def.Opacity != nil {
		m.Opacity = *def.Opacity
	}
	m.Transparent = def.Transparent || m.Opacity < 1
	return m, nil
}

// Color name mapping for materials
var colorByName = map[string]rl.Color{
	"Red":       rl.Red,
	"Blue":      rl.Blue,
	"Green":     rl.Green,
	"Purple":    rl.Purple,
	"Orange":    rl.Orange,
	"Yellow":    rl.Yellow,
	"Gold":      rl.Gold,
	"White":     rl.White,
	"Gray":      rl.Gray,
	"LightGray": rl.LightGray,
	"DarkGray":  rl.DarkGray,
	"Black":     rl.Black,
	"Pink":      rl.Pink,
	"Maroon":    rl.Maroon,
	"Brown":     rl.Brown,
	"Beige":     rl.Beige,
	"SkyBlue":   rl.SkyBlue,
	"DarkBlue":  rl.DarkBlue,
	"Lime":      rl.Lime,
	"DarkGreen": rl.DarkGreen,
}

// LookupColor returns a raylib color from a name string
func LookupColor(name string) rl.Color {
	if c, ok := colorByName[name]; ok {
		return c
	}
	return rl.White
}

// ParseColor accepts a color name ("SkyBlue") or hex ("#rrggbb", "#rrggbbaa").
func ParseColor(s string) (rl.Color, error) {
	if c, ok := colorByName[s]; ok {
		return c, nil
	}
	if !strings.HasPrefix(s, "#") {
		return rl.Color{}, fmt.Errorf("unknown color %q", s)
	}
	b, err := hex.DecodeString(s[1:])
	if err != nil || (len(b) != 3 && len(b) != 4) {
		return rl.Color{}, fmt.Errorf("bad hex color %q", s)
	}
	c := rl.NewColor(b[0], b[1], b[2], 255)
	if len(b) == 4 {
		c.A = b[3]
	}
	return c, nil
}

// ColorString is the inverse of ParseColor, preferring names.
func ColorString(c rl.Color) string {
	for name, v := range colorByName {
		if v == c {
			return name
		}
	}
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
