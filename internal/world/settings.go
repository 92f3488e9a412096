package world

import (
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

// Settings are the engine-wide defaults scenes are created with.
type Settings struct {
	NearClip  float32 `toml:"near_clip"`
	FarClip   float32 `toml:"far_clip"`
	Editable  bool    `toml:"editable"`
	AssetRoot string  `toml:"asset_root"`

	LoadWorkers int `toml:"load_workers"`

	// GPUTriggerThreshold is the volume x hit-sphere pair count from which a
	// configured candidate finder is used instead of the CPU loop.
	GPUTriggerThreshold int `toml:"gpu_trigger_threshold"`

	Window WindowSettings `toml:"window"`
}

type WindowSettings struct {
	Width  int32 `toml:"width"`
	Height int32 `toml:"height"`
}

func DefaultSettings() Settings {
	return Settings{
		NearClip:            0.1,
		FarClip:             500,
		AssetRoot:           "assets",
		LoadWorkers:         2,
		GPUTriggerThreshold: 4096,
		Window:              WindowSettings{Width: 1280, Height: 720},
	}
}

// LoadSettings reads a TOML settings file over the defaults.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	return ParseSettings(data)
}

func ParseSettings(data []byte) (Settings, error) {
	s := DefaultSettings()
	if err := toml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse settings: %w", err)
	}
	root, err := homedir.Expand(s.AssetRoot)
	if err != nil {
		return s, fmt.Errorf("parse settings: asset_root: %w", err)
	}
	s.AssetRoot = root
	if s.FarClip <= s.NearClip {
		return s, fmt.Errorf("parse settings: far_clip %g must exceed near_clip %g", s.FarClip, s.NearClip)
	}
	return s, nil
}
