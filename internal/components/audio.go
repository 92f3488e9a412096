package components

import "scene3d/internal/engine"

type AudioEmitter struct {
	Sound       string
	Volume      float32
	MaxDistance float32
	Loop        bool
	PlayOnLoad  bool

	SoundAsset engine.Handle
}

func NewAudioEmitter(sound string) AudioEmitter {
	return AudioEmitter{
		Sound:       sound,
		Volume:      1.0,
		MaxDistance: 50.0,
	}
}
