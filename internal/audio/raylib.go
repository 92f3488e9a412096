package audio

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"scene3d/internal/engine"
)

// Sounds resolves sound asset handles; *assets.Manager implements it.
type Sounds interface {
	Sound(h engine.Handle) (rl.Sound, bool)
}

// RaylibDevice plays sounds through the raylib audio device. Each voice is
// an alias of the shared sound so emitters using the same file play
// independently.
type RaylibDevice struct {
	Sounds Sounds
}

func (d RaylibDevice) Voice(h engine.Handle) (Voice, bool) {
	snd, ok := d.Sounds.Sound(h)
	if !ok {
		return nil, false
	}
	return &rlVoice{snd: rl.LoadSoundAlias(snd)}, true
}

type rlVoice struct {
	snd rl.Sound
}

func (v *rlVoice) Play()         { rl.PlaySound(v.snd) }
func (v *rlVoice) Stop()         { rl.StopSound(v.snd) }
func (v *rlVoice) Playing() bool { return rl.IsSoundPlaying(v.snd) }
func (v *rlVoice) Release()      { rl.UnloadSoundAlias(v.snd) }

func (v *rlVoice) Set(volume, pan float32) {
	rl.SetSoundVolume(v.snd, volume)
	rl.SetSoundPan(v.snd, pan)
}
