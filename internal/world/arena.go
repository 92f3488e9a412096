package world

// frameArena backs the slices queries return. It is reset at the start of
// every Update and by BeginFrame, so results are only valid until then.
// Without either it grows with every query.
type frameArena struct {
	render []RenderData
	debug  []DebugShape
	hits   []Hit
	lights []LightData
}

func (a *frameArena) reset() {
	clear(a.render)
	a.render = a.render[:0]
	a.debug = a.debug[:0]
	a.hits = a.hits[:0]
	a.lights = a.lights[:0]
}

// tail caps buf[start:] so appending to the returned slice cannot overwrite
// records a later query adds to the arena.
func tail[T any](buf []T, start int) []T {
	return buf[start:len(buf):len(buf)]
}
