package engine

import (
	"errors"
	"fmt"
)

// ErrStaleHandle is returned when a handle's generation no longer matches its slot.
var ErrStaleHandle = errors.New("engine: stale handle")

// InvalidIndex marks a tombstoned or unset slot index.
const InvalidIndex = ^uint32(0)

// Handle identifies a slot in an index-addressed array and encodes a
// generation so that a handle kept past a slot's release is detected.
// The zero value is InvalidHandle.
type Handle struct {
	index      uint32
	generation uint32
}

// InvalidHandle refers to nothing.
var InvalidHandle = Handle{}

// HandleFromParts constructs a handle from raw components.
func HandleFromParts(index, generation uint32) Handle {
	return Handle{index: index, generation: generation}
}

func (h Handle) Index() uint32 {
	return h.index
}

func (h Handle) Generation() uint32 {
	return h.generation
}

// IsValid reports whether the handle could refer to a slot. Generations start
// at 1, so a zero generation is never issued.
func (h Handle) IsValid() bool {
	return h.generation != 0
}

func (h Handle) String() string {
	if !h.IsValid() {
		return "Handle(invalid)"
	}
	return fmt.Sprintf("Handle(%d:%d)", h.index, h.generation)
}

// Generations tracks slot generations and liveness for an index-addressed
// array. The array it guards never shrinks; released slots are reused by
// later acquisitions with a bumped generation.
type Generations struct {
	gens []uint32
	live []bool
	used int
}

// Len returns the number of slots ever issued (live or free).
func (g *Generations) Len() int {
	return len(g.gens)
}

// Count returns the number of live slots.
func (g *Generations) Count() int {
	return g.used
}

// FirstFree scans for the lowest released slot.
func (g *Generations) FirstFree() (uint32, bool) {
	for i, alive := range g.live {
		if !alive {
			return uint32(i), true
		}
	}
	return 0, false
}

// Acquire marks index live and returns its handle. Acquiring index Len()
// appends a new slot; acquiring past that or a live slot is a programming
// error and returns InvalidHandle.
func (g *Generations) Acquire(index uint32) Handle {
	switch {
	case index == uint32(len(g.gens)):
		g.gens = append(g.gens, 0)
		g.live = append(g.live, false)
	case index > uint32(len(g.gens)):
		return InvalidHandle
	case g.live[index]:
		return InvalidHandle
	}
	g.gens[index]++
	if g.gens[index] == 0 {
		// Skip zero on wrap so the handle stays valid.
		g.gens[index] = 1
	}
	g.live[index] = true
	g.used++
	return Handle{index: index, generation: g.gens[index]}
}

// Next acquires the first free slot, appending when none is free.
func (g *Generations) Next() Handle {
	if idx, ok := g.FirstFree(); ok {
		return g.Acquire(idx)
	}
	return g.Acquire(uint32(len(g.gens)))
}

// Release frees the slot referenced by h.
func (g *Generations) Release(h Handle) error {
	if err := g.Check(h); err != nil {
		return err
	}
	g.live[h.index] = false
	g.used--
	return nil
}

// Check returns ErrStaleHandle unless h refers to a live slot of the same generation.
func (g *Generations) Check(h Handle) error {
	if !h.IsValid() || h.index >= uint32(len(g.gens)) {
		return ErrStaleHandle
	}
	if !g.live[h.index] || g.gens[h.index] != h.generation {
		return ErrStaleHandle
	}
	return nil
}

// Live reports whether slot index is occupied.
func (g *Generations) Live(index uint32) bool {
	return index < uint32(len(g.live)) && g.live[index]
}

// HandleAt returns the current handle for a live slot.
func (g *Generations) HandleAt(index uint32) (Handle, bool) {
	if !g.Live(index) {
		return InvalidHandle, false
	}
	return Handle{index: index, generation: g.gens[index]}, true
}
