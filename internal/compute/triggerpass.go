package compute

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"scene3d/internal/physics"
	"scene3d/internal/world"
)

// ErrPairOverflow means the pair buffer filled up; the caller should decide
// on the CPU for this frame. The buffer is grown for the next dispatch.
var ErrPairOverflow = errors.New("compute: trigger pair buffer overflow")

// gpuSphere matches the WGSL Sphere struct: xyz center, w radius.
type gpuSphere struct {
	X, Y, Z, Radius float32
}

type gpuPair struct {
	Volume, Probe uint32
}

type passParams struct {
	Volumes, Probes, MaxPairs, _ uint32
}

const workgroupSize = 64

// One invocation per volume, looping over every probe. A negative radius
// marks a volume that can never overlap.
const triggerShader = `
struct Sphere {
    pos: vec3<f32>,
    radius: f32,
}

struct Pair {
    volume: u32,
    probe: u32,
}

struct Params {
    volumes: u32,
    probes: u32,
    maxPairs: u32,
    pad: u32,
}

@group(0) @binding(0) var<storage, read> volumes: array<Sphere>;
@group(0) @binding(1) var<storage, read> probes: array<Sphere>;
@group(0) @binding(2) var<storage, read_write> pairs: array<Pair>;
@group(0) @binding(3) var<storage, read_write> pairCount: atomic<u32>;
@group(0) @binding(4) var<uniform> params: Params;

@compute @workgroup_size(64)
fn main(@builtin(global_invocation_id) id: vec3<u32>) {
    let v = id.x;
    if (v >= params.volumes) {
        return;
    }
    let vol = volumes[v];
    if (vol.radius < 0.0) {
        return;
    }
    for (var p = 0u; p < params.probes; p = p + 1u) {
        let probe = probes[p];
        let sum = vol.radius + probe.radius;
        let diff = vol.pos - probe.pos;
        if (sum >= 0.0 && dot(diff, diff) <= sum * sum) {
            let idx = atomicAdd(&pairCount, 1u);
            if (idx < params.maxPairs) {
                pairs[idx] = Pair(v, p);
            }
        }
    }
}
`

// TriggerPass finds overlapping (volume, hit sphere) pairs on the GPU. It
// implements world.CandidateFinder.
type TriggerPass struct {
	sys *System
	k   *kernel

	volumes *Buffer
	probes  *Buffer
	pairs   *Buffer
	count   *Buffer
	params  *Buffer

	volCap, probeCap, pairCap uint32
}

var _ world.CandidateFinder = (*TriggerPass)(nil)

// NewTriggerPass compiles the kernel and sizes buffers for the given counts.
// Buffers grow when a frame needs more.
func NewTriggerPass(sys *System, volumes, probes, pairs uint32) (*TriggerPass, error) {
	if sys == nil {
		return nil, ErrUnavailable
	}
	k, err := sys.kernel("triggers", triggerShader,
		wgpu.BufferBindingTypeReadOnlyStorage,
		wgpu.BufferBindingTypeReadOnlyStorage,
		wgpu.BufferBindingTypeStorage,
		wgpu.BufferBindingTypeStorage,
		wgpu.BufferBindingTypeUniform,
	)
	if err != nil {
		return nil, err
	}

	tp := &TriggerPass{sys: sys, k: k}
	tp.count, err = sys.createBuffer("pair_count", 4,
		wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc|wgpu.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	tp.params, err = sys.createBuffer("trigger_params", 16,
		wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	if err != nil {
		tp.Release()
		return nil, err
	}
	if err := tp.reserve(max(volumes, 1), max(probes, 1), max(pairs, 1)); err != nil {
		tp.Release()
		return nil, err
	}
	return tp, nil
}

// reserve grows any buffer smaller than requested. Buffers never shrink.
func (tp *TriggerPass) reserve(volumes, probes, pairs uint32) error {
	storage := wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
	var err error
	if volumes > tp.volCap {
		tp.volumes.Release()
		volumes = grow(volumes)
		if tp.volumes, err = tp.sys.createBuffer("trigger_volumes", uint64(volumes)*16, storage); err != nil {
			return err
		}
		tp.volCap = volumes
	}
	if probes > tp.probeCap {
		tp.probes.Release()
		probes = grow(probes)
		if tp.probes, err = tp.sys.createBuffer("trigger_probes", uint64(probes)*16, storage); err != nil {
			return err
		}
		tp.probeCap = probes
	}
	if pairs > tp.pairCap {
		tp.pairs.Release()
		pairs = grow(pairs)
		if tp.pairs, err = tp.sys.createBuffer("trigger_pairs", uint64(pairs)*8,
			wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc); err != nil {
			return err
		}
		tp.pairCap = pairs
	}
	return nil
}

// FindCandidates returns every (volume, probe) index pair whose spheres
// overlap, in no particular order.
func (tp *TriggerPass) FindCandidates(volumes, probes []physics.Sphere) ([]world.Candidate, error) {
	if len(volumes) == 0 || len(probes) == 0 {
		return nil, nil
	}
	nv, np := uint32(len(volumes)), uint32(len(probes))
	if err := tp.reserve(nv, np, 0); err != nil {
		return nil, err
	}

	tp.sys.writeBuffer(tp.volumes, wgpu.ToBytes(packSpheres(volumes)))
	tp.sys.writeBuffer(tp.probes, wgpu.ToBytes(packSpheres(probes)))
	tp.sys.writeBuffer(tp.count, wgpu.ToBytes([]uint32{0}))
	tp.sys.writeBuffer(tp.params, wgpu.ToBytes([]passParams{{Volumes: nv, Probes: np, MaxPairs: tp.pairCap}}))

	if err := tp.sys.dispatch(tp.k, workgroups(nv), tp.volumes, tp.probes, tp.pairs, tp.count, tp.params); err != nil {
		return nil, fmt.Errorf("trigger pass: %w", err)
	}

	countData, err := tp.sys.readBuffer(tp.count, 4)
	if err != nil {
		return nil, fmt.Errorf("trigger pass: %w", err)
	}
	n := wgpu.FromBytes[uint32](countData)[0]
	if n == 0 {
		return nil, nil
	}
	if n > tp.pairCap {
		if err := tp.reserve(0, 0, n); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %d pairs", ErrPairOverflow, n)
	}

	pairData, err := tp.sys.readBuffer(tp.pairs, uint64(n)*8)
	if err != nil {
		return nil, fmt.Errorf("trigger pass: %w", err)
	}
	return unpackPairs(wgpu.FromBytes[gpuPair](pairData), nv, np), nil
}

func (tp *TriggerPass) Release() {
	tp.volumes.Release()
	tp.probes.Release()
	tp.pairs.Release()
	tp.count.Release()
	tp.params.Release()
}

func packSpheres(spheres []physics.Sphere) []gpuSphere {
	out := make([]gpuSphere, len(spheres))
	for i, s := range spheres {
		out[i] = gpuSphere{X: s.Center.X, Y: s.Center.Y, Z: s.Center.Z, Radius: s.Radius}
	}
	return out
}

// unpackPairs drops any pair whose indices fall outside the uploaded counts.
func unpackPairs(pairs []gpuPair, volumes, probes uint32) []world.Candidate {
	out := make([]world.Candidate, 0, len(pairs))
	for _, p := range pairs {
		if p.Volume >= volumes || p.Probe >= probes {
			continue
		}
		out = append(out, world.Candidate{Volume: int(p.Volume), Probe: int(p.Probe)})
	}
	return out
}

func workgroups(n uint32) uint32 {
	return (n + workgroupSize - 1) / workgroupSize
}

// grow rounds n up to the next power of two, minimum 64.
func grow(n uint32) uint32 {
	c := uint32(64)
	for c < n {
		c <<= 1
	}
	return c
}
