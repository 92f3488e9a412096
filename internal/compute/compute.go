// Package compute runs WebGPU compute kernels next to the raylib renderer.
// It owns its own device and never touches the OpenGL context.
package compute

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrUnavailable is returned by Open on platforms where compute is disabled.
var ErrUnavailable = errors.New("compute: unavailable on this platform")

// System owns a WebGPU device and the kernels compiled on it.
type System struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	mu      sync.Mutex
	kernels map[string]*kernel
}

// kernel is a compiled shader plus the explicit layout its bind group uses.
type kernel struct {
	shader   *wgpu.ShaderModule
	layout   *wgpu.BindGroupLayout
	plLayout *wgpu.PipelineLayout
	pipeline *wgpu.ComputePipeline
}

// Buffer is a GPU buffer with its byte size.
type Buffer struct {
	buffer *wgpu.Buffer
	size   uint64
}

// Info describes the adapter a System runs on.
type Info struct {
	Name       string
	Vendor     string
	Backend    string
	DeviceType string
}

func (i Info) String() string {
	return fmt.Sprintf("%s | %s | %s | %s", i.Backend, i.Vendor, i.Name, i.DeviceType)
}

func newSystem() (*System, error) {
	instance := wgpu.CreateInstance(nil)

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("request adapter: %w", err)
	}

	device, err := adapter.RequestDevice(nil)
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("request device: %w", err)
	}

	return &System{
		instance: instance,
		adapter:  adapter,
		device:   device,
		queue:    device.GetQueue(),
		kernels:  make(map[string]*kernel),
	}, nil
}

func (s *System) Info() Info {
	ai := s.adapter.GetInfo()
	return Info{
		Name:       ai.Name,
		Vendor:     ai.VendorName,
		Backend:    ai.BackendType.String(),
		DeviceType: ai.AdapterType.String(),
	}
}

// kernel compiles code once per name. bindings lists the buffer binding type
// of each @binding slot in group 0, in order.
func (s *System) kernel(name, code string, bindings ...wgpu.BufferBindingType) (*kernel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if k, ok := s.kernels[name]; ok {
		return k, nil
	}

	entries := make([]wgpu.BindGroupLayoutEntry, len(bindings))
	for i, b := range bindings {
		entries[i] = wgpu.BindGroupLayoutEntry{
			Binding:    uint32(i),
			Visibility: wgpu.ShaderStageCompute,
			Buffer:     wgpu.BufferBindingLayout{Type: b},
		}
	}
	layout, err := s.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   name + "_layout",
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("kernel %s: bind group layout: %w", name, err)
	}

	plLayout, err := s.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            name + "_pipeline_layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{layout},
	})
	if err != nil {
		layout.Release()
		return nil, fmt.Errorf("kernel %s: pipeline layout: %w", name, err)
	}

	shader, err := s.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          name,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: code},
	})
	if err != nil {
		plLayout.Release()
		layout.Release()
		return nil, fmt.Errorf("kernel %s: shader: %w", name, err)
	}

	pipeline, err := s.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  name,
		Layout: plLayout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     shader,
			EntryPoint: "main",
		},
	})
	if err != nil {
		shader.Release()
		plLayout.Release()
		layout.Release()
		return nil, fmt.Errorf("kernel %s: pipeline: %w", name, err)
	}

	k := &kernel{shader: shader, layout: layout, plLayout: plLayout, pipeline: pipeline}
	s.kernels[name] = k
	return k, nil
}

func (s *System) createBuffer(label string, size uint64, usage wgpu.BufferUsage) (*Buffer, error) {
	buf, err := s.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create buffer %s: %w", label, err)
	}
	return &Buffer{buffer: buf, size: size}, nil
}

func (s *System) writeBuffer(buf *Buffer, data []byte) {
	s.queue.WriteBuffer(buf.buffer, 0, data)
}

// dispatch binds buffers to slots 0..n-1 of k and runs x workgroups.
func (s *System) dispatch(k *kernel, x uint32, buffers ...*Buffer) error {
	entries := make([]wgpu.BindGroupEntry, len(buffers))
	for i, b := range buffers {
		entries[i] = wgpu.BindGroupEntry{Binding: uint32(i), Buffer: b.buffer, Size: b.size}
	}
	group, err := s.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout:  k.layout,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("bind group: %w", err)
	}
	defer group.Release()

	encoder, err := s.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("command encoder: %w", err)
	}
	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(k.pipeline)
	pass.SetBindGroup(0, group, nil)
	pass.DispatchWorkgroups(x, 1, 1)
	pass.End()
	pass.Release()

	commands, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish encoder: %w", err)
	}
	defer commands.Release()

	s.queue.Submit(commands)
	return nil
}

// readBuffer copies the first n bytes of buf back to the CPU, blocking until
// the GPU is done.
func (s *System) readBuffer(buf *Buffer, n uint64) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	staging, err := s.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "staging",
		Size:  n,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("staging buffer: %w", err)
	}
	defer staging.Release()

	encoder, err := s.device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, fmt.Errorf("command encoder: %w", err)
	}
	encoder.CopyBufferToBuffer(buf.buffer, 0, staging, 0, n)
	commands, err := encoder.Finish(nil)
	if err != nil {
		return nil, fmt.Errorf("finish encoder: %w", err)
	}
	s.queue.Submit(commands)
	commands.Release()

	done := make(chan error, 1)
	err = staging.MapAsync(wgpu.MapModeRead, 0, n, func(status wgpu.BufferMapAsyncStatus) {
		if status != wgpu.BufferMapAsyncStatusSuccess {
			done <- fmt.Errorf("map buffer: %v", status)
			return
		}
		done <- nil
	})
	if err != nil {
		return nil, err
	}
	s.device.Poll(true, nil)
	if err := <-done; err != nil {
		return nil, err
	}

	mapped := staging.GetMappedRange(0, uint(n))
	out := make([]byte, len(mapped))
	copy(out, mapped)
	staging.Unmap()
	return out, nil
}

// Release frees every kernel and the device.
func (s *System) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range s.kernels {
		k.pipeline.Release()
		k.shader.Release()
		k.plLayout.Release()
		k.layout.Release()
	}
	s.kernels = nil

	s.queue.Release()
	s.device.Release()
	s.adapter.Release()
	s.instance.Release()
}

func (b *Buffer) Release() {
	if b != nil && b.buffer != nil {
		b.buffer.Release()
	}
}
