//go:build !darwin

package compute

// Open always fails here: WebGPU's Vulkan/EGL setup conflicts with raylib's
// GLX context on NVIDIA under X11.
func Open() (*System, error) {
	return nil, ErrUnavailable
}
