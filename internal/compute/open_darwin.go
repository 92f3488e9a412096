//go:build darwin

package compute

// Open creates a compute System on the default high-performance adapter.
// Metal coexists with raylib's OpenGL context on macOS.
func Open() (*System, error) {
	return newSystem()
}
