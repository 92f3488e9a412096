package world

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSettingsOverridesDefaults(t *testing.T) {
	s, err := ParseSettings([]byte(`
far_clip = 1000
editable = true

[window]
width = 800
`))
	require.NoError(t, err)
	assert.InDelta(t, 0.1, s.NearClip, 1e-6)
	assert.InDelta(t, 1000, s.FarClip, 1e-6)
	assert.True(t, s.Editable)
	assert.Equal(t, int32(800), s.Window.Width)
	assert.Equal(t, int32(720), s.Window.Height)
	assert.Equal(t, 2, s.LoadWorkers)
	assert.Equal(t, "assets", s.AssetRoot)
}

func TestParseSettingsExpandsHome(t *testing.T) {
	home, err := homedir.Dir()
	if err != nil {
		t.Skip("no home directory")
	}
	s, err := ParseSettings([]byte(`asset_root = "~/scenes"`))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "scenes"), s.AssetRoot)
}

func TestParseSettingsRejectsBadClip(t *testing.T) {
	_, err := ParseSettings([]byte("near_clip = 10\nfar_clip = 5\n"))
	assert.Error(t, err)

	_, err = ParseSettings([]byte("near_clip = \"close\""))
	assert.Error(t, err)
}

func TestLoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("load_workers = 8\n"), 0644))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 8, s.LoadWorkers)

	s, err = LoadSettings(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
	assert.Equal(t, DefaultSettings(), s)
}
