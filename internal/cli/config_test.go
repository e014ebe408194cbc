package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "worldopt.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
out: lean.world
no_compact: true
light_radius_max: 60
zero_physics_weight: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "lean.world", cfg.Out)
	assert.True(t, cfg.NoCompact)
	require.NotNil(t, cfg.LightRadiusMax)
	assert.Equal(t, 60.0, *cfg.LightRadiusMax)
	assert.Nil(t, cfg.LightBrightnessMax)
	assert.True(t, cfg.ZeroPhysicsWeight)
	assert.False(t, cfg.SkipVerify)
}

func TestLoadConfig_UnknownKey(t *testing.T) {
	path := writeConfig(t, "light_radius: 60\n")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "light_radius")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestApplyConfig_FlagsWin(t *testing.T) {
	cfg := &Config{
		Out:            "from-config.world",
		NoCompact:      true,
		LightRadiusMax: f64(60),
		SkipVerify:     true,
	}

	cmd := NewOptimizeCommand(&RootOptions{})
	require.NoError(t, cmd.Flags().Set("out", "from-flag.world"))
	require.NoError(t, cmd.Flags().Set("light-radius-max", "80"))

	opts := &OptimizeOptions{
		Out:            "from-flag.world",
		LightRadiusMax: 80,
	}
	applyConfig(cfg, opts, cmd.Flags())

	assert.Equal(t, "from-flag.world", opts.Out, "explicit flag beats config")
	assert.Equal(t, 80.0, opts.LightRadiusMax, "explicit flag beats config")
	assert.True(t, opts.NoCompact, "unset flag takes config value")
	assert.True(t, opts.SkipVerify, "unset flag takes config value")
}

func f64(v float64) *float64 { return &v }
