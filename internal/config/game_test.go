package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 500*time.Millisecond, cfg.ShipReplaceDelay)
	assert.Equal(t, 0.25, cfg.ShipSpeed)
	assert.Equal(t, time.Second/60, cfg.FrameTime())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.yaml")
	data := []byte(`
target_fps: 30
ship_replace_delay: 750ms
world_tracking_supported: false
plane_position: [1, -2, -3]
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.TargetFPS)
	assert.Equal(t, 750*time.Millisecond, cfg.ShipReplaceDelay)
	assert.False(t, cfg.WorldTrackingSupported)
	assert.Equal(t, Vec3{1, -2, -3}, cfg.PlanePosition)
	assert.Equal(t, -3.0, cfg.PlanePosition.Vec().Z)

	// untouched fields keep defaults
	assert.Equal(t, Default().ShipSpeed, cfg.ShipSpeed)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ship_speed: -1\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Contains(t, err.Error(), "ship_speed")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalid))
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Game)
		field  string
	}{
		{"zero fps", func(g *Game) { g.TargetFPS = 0 }, "target_fps"},
		{"negative delay", func(g *Game) { g.ShipReplaceDelay = -time.Second }, "ship_replace_delay"},
		{"negative range", func(g *Game) { g.ShipSpawnRange = -0.1 }, "ship_spawn_range"},
		{"zero play radius", func(g *Game) { g.PlayRadius = 0 }, "play_radius"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}
