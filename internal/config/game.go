package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tomz197/arviewer/internal/vecmath"
)

// ErrInvalid is returned when a game configuration fails validation.
var ErrInvalid = errors.New("invalid game config")

// View resolution - the visible viewport in logical units.
// Actual rendering scales to fit terminal size.
const (
	ViewWidth  = 120 // Logical viewport width
	ViewHeight = 80  // Logical viewport height (in sub-pixels, so 40 terminal rows)
)

// Game holds the tunable parameters of one game.
type Game struct {
	TargetFPS int `yaml:"target_fps"`

	// Ships
	ShipSize         float64       `yaml:"ship_size"`
	ShipSpeed        float64       `yaml:"ship_speed"`
	ShipSpawnRange   float64       `yaml:"ship_spawn_range"`
	ShipSpawnDepth   float64       `yaml:"ship_spawn_depth"`
	ShipReplaceDelay time.Duration `yaml:"ship_replace_delay"`

	// Bullets
	BulletRadius  float64 `yaml:"bullet_radius"`
	BulletMass    float64 `yaml:"bullet_mass"`
	BulletImpulse float64 `yaml:"bullet_impulse"`

	// Target
	TargetSize   float64 `yaml:"target_size"`
	TargetScale  float64 `yaml:"target_scale"`
	TargetRadius float64 `yaml:"target_radius"`

	// Explosions
	ExplosionParticles int           `yaml:"explosion_particles"`
	ExplosionSpeed     float64       `yaml:"explosion_speed"`
	ExplosionLifetime  time.Duration `yaml:"explosion_lifetime"`

	// Scene
	PlayRadius     float64 `yaml:"play_radius"`
	ShowStatistics bool    `yaml:"show_statistics"`

	// Tracking
	WorldTrackingSupported bool          `yaml:"world_tracking_supported"`
	PlaneDetectionDelay    time.Duration `yaml:"plane_detection_delay"`
	PlanePosition          Vec3          `yaml:"plane_position"`
	PlaneExtent            Vec3          `yaml:"plane_extent"`
	CameraPosition         Vec3          `yaml:"camera_position"`
	LookSpeed              float64       `yaml:"look_speed"` // radians per second
}

// Vec3 is the YAML form of a vector: a three element sequence.
type Vec3 [3]float64

// Vec returns v as a vecmath vector.
func (v Vec3) Vec() vecmath.Vec3 { return vecmath.V3(v[0], v[1], v[2]) }

// Default returns the stock tuning.
func Default() Game {
	return Game{
		TargetFPS:          60,
		ShipSize:           0.1,
		ShipSpeed:          0.25,
		ShipSpawnRange:     0.5,
		ShipSpawnDepth:     -1,
		ShipReplaceDelay:   500 * time.Millisecond,
		BulletRadius:       0.025,
		BulletMass:         0.125,
		BulletImpulse:      0.5,
		TargetSize:         0.1,
		TargetScale:        0.0005,
		TargetRadius:       0.08,
		ExplosionParticles: 24,
		ExplosionSpeed:     0.6,
		ExplosionLifetime:  time.Second,
		PlayRadius:         10,
		ShowStatistics:     true,

		WorldTrackingSupported: true,
		PlaneDetectionDelay:    time.Second,
		PlanePosition:          Vec3{0, -0.5, -1.5},
		PlaneExtent:            Vec3{0.5, 0, 0.5},
		CameraPosition:         Vec3{0, 0, 0},
		LookSpeed:              1.5,
	}
}

// Load reads a YAML file on top of Default. Fields missing from the file
// keep their default values.
func Load(path string) (Game, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read game config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse game config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadOrDefault loads path when it is non-empty, otherwise returns Default.
func LoadOrDefault(path string) (Game, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// FrameTime is the duration of one frame at TargetFPS.
func (g Game) FrameTime() time.Duration {
	return time.Second / time.Duration(g.TargetFPS)
}

// Validate reports the first field holding an unusable value.
func (g Game) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"target_fps", float64(g.TargetFPS)},
		{"ship_size", g.ShipSize},
		{"ship_speed", g.ShipSpeed},
		{"bullet_radius", g.BulletRadius},
		{"bullet_mass", g.BulletMass},
		{"target_radius", g.TargetRadius},
		{"target_scale", g.TargetScale},
		{"play_radius", g.PlayRadius},
	}
	for _, f := range positive {
		if f.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalid, f.name, f.value)
		}
	}

	switch {
	case g.ShipSpawnRange < 0:
		return fmt.Errorf("%w: ship_spawn_range must not be negative", ErrInvalid)
	case g.ShipReplaceDelay < 0:
		return fmt.Errorf("%w: ship_replace_delay must not be negative", ErrInvalid)
	case g.BulletImpulse < 0:
		return fmt.Errorf("%w: bullet_impulse must not be negative", ErrInvalid)
	case g.ExplosionParticles < 0:
		return fmt.Errorf("%w: explosion_particles must not be negative", ErrInvalid)
	case g.PlaneDetectionDelay < 0:
		return fmt.Errorf("%w: plane_detection_delay must not be negative", ErrInvalid)
	case g.LookSpeed < 0:
		return fmt.Errorf("%w: look_speed must not be negative", ErrInvalid)
	}
	return nil
}
