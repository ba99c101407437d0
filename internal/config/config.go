// Package config provides YAML-based runner configuration loading and
// difficulty management.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Vec3 is a YAML-friendly 3D vector written as [x, y, z].
type Vec3 [3]float64

// RunnerConfig contains all tunables of the lane runner simulation.
type RunnerConfig struct {
	Player     PlayerConfig     `yaml:"player"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Path       PathConfig       `yaml:"path"`
	Boost      BoostConfig      `yaml:"boost"`
	Stars      StarConfig       `yaml:"stars"`
	Camera     CameraConfig     `yaml:"camera"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// PlayerConfig defines the cube's dimensions and its entrance.
type PlayerConfig struct {
	Size         float64       `yaml:"size"`          // Edge length of the cube
	GroundOffset float64       `yaml:"ground_offset"` // Half tile height, added on top of the tile centre
	Skin         string        `yaml:"skin"`          // Default skin ID
	DropHeight   float64       `yaml:"drop_height"`   // Height above the ground the cube drops from on start
	DropDuration time.Duration `yaml:"drop_duration"` // Time to ease down onto the first segment
}

// PhysicsConfig defines per-tick kinematics.
type PhysicsConfig struct {
	ForwardSpeed     float64       `yaml:"forward_speed"`       // Units per tick
	Gravity          float64       `yaml:"gravity"`             // Velocity change per tick
	JumpForce        float64       `yaml:"jump_force"`          // Initial upward velocity
	FastFallSpeed    float64       `yaml:"fast_fall_speed"`     // Downward velocity set by fast-fall
	FastFallGravity  float64       `yaml:"fast_fall_gravity"`   // Gravity multiplier while fast-falling
	FallGravity      float64       `yaml:"fall_gravity"`        // Gravity multiplier once committed
	GracePeriod      time.Duration `yaml:"grace_period"`        // Off-path tolerance before committing
	TeeterVelocity   float64       `yaml:"teeter_velocity"`     // Downward nudge inside the grace period
	DeathY           float64       `yaml:"death_y"`             // Fall depth reported as dead
	LaneSwitchRate   float64       `yaml:"lane_switch_rate"`    // Lane easing progress per tick
	BoostLaneFactor  float64       `yaml:"boost_lane_factor"`   // Lane easing speed-up while boosting
	IdleBobSpeed     float64       `yaml:"idle_bob_speed"`      // Landing screen bob frequency
	IdleBobAmplitude float64       `yaml:"idle_bob_amplitude"`  // Landing screen bob height
	IdleSpinSpeed    float64       `yaml:"idle_spin_speed"`     // Landing screen yaw per tick
}

// PathConfig defines tile layout and the procedural generator.
type PathConfig struct {
	LanePositions       []float64     `yaml:"lane_positions"`
	LaneWidth           float64       `yaml:"lane_width"`
	BoundsTolerance     float64       `yaml:"bounds_tolerance"` // Fraction of half lane width that still counts as on the tile
	SpawnInterval       float64       `yaml:"spawn_interval"`
	RunwayRows          int           `yaml:"runway_rows"`
	InitialDistance     float64       `yaml:"initial_distance"`
	Lookahead           float64       `yaml:"lookahead"`
	Trailing            float64       `yaml:"trailing"`
	ZTolerance          float64       `yaml:"z_tolerance"`
	TileY               float64       `yaml:"tile_y"`
	TileHeight          float64       `yaml:"tile_height"`
	TileSize            float64       `yaml:"tile_size"`
	SpawnHeight         float64       `yaml:"spawn_height"`
	SpawnDuration       time.Duration `yaml:"spawn_duration"`
	SafetySpawnDuration time.Duration `yaml:"safety_spawn_duration"`
	StaggerDelay        time.Duration `yaml:"stagger_delay"`
	RepeatThreshold     int           `yaml:"repeat_threshold"`
	HistoryWindow       int           `yaml:"history_window"`
	BaseProbabilities   []float64     `yaml:"base_probabilities"`
	OpenThreshold       int           `yaml:"open_threshold"`   // Open lanes in window above which rows get sparser
	ClosedThreshold     int           `yaml:"closed_threshold"` // Open lanes in window below which rows get wider
	OpenPenalty         float64       `yaml:"open_penalty"`
	ClosedBonus         float64       `yaml:"closed_bonus"`
	InterestingChance   float64       `yaml:"interesting_chance"`
	AccentChance        float64       `yaml:"accent_chance"`
	SafetyFillDistance  float64       `yaml:"safety_fill_distance"`
}

// BoostConfig defines the boost speed curve.
type BoostConfig struct {
	Duration       time.Duration `yaml:"duration"`
	PeakMultiplier float64       `yaml:"peak_multiplier"`
}

// StarConfig defines collectible spawning and the invincibility power-up.
type StarConfig struct {
	SpawnEvery            float64       `yaml:"spawn_every"`   // Player travel between spawns
	LeadDistance          float64       `yaml:"lead_distance"` // Spawn distance ahead of the player
	HeightAboveTile       float64       `yaml:"height_above_tile"`
	CollectRadius         float64       `yaml:"collect_radius"`
	Trailing              float64       `yaml:"trailing"`
	CollectDuration       time.Duration `yaml:"collect_duration"`
	BurstParticles        int           `yaml:"burst_particles"`
	BurstDuration         time.Duration `yaml:"burst_duration"`
	InvincibilityDuration time.Duration `yaml:"invincibility_duration"`
}

// CameraConfig defines orbit, transition and follow behaviour.
type CameraConfig struct {
	FOV                float64       `yaml:"fov"` // Vertical field of view in degrees
	OrbitRadius        float64       `yaml:"orbit_radius"`
	OrbitSpeed         float64       `yaml:"orbit_speed"` // Radians per tick
	OrbitHeight        float64       `yaml:"orbit_height"`
	OrbitBob           float64       `yaml:"orbit_bob"`
	OrbitOffsetZ       float64       `yaml:"orbit_offset_z"`
	LandingPosition    Vec3          `yaml:"landing_position"`
	LandingLookAt      Vec3          `yaml:"landing_look_at"`
	PlayOffset         Vec3          `yaml:"play_offset"`
	PlayLookAhead      Vec3          `yaml:"play_look_ahead"`
	Smoothing          float64       `yaml:"smoothing"`
	TransitionDuration time.Duration `yaml:"transition_duration"`
}

// ScoringConfig defines how distance converts to score.
type ScoringConfig struct {
	Spacing   float64 `yaml:"spacing"`    // Distance per point
	StarBonus int     `yaml:"star_bonus"` // Points per collected star
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "distance", "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Distance/score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier      float64 `yaml:"speed_multiplier"`      // Added to forward speed at max difficulty
	ProbabilityReduction float64 `yaml:"probability_reduction"` // Subtracted from lane probabilities at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a CLI string to a preset. Empty and unknown strings
// return "" so the config's own values are kept.
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ApplyRunnerPreset modifies the config based on a difficulty preset.
func ApplyRunnerPreset(cfg *RunnerConfig, preset DifficultyPreset) {
	switch preset {
	case "":
		return
	case DifficultyFixed:
		cfg.Difficulty.Enabled = false
	default:
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	if preset == DifficultyHard {
		cfg.Physics.GracePeriod = 100 * time.Millisecond
	}
}

// Validate reports the first inconsistent value in the config.
func (c RunnerConfig) Validate() error {
	p := c.Path
	switch {
	case len(p.LanePositions) != 3:
		return fmt.Errorf("config: path.lane_positions needs 3 entries, got %d", len(p.LanePositions))
	case len(p.BaseProbabilities) != 3:
		return fmt.Errorf("config: path.base_probabilities needs 3 entries, got %d", len(p.BaseProbabilities))
	case p.SpawnInterval <= 0:
		return errors.New("config: path.spawn_interval must be positive")
	case p.LaneWidth <= 0:
		return errors.New("config: path.lane_width must be positive")
	case p.Lookahead <= p.SpawnInterval:
		return errors.New("config: path.lookahead must exceed spawn_interval")
	case p.Trailing <= 0:
		return errors.New("config: path.trailing must be positive")
	case p.ZTolerance <= 0 || p.ZTolerance > p.SpawnInterval:
		return errors.New("config: path.z_tolerance must be in (0, spawn_interval]")
	case p.RunwayRows < 1:
		return errors.New("config: path.runway_rows must be at least 1")
	case p.HistoryWindow < 1:
		return errors.New("config: path.history_window must be at least 1")
	}

	switch {
	case c.Physics.ForwardSpeed <= 0:
		return errors.New("config: physics.forward_speed must be positive")
	case c.Physics.Gravity <= 0:
		return errors.New("config: physics.gravity must be positive")
	case c.Physics.LaneSwitchRate <= 0:
		return errors.New("config: physics.lane_switch_rate must be positive")
	case c.Physics.DeathY >= p.TileY:
		return errors.New("config: physics.death_y must be below path.tile_y")
	case c.Boost.Duration <= 0:
		return errors.New("config: boost.duration must be positive")
	case c.Boost.PeakMultiplier < 1:
		return errors.New("config: boost.peak_multiplier must be at least 1")
	case c.Stars.SpawnEvery <= 0:
		return errors.New("config: stars.spawn_every must be positive")
	case c.Player.DropDuration < 0:
		return errors.New("config: player.drop_duration must not be negative")
	case c.Camera.TransitionDuration <= 0:
		return errors.New("config: camera.transition_duration must be positive")
	case c.Camera.Smoothing <= 0 || c.Camera.Smoothing > 1:
		return errors.New("config: camera.smoothing must be in (0, 1]")
	case c.Scoring.Spacing <= 0:
		return errors.New("config: scoring.spacing must be positive")
	}
	return nil
}
