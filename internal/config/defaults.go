package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/runner.yaml
var defaultRunnerYAML []byte

// DefaultRunnerYAML returns the embedded default runner YAML.
func DefaultRunnerYAML() []byte {
	return defaultRunnerYAML
}

// DefaultRunnerConfig returns the hardcoded fallback configuration.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Player: PlayerConfig{
			Size:         0.8,
			GroundOffset: 0.3,
			Skin:         "crimson",
			DropHeight:   3,
			DropDuration: 400 * time.Millisecond,
		},
		Physics: PhysicsConfig{
			ForwardSpeed:     0.15,
			Gravity:          0.02,
			JumpForce:        0.28,
			FastFallSpeed:    0.35,
			FastFallGravity:  1.5,
			FallGravity:      1.8,
			GracePeriod:      150 * time.Millisecond,
			TeeterVelocity:   -0.05,
			DeathY:           -10,
			LaneSwitchRate:   0.18,
			BoostLaneFactor:  1.3,
			IdleBobSpeed:     2.5,
			IdleBobAmplitude: 0.08,
			IdleSpinSpeed:    0.015,
		},
		Path: PathConfig{
			LanePositions:       []float64{-2.5, 0, 2.5},
			LaneWidth:           2.0,
			BoundsTolerance:     0.95,
			SpawnInterval:       2.0,
			RunwayRows:          5,
			InitialDistance:     30,
			Lookahead:           44,
			Trailing:            20,
			ZTolerance:          1.0,
			TileY:               -1.0,
			TileHeight:          0.6,
			TileSize:            2.0,
			SpawnHeight:         6,
			SpawnDuration:       300 * time.Millisecond,
			SafetySpawnDuration: 500 * time.Millisecond,
			StaggerDelay:        30 * time.Millisecond,
			RepeatThreshold:     3,
			HistoryWindow:       5,
			BaseProbabilities:   []float64{0.70, 0.75, 0.70},
			OpenThreshold:       7,
			ClosedThreshold:     4,
			OpenPenalty:         0.15,
			ClosedBonus:         0.20,
			InterestingChance:   0.15,
			AccentChance:        0.10,
			SafetyFillDistance:  40,
		},
		Boost: BoostConfig{
			Duration:       2000 * time.Millisecond,
			PeakMultiplier: 3.0,
		},
		Stars: StarConfig{
			SpawnEvery:            30,
			LeadDistance:          30,
			HeightAboveTile:       1.5,
			CollectRadius:         1.2,
			Trailing:              20,
			CollectDuration:       400 * time.Millisecond,
			BurstParticles:        15,
			BurstDuration:         500 * time.Millisecond,
			InvincibilityDuration: 5000 * time.Millisecond,
		},
		Camera: CameraConfig{
			FOV:                75,
			OrbitRadius:        16,
			OrbitSpeed:         0.003,
			OrbitHeight:        8,
			OrbitBob:           2,
			OrbitOffsetZ:       -3,
			LandingPosition:    Vec3{10, 10, -15},
			LandingLookAt:      Vec3{0, 0, 8},
			PlayOffset:         Vec3{0, 3.5, -7},
			PlayLookAhead:      Vec3{0, 0, 5},
			Smoothing:          0.1,
			TransitionDuration: 2000 * time.Millisecond,
		},
		Scoring: ScoringConfig{
			Spacing:   2.5,
			StarBonus: 10,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "distance",
				MaxAt: 100,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier:      0,
				ProbabilityReduction: 0.25,
			},
		},
	}
}
