package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := parseRunner(DefaultRunnerYAML())
	if err != nil {
		t.Fatalf("parseRunner(embedded) error: %v", err)
	}
	def := DefaultRunnerConfig()

	if cfg.Physics.GracePeriod != def.Physics.GracePeriod {
		t.Errorf("GracePeriod = %v, expected %v", cfg.Physics.GracePeriod, def.Physics.GracePeriod)
	}
	if cfg.Boost.Duration != 2*time.Second {
		t.Errorf("Boost.Duration = %v, expected 2s", cfg.Boost.Duration)
	}
	if cfg.Path.SpawnInterval != def.Path.SpawnInterval {
		t.Errorf("SpawnInterval = %v, expected %v", cfg.Path.SpawnInterval, def.Path.SpawnInterval)
	}
	if cfg.Player.DropDuration != def.Player.DropDuration || cfg.Player.DropHeight != def.Player.DropHeight {
		t.Errorf("Player drop = (%v, %v), expected (%v, %v)",
			cfg.Player.DropHeight, cfg.Player.DropDuration, def.Player.DropHeight, def.Player.DropDuration)
	}
	if cfg.Camera.PlayOffset != def.Camera.PlayOffset {
		t.Errorf("PlayOffset = %v, expected %v", cfg.Camera.PlayOffset, def.Camera.PlayOffset)
	}
	for i, x := range def.Path.LanePositions {
		if cfg.Path.LanePositions[i] != x {
			t.Errorf("LanePositions[%d] = %v, expected %v", i, cfg.Path.LanePositions[i], x)
		}
	}
}

func TestLoadRunnerCustomPathPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runner.yaml")
	data := []byte("physics:\n  forward_speed: 0.3\nstars:\n  invincibility_duration: 8s\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadRunner(path)
	if err != nil {
		t.Fatalf("LoadRunner() error: %v", err)
	}
	if cfg.Physics.ForwardSpeed != 0.3 {
		t.Errorf("ForwardSpeed = %v, expected 0.3", cfg.Physics.ForwardSpeed)
	}
	if cfg.Stars.InvincibilityDuration != 8*time.Second {
		t.Errorf("InvincibilityDuration = %v, expected 8s", cfg.Stars.InvincibilityDuration)
	}
	if cfg.Physics.Gravity != DefaultRunnerConfig().Physics.Gravity {
		t.Errorf("Gravity = %v, expected default to be kept", cfg.Physics.Gravity)
	}
}

func TestLoadRunnerErrors(t *testing.T) {
	if _, err := LoadRunner(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadRunner(missing) expected error")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("path:\n  spawn_interval: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRunner(path); err == nil {
		t.Error("LoadRunner(invalid) expected validation error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RunnerConfig)
		ok     bool
	}{
		{"defaults", func(*RunnerConfig) {}, true},
		{"two lanes", func(c *RunnerConfig) { c.Path.LanePositions = []float64{-1, 1} }, false},
		{"zero speed", func(c *RunnerConfig) { c.Physics.ForwardSpeed = 0 }, false},
		{"short lookahead", func(c *RunnerConfig) { c.Path.Lookahead = 1 }, false},
		{"death above path", func(c *RunnerConfig) { c.Physics.DeathY = 0 }, false},
		{"weak boost", func(c *RunnerConfig) { c.Boost.PeakMultiplier = 0.5 }, false},
		{"smoothing", func(c *RunnerConfig) { c.Camera.Smoothing = 2 }, false},
		{"instant drop", func(c *RunnerConfig) { c.Player.DropDuration = 0 }, true},
		{"negative drop", func(c *RunnerConfig) { c.Player.DropDuration = -time.Millisecond }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultRunnerConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, expected ok=%v", err, tt.ok)
			}
		})
	}
}

func TestApplyRunnerPreset(t *testing.T) {
	cfg := DefaultRunnerConfig()
	ApplyRunnerPreset(&cfg, DifficultyHard)
	if !cfg.Difficulty.Enabled || cfg.Difficulty.InitialLevel != 0.7 {
		t.Errorf("hard preset = %+v, expected enabled at 0.7", cfg.Difficulty)
	}

	ApplyRunnerPreset(&cfg, DifficultyFixed)
	if cfg.Difficulty.Enabled {
		t.Error("fixed preset should disable progression")
	}

	before := DefaultRunnerConfig()
	after := before
	ApplyRunnerPreset(&after, ParsePreset("bogus"))
	if after.Difficulty != before.Difficulty {
		t.Error("unknown preset should leave difficulty unchanged")
	}
}

func TestDifficultyLevel(t *testing.T) {
	cfg := DefaultRunnerConfig().Difficulty
	dm := NewDifficultyManager(cfg)

	tests := []struct {
		distance float64
		expected float64
	}{
		{0, 0},
		{50, 0.5},
		{100, 1},
		{400, 1},
	}
	for _, tt := range tests {
		got := dm.Level(Progress{Distance: tt.distance})
		if got != tt.expected {
			t.Errorf("Level(%v) = %v, expected %v", tt.distance, got, tt.expected)
		}
	}

	dm.SetInitialLevel(0.5)
	if got := dm.Level(Progress{Distance: 50}); got != 0.75 {
		t.Errorf("Level(50) from 0.5 = %v, expected 0.75", got)
	}

	dm.SetEnabled(false)
	if got := dm.Level(Progress{Distance: 100}); got != 0.5 {
		t.Errorf("Level() disabled = %v, expected initial 0.5", got)
	}
}

func TestLaneProbability(t *testing.T) {
	dm := NewDifficultyManager(DefaultRunnerConfig().Difficulty)
	got := dm.LaneProbability(0.75, Progress{Distance: 100})
	if got != 0.5 {
		t.Errorf("LaneProbability() = %v, expected 0.5", got)
	}
}
