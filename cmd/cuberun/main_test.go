package main

import (
	"path/filepath"
	"testing"

	"github.com/vovakirdan/cube-runner/internal/settings"
)

func TestPlayTime(t *testing.T) {
	tests := []struct {
		ticks, rate int
		expected    string
	}{
		{0, 60, "0:00"},
		{59, 60, "0:00"},
		{60, 60, "0:01"},
		{3600, 60, "1:00"},
		{4530, 60, "1:15"},
		{100, 0, "-"},
	}
	for _, tt := range tests {
		if got := playTime(tt.ticks, tt.rate); got != tt.expected {
			t.Errorf("playTime(%d, %d) = %q, expected %q", tt.ticks, tt.rate, got, tt.expected)
		}
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if got := expandHome("~/.cuberun/replays.db"); got != filepath.Join(home, ".cuberun", "replays.db") {
		t.Errorf("expandHome() = %q", got)
	}
	if got := expandHome("/tmp/x.db"); got != "/tmp/x.db" {
		t.Errorf("expandHome() = %q, expected unchanged path", got)
	}
}

func TestSession(t *testing.T) {
	defer func() { flagDifficulty, flagSkin = "", "" }()

	flagDifficulty, flagSkin = "", ""
	s, err := session(settings.Prefs{Skin: "ghost", Difficulty: "easy"})
	if err != nil {
		t.Fatalf("session() error = %v", err)
	}
	if s.Skin != "ghost" || s.Preset != "easy" {
		t.Errorf("session() = %+v, expected saved preferences", s)
	}

	flagDifficulty, flagSkin = "HARD", "Crimson"
	s, err = session(settings.Prefs{Skin: "ghost"})
	if err != nil {
		t.Fatalf("session() error = %v", err)
	}
	if s.Skin != "crimson" || s.Preset != "hard" {
		t.Errorf("session() = %+v, expected flags to win", s)
	}

	flagDifficulty, flagSkin = "brutal", ""
	if _, err := session(settings.Prefs{}); err == nil {
		t.Error("session() accepted an unknown difficulty")
	}

	flagDifficulty, flagSkin = "", "plaid"
	if _, err := session(settings.Prefs{}); err == nil {
		t.Error("session() accepted an unknown skin")
	}
}
