package settings

import (
	"testing"
)

func isolateHome(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
}

func TestSaveAndReload(t *testing.T) {
	isolateHome(t)

	s, err := Open("cuberun_test", nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if s.Prefs() != (Prefs{}) {
		t.Errorf("fresh Prefs() = %+v, expected zero", s.Prefs())
	}

	s.SetSkin("gold")
	if err := s.SetDifficulty("hard"); err != nil {
		t.Fatalf("SetDifficulty() error = %v", err)
	}
	if err := s.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	again, err := Open("cuberun_test", nil)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	want := Prefs{Skin: "gold", Difficulty: "hard"}
	if again.Prefs() != want {
		t.Errorf("Prefs() = %+v, expected %+v", again.Prefs(), want)
	}
}

func TestSetDifficultyRejectsUnknown(t *testing.T) {
	s := New(nil, nil)
	if err := s.SetDifficulty("nightmare"); err == nil {
		t.Error("SetDifficulty(nightmare) expected error")
	}
	if err := s.SetDifficulty(""); err != nil {
		t.Errorf("SetDifficulty(\"\") error = %v", err)
	}
}

func TestMemoryOnly(t *testing.T) {
	s := New(nil, nil)
	s.SetSkin("forest")
	if err := s.Save(); err != nil {
		t.Errorf("Save() without manager error = %v", err)
	}
	if err := s.Load(); err != nil {
		t.Errorf("Load() without manager error = %v", err)
	}
	if s.Prefs().Skin != "" {
		t.Errorf("Load() kept unsaved skin %q", s.Prefs().Skin)
	}
}
