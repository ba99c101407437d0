package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "replays.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleReplay(gameID string, score int) Replay {
	return Replay{
		GameID:   gameID,
		Seed:     42,
		Preset:   "hard",
		Skin:     "gold",
		TickRate: 60,
		Ticks:    1200,
		Commands: "frames:\n  - {t: 0, a: [Confirm]}\n",
		Outcome:  "dead",
		Score:    score,
	}
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndLoad(t *testing.T) {
	store := openTestStore(t)

	want := sampleReplay("runner", 77)
	id, err := store.SaveReplay(want)
	if err != nil {
		t.Fatalf("SaveReplay() failed: %v", err)
	}

	got, err := store.Replay(id)
	if err != nil {
		t.Fatalf("Replay() failed: %v", err)
	}
	if got == nil {
		t.Fatal("Replay() = nil, expected stored replay")
	}

	want.ID = id
	want.CreatedAt = got.CreatedAt
	if *got != want {
		t.Errorf("Replay() = %+v, expected %+v", *got, want)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestStoreReplayMissing(t *testing.T) {
	store := openTestStore(t)

	got, err := store.Replay(999)
	if err != nil {
		t.Fatalf("Replay() failed: %v", err)
	}
	if got != nil {
		t.Errorf("Replay(999) = %+v, expected nil", got)
	}
}

func TestStoreSaveValidation(t *testing.T) {
	store := openTestStore(t)

	tests := []struct {
		name   string
		mutate func(r *Replay)
	}{
		{"no game", func(r *Replay) { r.GameID = "" }},
		{"zero rate", func(r *Replay) { r.TickRate = 0 }},
		{"negative ticks", func(r *Replay) { r.Ticks = -1 }},
	}
	for _, tt := range tests {
		r := sampleReplay("runner", 1)
		tt.mutate(&r)
		if _, err := store.SaveReplay(r); err == nil {
			t.Errorf("%s: SaveReplay() expected error", tt.name)
		}
	}
}

func TestStoreRecentReplays(t *testing.T) {
	store := openTestStore(t)

	for i := 1; i <= 5; i++ {
		if _, err := store.SaveReplay(sampleReplay("runner", i*10)); err != nil {
			t.Fatalf("SaveReplay() failed: %v", err)
		}
	}
	if _, err := store.SaveReplay(sampleReplay("runner_zen", 5)); err != nil {
		t.Fatalf("SaveReplay() failed: %v", err)
	}

	recent, err := store.RecentReplays("runner", 3)
	if err != nil {
		t.Fatalf("RecentReplays() failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("len(RecentReplays()) = %d, expected 3", len(recent))
	}
	if recent[0].Score != 50 || recent[2].Score != 30 {
		t.Errorf("RecentReplays() scores = %d..%d, expected 50..30", recent[0].Score, recent[2].Score)
	}
	if recent[0].Commands != "" {
		t.Error("RecentReplays() loaded command logs")
	}

	all, err := store.RecentReplays("", 0)
	if err != nil {
		t.Fatalf("RecentReplays() failed: %v", err)
	}
	if len(all) != 6 || all[0].GameID != "runner_zen" {
		t.Errorf("RecentReplays(all) = %d rows, first %q", len(all), all[0].GameID)
	}
}

func TestStoreDeleteReplay(t *testing.T) {
	store := openTestStore(t)

	id, _ := store.SaveReplay(sampleReplay("runner", 1))
	ok, err := store.DeleteReplay(id)
	if err != nil || !ok {
		t.Fatalf("DeleteReplay() = %v, %v, expected true", ok, err)
	}
	ok, err = store.DeleteReplay(id)
	if err != nil || ok {
		t.Errorf("second DeleteReplay() = %v, %v, expected false", ok, err)
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.GameStats("runner")
	if err != nil {
		t.Fatalf("GameStats() failed: %v", err)
	}
	if empty.Runs != 0 || empty.TotalTicks != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("GameStats() on empty store = %+v", empty)
	}

	store.SaveReplay(sampleReplay("runner", 1))
	store.SaveReplay(sampleReplay("runner", 2))

	st, err := store.GameStats("runner")
	if err != nil {
		t.Fatalf("GameStats() failed: %v", err)
	}
	if st.Runs != 2 || st.TotalTicks != 2400 {
		t.Errorf("GameStats() = %+v, expected 2 runs and 2400 ticks", st)
	}
	if st.LastPlayed.IsZero() {
		t.Error("LastPlayed not set")
	}
}
