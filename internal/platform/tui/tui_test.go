package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/cube-runner/internal/config"
	"github.com/vovakirdan/cube-runner/internal/core"
	"github.com/vovakirdan/cube-runner/internal/games/runner"
	"github.com/vovakirdan/cube-runner/internal/replay"
	"github.com/vovakirdan/cube-runner/internal/storage"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestGameKeyMap(t *testing.T) {
	keys := DefaultGameKeyMap()

	tests := []struct {
		msg      tea.KeyMsg
		expected core.Action
	}{
		{tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft},
		{runes("a"), core.ActionLeft},
		{tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight},
		{runes("d"), core.ActionRight},
		{tea.KeyMsg{Type: tea.KeySpace}, core.ActionJump},
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionJump},
		{tea.KeyMsg{Type: tea.KeyDown}, core.ActionDuck},
		{runes("x"), core.ActionBoost},
		{tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm},
		{runes("p"), core.ActionPause},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionPause},
		{runes("r"), core.ActionRestart},
		{runes("c"), core.ActionSkin},
		{runes("q"), core.ActionNone},
		{runes("z"), core.ActionNone},
	}
	for _, tt := range tests {
		if got := keys.Action(tt.msg); got != tt.expected {
			t.Errorf("Action(%q) = %v, expected %v", tt.msg.String(), got, tt.expected)
		}
	}
}

func TestRenderScreen(t *testing.T) {
	scr := core.NewScreen(10, 2)
	scr.DrawTextColor(0, 0, "RUN", core.ColorGold)
	scr.DrawText(0, 1, "cube")

	out := RenderScreen(scr)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("RenderScreen() lines = %d, expected 2", len(lines))
	}
	if !strings.Contains(lines[0], "RUN") || !strings.Contains(lines[1], "cube") {
		t.Errorf("RenderScreen() = %q", out)
	}
}

func newTestModel(t *testing.T, store *storage.Store) Model {
	t.Helper()
	g := runner.NewWithConfig(config.DefaultRunnerConfig())
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 21}
	m := NewModel(g, store, cfg, Session{Preset: "normal", Skin: "steel"}, nil)
	m.Init()
	return m
}

func step(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelRecordsAndSavesReplay(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "replays.db"))
	if err != nil {
		t.Fatalf("storage.Open() error = %v", err)
	}
	defer store.Close()

	m := newTestModel(t, store)
	g := m.game.(*runner.Game)

	m = step(m, tea.KeyMsg{Type: tea.KeyEnter})
	for i := 0; i < 30000 && !g.State().GameOver; i++ {
		m = step(m, TickMsg{})
	}
	if !g.State().GameOver {
		t.Fatal("idle run never ended")
	}

	replays, err := store.RecentReplays("runner", 10)
	if err != nil {
		t.Fatalf("RecentReplays() error = %v", err)
	}
	if len(replays) != 1 {
		t.Fatalf("stored replays = %d, expected 1", len(replays))
	}
	r := replays[0]
	if r.Outcome != "dead" || r.Score != g.Score() || r.Skin != "steel" || r.Preset != "normal" || r.Seed != 21 {
		t.Errorf("stored replay = %+v", r)
	}

	full, err := store.Replay(r.ID)
	if err != nil || full == nil {
		t.Fatalf("Replay() = %v, %v", full, err)
	}
	l, err := replay.Decode([]byte(full.Commands))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	h := runner.NewWithConfig(config.DefaultRunnerConfig())
	state := replay.Play(h, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: full.TickRate, Seed: full.Seed}, l, full.Ticks)
	if !state.GameOver || state.Score != r.Score {
		t.Errorf("replayed state = %+v, expected game over with score %d", state, r.Score)
	}

	m = step(m, runes("q"))
	if m.View() != "" {
		t.Error("View() after quit should be empty")
	}
	replays, _ = store.RecentReplays("runner", 10)
	if len(replays) != 1 {
		t.Errorf("quitting after game over stored another replay: %d", len(replays))
	}
}

func TestModelView(t *testing.T) {
	m := newTestModel(t, nil)
	m = step(m, tea.WindowSizeMsg{Width: 60, Height: 20})
	m = step(m, TickMsg{})

	out := m.View()
	if !strings.Contains(out, "CUBE RUNNER") {
		t.Error("View() missing landing title")
	}
	if !strings.Contains(out, "jump") {
		t.Error("View() missing key help")
	}
	if m.screen.Width() != 60 || m.screen.Height() != 19 {
		t.Errorf("screen = %dx%d, expected 60x19", m.screen.Width(), m.screen.Height())
	}
}

func TestPlaybackIgnoresKeys(t *testing.T) {
	g := runner.NewWithConfig(config.DefaultRunnerConfig())
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 3}
	l := replay.Log{Entries: []replay.Entry{{Tick: 0, Actions: []string{"Confirm"}}}}
	m := NewPlaybackModel(g, cfg, l, 3, nil)
	m.Init()

	m = step(m, tea.KeyMsg{Type: tea.KeyLeft})
	for i := 0; i < 5; i++ {
		m = step(m, TickMsg{})
	}
	if g.Ticks() != 3 {
		t.Errorf("playback stepped %d ticks, expected 3", g.Ticks())
	}
	if g.Phase() != runner.PhasePlaying {
		t.Errorf("Phase() = %v, expected playing", g.Phase())
	}
	if !strings.Contains(m.View(), "REPLAY 100%") {
		t.Error("View() missing playback footer")
	}
}

func TestSkinPicker(t *testing.T) {
	m := NewSkinPickerModel("ghost", 80, 24)
	if m.skins[m.cursor].ID != "ghost" {
		t.Fatalf("cursor on %q, expected ghost", m.skins[m.cursor].ID)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(SkinPickerModel)
	if !strings.Contains(m.View(), "CHOOSE YOUR CUBE") {
		t.Error("View() missing title")
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(SkinPickerModel)
	if m.Selected() != runner.NextSkin("ghost").ID {
		t.Errorf("Selected() = %q, expected %q", m.Selected(), runner.NextSkin("ghost").ID)
	}

	cancel := NewSkinPickerModel("", 80, 24)
	next, _ = cancel.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if next.(SkinPickerModel).Selected() != "" {
		t.Error("cancelled picker returned a selection")
	}
}

func TestReplayBrowser(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "replays.db"))
	if err != nil {
		t.Fatalf("storage.Open() error = %v", err)
	}
	defer store.Close()

	for i := 1; i <= 2; i++ {
		store.SaveReplay(storage.Replay{GameID: "runner", Seed: int64(i), TickRate: 60, Ticks: 600, Outcome: "dead", Score: i})
	}

	m := NewReplayBrowserModel(store, nil, 100, 30)
	if len(m.replays) != 2 {
		t.Fatalf("loaded %d replays, expected 2", len(m.replays))
	}
	if !strings.Contains(m.View(), "0:10") {
		t.Error("View() missing run time")
	}

	next, _ := m.Update(runes("x"))
	m = next.(ReplayBrowserModel)
	if len(m.replays) != 1 {
		t.Fatalf("after delete %d replays, expected 1", len(m.replays))
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(ReplayBrowserModel)
	if m.Selected() != m.replays[0].ID {
		t.Errorf("Selected() = %d, expected %d", m.Selected(), m.replays[0].ID)
	}
}

func TestFormatTicks(t *testing.T) {
	tests := []struct {
		ticks, rate int
		expected    string
	}{
		{0, 60, "0:00"},
		{3600, 60, "1:00"},
		{90, 30, "0:03"},
		{60, 0, "0:01"},
	}
	for _, tt := range tests {
		if got := formatTicks(tt.ticks, tt.rate); got != tt.expected {
			t.Errorf("formatTicks(%d, %d) = %q, expected %q", tt.ticks, tt.rate, got, tt.expected)
		}
	}
}
