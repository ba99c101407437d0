package replay

import (
	"testing"

	"github.com/vovakirdan/cube-runner/internal/config"
	"github.com/vovakirdan/cube-runner/internal/core"
	"github.com/vovakirdan/cube-runner/internal/games/runner"
)

func frame(actions ...core.Action) core.InputFrame {
	f := core.NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.Record(frame(core.ActionConfirm))
	r.Record(frame())
	r.Record(frame(core.ActionQuit))
	r.Record(frame(core.ActionLeft, core.ActionJump))

	if r.Ticks() != 4 {
		t.Errorf("Ticks() = %d, expected 4", r.Ticks())
	}
	l := r.Log()
	if len(l.Entries) != 2 {
		t.Fatalf("len(Entries) = %d, expected 2", len(l.Entries))
	}
	if l.Entries[1].Tick != 3 || len(l.Entries[1].Actions) != 2 {
		t.Errorf("Entries[1] = %+v, expected tick 3 with two actions", l.Entries[1])
	}

	r.Reset()
	if r.Ticks() != 0 || len(r.Log().Entries) != 0 {
		t.Error("Reset() kept recorded frames")
	}
}

func TestEncodeDecode(t *testing.T) {
	r := NewRecorder()
	r.Record(frame(core.ActionConfirm))
	r.Record(frame(core.ActionBoost, core.ActionRight))

	b, err := Encode(r.Log())
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	l, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	c := NewCursor(l, 2)
	c.Next()
	f, ok := c.Next()
	if !ok {
		t.Fatal("Next() = false before the last tick")
	}
	if _, ok := c.Next(); ok || !c.Done() {
		t.Error("cursor ran past the recorded ticks")
	}
	if !f.Has(core.ActionBoost) || !f.Has(core.ActionRight) || f.Has(core.ActionConfirm) {
		t.Errorf("frame 1 = %v, expected Right and Boost", f.List())
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid yaml", "frames: [unclosed"},
		{"out of order", "frames:\n  - {t: 5, a: [Jump]}\n  - {t: 2, a: [Left]}\n"},
		{"duplicate tick", "frames:\n  - {t: 5, a: [Jump]}\n  - {t: 5, a: [Left]}\n"},
	}
	for _, tt := range tests {
		if _, err := Decode([]byte(tt.data)); err == nil {
			t.Errorf("%s: Decode() expected error", tt.name)
		}
	}
}

func TestPlayReproducesSession(t *testing.T) {
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 77}

	g := runner.NewWithConfig(config.DefaultRunnerConfig())
	g.Reset(cfg)
	ap := runner.NewAutopilot()
	rec := NewRecorder()
	for i := 0; i < 1500; i++ {
		f := frame(ap.Decide(g)...)
		rec.Record(f)
		g.Step(f)
	}
	want := g.Snapshot()

	b, err := Encode(rec.Log())
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	l, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	h := runner.NewWithConfig(config.DefaultRunnerConfig())
	state := Play(h, cfg, l, rec.Ticks())
	if got := h.Snapshot(); got != want {
		t.Errorf("replayed snapshot differs:\n%+v\n%+v", got, want)
	}
	if state != g.State() {
		t.Errorf("Play() = %+v, expected %+v", state, g.State())
	}
}
