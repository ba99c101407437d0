// Package replay records the action frames fed into a game and plays them
// back. A replay is the seed plus every non-empty frame, so re-running it
// through a fresh game reproduces the session tick for tick.
package replay

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/cube-runner/internal/core"
	"github.com/vovakirdan/cube-runner/internal/registry"
)

// Entry is one non-empty frame.
type Entry struct {
	Tick    int      `yaml:"t"`
	Actions []string `yaml:"a,flow"`
}

// Log is the ordered list of non-empty frames of a session.
type Log struct {
	Entries []Entry `yaml:"frames"`
}

// Cursor walks a log one tick at a time.
type Cursor struct {
	log   Log
	ticks int
	tick  int
	idx   int
}

// NewCursor creates a cursor over the first ticks frames of l.
func NewCursor(l Log, ticks int) *Cursor {
	return &Cursor{log: l, ticks: ticks}
}

// Next returns the frame for the next tick. ok is false once every
// recorded tick has been consumed.
func (c *Cursor) Next() (f core.InputFrame, ok bool) {
	if c.tick >= c.ticks {
		return core.NewInputFrame(), false
	}
	f = core.NewInputFrame()
	entries := c.log.Entries
	for c.idx < len(entries) && entries[c.idx].Tick < c.tick {
		c.idx++
	}
	if c.idx < len(entries) && entries[c.idx].Tick == c.tick {
		for _, name := range entries[c.idx].Actions {
			if a := core.ParseAction(name); a != core.ActionNone {
				f.Set(a)
			}
		}
	}
	c.tick++
	return f, true
}

// Done reports whether every tick has been consumed.
func (c *Cursor) Done() bool {
	return c.tick >= c.ticks
}

// Progress returns the fraction of ticks consumed.
func (c *Cursor) Progress() float64 {
	if c.ticks <= 0 {
		return 1
	}
	return float64(c.tick) / float64(c.ticks)
}

// Recorder collects frames as they are stepped.
type Recorder struct {
	entries []Entry
	ticks   int
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{entries: make([]Entry, 0, 256)}
}

// Record stores the frame for the current tick and advances the tick
// counter. Platform-only actions are dropped.
func (r *Recorder) Record(f core.InputFrame) {
	var names []string
	for _, a := range f.List() {
		switch a {
		case core.ActionNone, core.ActionQuit, core.ActionBack:
			continue
		}
		names = append(names, a.String())
	}
	if len(names) > 0 {
		r.entries = append(r.entries, Entry{Tick: r.ticks, Actions: names})
	}
	r.ticks++
}

// Ticks returns the number of recorded ticks.
func (r *Recorder) Ticks() int {
	return r.ticks
}

// Log returns a copy of the recorded frames.
func (r *Recorder) Log() Log {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return Log{Entries: out}
}

// Reset discards everything recorded so far.
func (r *Recorder) Reset() {
	r.entries = r.entries[:0]
	r.ticks = 0
}

// Encode serialises a log to YAML.
func Encode(l Log) ([]byte, error) {
	b, err := yaml.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("replay: encode: %w", err)
	}
	return b, nil
}

// Decode parses a YAML log and checks that ticks are strictly increasing.
func Decode(b []byte) (Log, error) {
	var l Log
	if err := yaml.Unmarshal(b, &l); err != nil {
		return Log{}, fmt.Errorf("replay: decode: %w", err)
	}
	for i := 1; i < len(l.Entries); i++ {
		if l.Entries[i].Tick <= l.Entries[i-1].Tick {
			return Log{}, fmt.Errorf("replay: decode: tick %d out of order", l.Entries[i].Tick)
		}
	}
	return l, nil
}

// Play resets g with cfg and steps it ticks times using the log's frames.
// It returns the state after the last tick.
func Play(g registry.Game, cfg core.RuntimeConfig, l Log, ticks int) core.GameState {
	g.Reset(cfg)
	state := g.State()
	c := NewCursor(l, ticks)
	for f, ok := c.Next(); ok; f, ok = c.Next() {
		state = g.Step(f).State
	}
	return state
}
