package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/cube-runner/internal/core"
	"github.com/vovakirdan/cube-runner/internal/registry"
	"github.com/vovakirdan/cube-runner/internal/replay"
	"github.com/vovakirdan/cube-runner/internal/storage"
)

// Session records how a run was configured so its replay can be rebuilt.
type Session struct {
	Preset string
	Skin   string
}

// Model is the Bubble Tea model that drives one game.
type Model struct {
	game     registry.Game
	screen   *core.Screen
	store    *storage.Store
	logger   *log.Logger
	config   core.RuntimeConfig
	session  Session
	keys     GameKeyMap
	help     help.Model
	frame    core.InputFrame
	state    core.GameState
	recorder *replay.Recorder
	playback *replay.Cursor
	quitting bool
}

// NewModel creates a model for interactive play. store may be nil, in
// which case no replays are kept.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, session Session, logger *log.Logger) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return Model{
		game:     game,
		screen:   core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-1, 1)),
		store:    store,
		logger:   logger,
		config:   cfg,
		session:  session,
		keys:     DefaultGameKeyMap(),
		help:     help.New(),
		frame:    core.NewInputFrame(),
		recorder: replay.NewRecorder(),
	}
}

// NewPlaybackModel creates a model that replays a recorded log instead of
// reading the keyboard.
func NewPlaybackModel(game registry.Game, cfg core.RuntimeConfig, l replay.Log, ticks int, logger *log.Logger) Model {
	m := NewModel(game, nil, cfg, Session{}, logger)
	m.playback = replay.NewCursor(l, ticks)
	return m
}

// Init resets the game and starts the tick loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		// The simulation is resolution independent; only the buffer changes.
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-1, 1))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.playback == nil && !m.state.GameOver {
			m.saveReplay("quit")
		}
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	}

	if m.playback != nil {
		return m, nil
	}
	if a := m.keys.Action(msg); a != core.ActionNone {
		m.frame.Set(a)
	}
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.playback != nil {
		f, ok := m.playback.Next()
		if !ok {
			// Hold the final frame until the user quits.
			return m, nil
		}
		m.state = m.game.Step(f).State
		return m, tickCmd(m.config.TickRate)
	}

	wasOver := m.state.GameOver
	m.recorder.Record(m.frame)
	m.state = m.game.Step(m.frame).State
	m.frame.Clear()

	if m.state.GameOver && !wasOver {
		m.saveReplay("dead")
	}
	return m, tickCmd(m.config.TickRate)
}

// saveReplay stores everything recorded since Init. Restarts happen inside
// the game, so the log always replays from the first tick.
func (m Model) saveReplay(outcome string) {
	if m.store == nil || m.recorder.Ticks() == 0 || m.state.Score == 0 {
		return
	}

	data, err := replay.Encode(m.recorder.Log())
	if err != nil {
		m.logger.Error("cannot encode replay", "error", err)
		return
	}
	id, err := m.store.SaveReplay(storage.Replay{
		GameID:   m.game.ID(),
		Seed:     m.config.Seed,
		Preset:   m.session.Preset,
		Skin:     m.session.Skin,
		TickRate: m.config.TickRate,
		Ticks:    m.recorder.Ticks(),
		Commands: string(data),
		Outcome:  outcome,
		Score:    m.state.Score,
	})
	if err != nil {
		m.logger.Error("cannot save replay", "error", err)
		return
	}
	m.logger.Info("replay saved", "id", id, "score", m.state.Score, "ticks", m.recorder.Ticks())
}

func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Warn("screenshot skipped", "error", err)
		return
	}
	dir := filepath.Join(home, ".cuberun", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("screenshot skipped", "error", err)
		return
	}

	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("screenshot failed", "error", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

var footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// View renders the game followed by a one-line footer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)

	footer := m.help.View(m.keys)
	if m.playback != nil {
		footer = fmt.Sprintf("REPLAY %3.0f%%  q to quit", m.playback.Progress()*100)
	}
	return RenderScreen(m.screen) + "\n" + footerStyle.Render(footer)
}

// Run starts an interactive game.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, session Session, logger *log.Logger) error {
	p := tea.NewProgram(NewModel(game, store, cfg, session, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// RunPlayback plays a recorded log in the terminal.
func RunPlayback(game registry.Game, cfg core.RuntimeConfig, l replay.Log, ticks int, logger *log.Logger) error {
	p := tea.NewProgram(NewPlaybackModel(game, cfg, l, ticks, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
