package tui

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/cube-runner/internal/storage"
)

const maxReplays = 200

// ReplayBrowserModel lists stored replays and lets the user pick one to
// watch or delete.
type ReplayBrowserModel struct {
	store    *storage.Store
	logger   *log.Logger
	replays  []storage.Replay
	table    table.Model
	help     help.Model
	keys     ListKeyMap
	width    int
	height   int
	status   string
	selected int64
	quitting bool
}

// NewReplayBrowserModel creates a browser over the newest replays.
func NewReplayBrowserModel(store *storage.Store, logger *log.Logger, width, height int) ReplayBrowserModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	keys := DefaultListKeyMap("watch")
	keys.Delete.SetEnabled(true)

	m := ReplayBrowserModel{
		store:  store,
		logger: logger,
		help:   help.New(),
		keys:   keys,
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.load()
	return m
}

func (m *ReplayBrowserModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Mode", Width: 11},
		{Title: "Score", Width: 7},
		{Title: "Time", Width: 7},
		{Title: "Cube", Width: 8},
		{Title: "Preset", Width: 7},
		{Title: "End", Width: 5},
		{Title: "Date", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func (m *ReplayBrowserModel) load() {
	m.replays = nil
	if m.store != nil {
		replays, err := m.store.RecentReplays("", maxReplays)
		if err != nil {
			m.logger.Error("cannot list replays", "error", err)
			m.status = "could not load replays"
		}
		m.replays = replays
	}
	m.updateRows()
}

func (m *ReplayBrowserModel) updateRows() {
	rows := make([]table.Row, len(m.replays))
	for i, r := range m.replays {
		preset := r.Preset
		if preset == "" {
			preset = "-"
		}
		rows[i] = table.Row{
			strconv.FormatInt(r.ID, 10),
			r.GameID,
			strconv.Itoa(r.Score),
			formatTicks(r.Ticks, r.TickRate),
			r.Skin,
			preset,
			r.Outcome,
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
}

// formatTicks renders a tick count as m:ss of simulated time.
func formatTicks(ticks, rate int) string {
	if rate <= 0 {
		rate = 60
	}
	d := time.Duration(ticks) * time.Second / time.Duration(rate)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

// Init initializes the browser.
func (m ReplayBrowserModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the browser.
func (m ReplayBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Back):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Select):
			if r, ok := m.current(); ok {
				m.selected = r.ID
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			if r, ok := m.current(); ok && m.store != nil {
				if _, err := m.store.DeleteReplay(r.ID); err != nil {
					m.logger.Error("cannot delete replay", "id", r.ID, "error", err)
					m.status = "delete failed"
				} else {
					m.status = fmt.Sprintf("deleted replay %d", r.ID)
				}
				m.load()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ReplayBrowserModel) current() (storage.Replay, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.replays) {
		return storage.Replay{}, false
	}
	return m.replays[i], true
}

// View renders the browser.
func (m ReplayBrowserModel) View() string {
	if m.quitting || m.selected != 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(pickerTitleStyle.MarginBottom(1).Render(centerText("REPLAYS", m.width)))
	b.WriteString("\n\n")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	if len(m.replays) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4).
			Render("No replays recorded yet.\nFinish a run to record one!")
		b.WriteString(box.Render(empty))
	} else {
		b.WriteString(box.Render(m.table.View()))
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(footerStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(footerStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// Selected returns the replay chosen for playback, zero if none.
func (m ReplayBrowserModel) Selected() int64 {
	return m.selected
}

// RunReplayBrowser shows the browser and returns the chosen replay ID, or
// zero when the user left without choosing.
func RunReplayBrowser(store *storage.Store, logger *log.Logger, width, height int) (int64, error) {
	p := tea.NewProgram(NewReplayBrowserModel(store, logger, width, height), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return 0, err
	}
	m, ok := final.(ReplayBrowserModel)
	if !ok {
		return 0, nil
	}
	return m.Selected(), nil
}
