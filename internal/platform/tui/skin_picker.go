package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/cube-runner/internal/games/runner"
)

// SkinPickerModel lets the player choose a cube skin before a run.
type SkinPickerModel struct {
	skins    []runner.CubeSkin
	cursor   int
	keys     ListKeyMap
	help     help.Model
	width    int
	height   int
	selected string
	quitting bool
}

// NewSkinPickerModel creates a picker with the cursor on current.
func NewSkinPickerModel(current string, width, height int) SkinPickerModel {
	skins := runner.Skins()
	cursor := 0
	for i, s := range skins {
		if s.ID == runner.SkinByID(current).ID {
			cursor = i
		}
	}
	return SkinPickerModel{
		skins:  skins,
		cursor: cursor,
		keys:   DefaultListKeyMap("choose"),
		help:   help.New(),
		width:  width,
		height: height,
	}
}

// Init initializes the picker.
func (m SkinPickerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the picker.
func (m SkinPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Back):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.skins)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Select):
			m.selected = m.skins[m.cursor].ID
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}
	return m, nil
}

var (
	pickerTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	pickerCardStyle  = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")).
				Padding(0, 2)
)

// View renders the skin list and a preview of the highlighted skin.
func (m SkinPickerModel) View() string {
	if m.quitting || m.selected != "" {
		return ""
	}

	var list strings.Builder
	for i, s := range m.skins {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		list.WriteString(style.Render(cursor + s.Name))
		list.WriteString("\n")
	}

	s := m.skins[m.cursor]
	glyph := styleFor(s.TermColor).Render(strings.Repeat(string(s.Glyph), 6))
	preview := strings.Join([]string{
		glyph, glyph, glyph,
		"",
		fmt.Sprintf("colour    #%06x", s.Material.Color),
		fmt.Sprintf("edges     #%06x", s.EdgeColor),
		fmt.Sprintf("metal     %.1f", s.Material.Metalness),
		fmt.Sprintf("rough     %.1f", s.Material.Roughness),
	}, "\n")

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		pickerCardStyle.Render(strings.TrimRight(list.String(), "\n")),
		"  ",
		pickerCardStyle.Render(preview),
	)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(pickerTitleStyle.Render("CHOOSE YOUR CUBE"), m.width))
	b.WriteString("\n\n")
	for _, line := range strings.Split(body, "\n") {
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(footerStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// Selected returns the chosen skin ID, empty if the picker was cancelled.
func (m SkinPickerModel) Selected() string {
	return m.selected
}

// RunSkinPicker shows the picker. ok is false when the user cancelled.
func RunSkinPicker(current string, width, height int) (id string, ok bool, err error) {
	p := tea.NewProgram(NewSkinPickerModel(current, width, height), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return "", false, err
	}
	m, isPicker := final.(SkinPickerModel)
	if !isPicker || m.Selected() == "" {
		return "", false, nil
	}
	return m.Selected(), true, nil
}
