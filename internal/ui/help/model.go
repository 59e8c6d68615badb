package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/clientdeck/internal/keys"
	"github.com/nhle/clientdeck/internal/model"
	"github.com/nhle/clientdeck/internal/theme"
)

// stageHints explains when a card lands in each column.
var stageHints = map[model.Status]string{
	model.StatusTodo:       "no required item answered yet",
	model.StatusInProgress: "some required items answered",
	model.StatusDone:       "every required item answered",
}

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	return Model{
		keys:   keys,
		help:   h,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the help overlay.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	m.help.Width = m.width - 4
	m.help.ShowAll = true

	var stages strings.Builder
	for _, s := range model.Statuses {
		stages.WriteString(theme.StatusStyle(s).Width(14).Render(s.Label()))
		stages.WriteString(theme.HelpStyle.Render(stageHints[s]))
		stages.WriteString("\n")
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("Keyboard Shortcuts"),
		m.help.View(m.keys),
		"",
		titleStyle.Render("Columns"),
		stages.String(),
		theme.HelpStyle.Render("Cards move on their own as answers change. Moving a card to Done by hand requires every required item."),
	)

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(content)
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
