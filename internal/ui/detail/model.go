package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/clientdeck/internal/keys"
	"github.com/nhle/clientdeck/internal/model"
	"github.com/nhle/clientdeck/internal/progress"
	"github.com/nhle/clientdeck/internal/theme"
)

// BackMsg signals the parent to navigate back to the board.
type BackMsg struct{}

// ActionMsg asks the parent to run an action on the shown client.
// Action is one of "checklist", "duplicate" or "delete".
type ActionMsg struct {
	Action   string
	ClientID int64
}

// Client bundles what the detail view shows about one client. Template is
// nil when the client's template no longer exists.
type Client struct {
	Client     model.Client
	Template   *model.Template
	Progress   int
	Validation progress.Validation
}

// Model is the client detail view component.
type Model struct {
	client   *Client
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a new detail view model.
func New(keys *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     keys,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && m.client != nil {
		id := m.client.Client.ID
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }
		case key.Matches(msg, m.keys.Checklist):
			return m, action("checklist", id)
		case key.Matches(msg, m.keys.Duplicate):
			return m, action("duplicate", id)
		case key.Matches(msg, m.keys.Delete):
			return m, action("delete", id)
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func action(name string, id int64) tea.Cmd {
	return func() tea.Msg { return ActionMsg{Action: name, ClientID: id} }
}

// View renders the detail view.
func (m Model) View() string {
	if m.client == nil {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No client selected")
	}
	return m.viewport.View()
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.client == nil {
		return ""
	}
	d := m.client
	c := d.Client

	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(c.Name))

	templateName := c.Template + " (missing template)"
	if d.Template != nil {
		templateName = d.Template.Name
	}
	badgeLine := lipgloss.JoinHorizontal(
		lipgloss.Top,
		theme.StatusStyle(c.Status).Render(c.Status.Label()),
		"  ",
		lipgloss.NewStyle().Foreground(theme.ColorMagenta).Render(templateName),
		"  ",
		lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%d%%", d.Progress)),
	)
	sections = append(sections, badgeLine, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	meta := func(label string, ts *model.Timestamp) {
		if ts == nil {
			return
		}
		sections = append(sections, fmt.Sprintf(
			"%s %s",
			metaStyle.Render(fmt.Sprintf("%-20s", label+":")),
			valStyle.Render(ts.Local().Format("2006-01-02 15:04")),
		))
	}
	meta("Created", &c.CreatedAt)
	meta("Completed", c.CompletedAt)
	meta("Observations edited", c.ObservationLastEdited)

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", max(min(m.width-4, 80), 1)))
	sections = append(sections, "", separator, "")

	if d.Template == nil {
		sections = append(sections, theme.HelpStyle.Render("The template of this client was deleted; its answers cannot be shown."))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	for _, item := range d.Template.Items {
		sections = append(sections, renderItem(c, item))
	}

	if len(d.Validation.Missing) > 0 {
		sections = append(sections, "", separator, "")
		sections = append(sections, theme.ErrorStyle.Render("Required before Done:"))
		for _, text := range d.Validation.Missing {
			sections = append(sections, "  • "+text)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderItem draws one checklist line with its answer.
func renderItem(c model.Client, item model.TemplateItem) string {
	mark := "○"
	if progress.ItemComplete(c, item) {
		mark = lipgloss.NewStyle().Foreground(theme.ColorGreen).Render("●")
	}

	label := item.Text
	if item.IsRequired {
		label += " *"
	}

	answer := ""
	if r, ok := c.Response(item.ID); ok && !r.Empty() {
		if item.Type == model.ItemCheckbox {
			answer = "yes"
		} else {
			answer = r.Text()
		}
	}
	if answer == "" {
		answer = theme.HelpStyle.Render("—")
	}

	return fmt.Sprintf("%s %s %s\n    %s",
		mark,
		label,
		theme.ItemTypeStyle(item.Type).Render("["+string(item.Type)+"]"),
		answer,
	)
}

// SetClient updates the client being displayed and re-renders the content.
func (m *Model) SetClient(d *Client) {
	m.client = d
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// CurrentClientID returns the id of the shown client, or 0.
func (m Model) CurrentClientID() int64 {
	if m.client == nil {
		return 0
	}
	return m.client.Client.ID
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	m.viewport.SetContent(m.renderContent())
}
