package clientform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/clientdeck/internal/model"
	"github.com/nhle/clientdeck/internal/theme"
)

// CreatedMsg is dispatched when the user submits a new client.
type CreatedMsg struct {
	Name       string
	TemplateID string
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name       string
	templateID string
}

// Model is the Bubble Tea model for the new client form.
type Model struct {
	form      *huh.Form
	fb        *formBindings
	templates []model.Template
	width     int
	height    int
}

// New creates a new client form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start initialises the form. preferred pre-selects a template when it is
// among templates.
func (m *Model) Start(templates []model.Template, preferred string) tea.Cmd {
	m.templates = templates
	m.fb.name = ""
	m.fb.templateID = ""
	for _, t := range templates {
		if m.fb.templateID == "" || t.ID == preferred {
			m.fb.templateID = t.ID
		}
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the client form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		created := CreatedMsg{Name: strings.TrimSpace(m.fb.name), TemplateID: m.fb.templateID}
		return m, func() tea.Msg { return created }
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the client form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("New Client") + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	opts := make([]huh.Option[string], 0, len(m.templates))
	for _, t := range m.templates {
		opts = append(opts, huh.NewOption(t.Name, t.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Client name").
				Placeholder("Who are you onboarding?").
				Value(&m.fb.name).
				Validate(validateRequired("Client name")),
			huh.NewSelect[string]().
				Title("Template").
				Options(opts...).
				Value(&m.fb.templateID),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

func (m Model) formHeight() int {
	return max(m.height-4, 10)
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
