// Package checklist is the huh form used to answer a client's template
// items.
package checklist

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/clientdeck/internal/model"
	"github.com/nhle/clientdeck/internal/theme"
)

// SavedMsg is dispatched when the user submits the checklist. Values holds
// one answer per template item: bool for checkboxes, string otherwise.
type SavedMsg struct {
	ClientID int64
	Values   map[string]any
}

// CancelMsg is dispatched when the user abandons the checklist.
type CancelMsg struct{}

// formBindings holds field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	checks map[string]*bool
	texts  map[string]*string
}

// Model is the Bubble Tea model for the checklist form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	client   model.Client
	template model.Template
	width    int
	height   int
}

// New creates a new checklist form model.
func New(width, height int) Model {
	return Model{width: width, height: height}
}

// Start builds the form for c against t, pre-filled with c's answers.
func (m *Model) Start(c model.Client, t model.Template) tea.Cmd {
	m.client = c
	m.template = t
	m.fb = bind(c, t)
	m.form = m.buildForm()
	return m.form.Init()
}

// ClientID returns the id of the client being edited.
func (m Model) ClientID() int64 {
	return m.client.ID
}

func bind(c model.Client, t model.Template) *formBindings {
	fb := &formBindings{
		checks: make(map[string]*bool),
		texts:  make(map[string]*string),
	}
	for _, item := range t.Items {
		r, _ := c.Response(item.ID)
		if item.Type == model.ItemCheckbox {
			b := r.Checked()
			fb.checks[item.ID] = &b
			continue
		}
		s := r.Text()
		fb.texts[item.ID] = &s
	}
	return fb
}

// Values collects the bound answers keyed by item id.
func (m Model) Values() map[string]any {
	values := make(map[string]any, len(m.template.Items))
	for id, b := range m.fb.checks {
		values[id] = *b
	}
	for id, s := range m.fb.texts {
		values[id] = *s
	}
	return values
}

// Update handles messages for the checklist form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		saved := SavedMsg{ClientID: m.client.ID, Values: m.Values()}
		return m, func() tea.Msg { return saved }
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the checklist form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite)

	title := titleStyle.Render(m.client.Name) + "  " +
		theme.HelpStyle.Render(m.template.Name+" · * required")

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(title + "\n\n" + m.form.View())
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	fields := make([]huh.Field, 0, len(m.template.Items))
	for _, item := range m.template.Items {
		fields = append(fields, m.field(item))
	}
	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

// field returns the huh input matching the item type.
func (m *Model) field(item model.TemplateItem) huh.Field {
	title := item.Text
	if item.IsRequired {
		title += " *"
	}

	switch item.Type {
	case model.ItemCheckbox:
		return huh.NewConfirm().
			Title(title).
			Affirmative("Yes").
			Negative("No").
			Value(m.fb.checks[item.ID])

	case model.ItemSelect:
		opts := []huh.Option[string]{huh.NewOption("(none)", "")}
		for _, o := range item.Options {
			opts = append(opts, huh.NewOption(o, o))
		}
		return huh.NewSelect[string]().
			Title(title).
			Options(opts...).
			Value(m.fb.texts[item.ID])

	case model.ItemTextarea, model.ItemObservations:
		return huh.NewText().
			Title(title).
			Value(m.fb.texts[item.ID])

	default:
		return huh.NewInput().
			Title(title).
			Placeholder(placeholder(item.Type)).
			Value(m.fb.texts[item.ID]).
			Validate(validateAnswer(item))
	}
}

func placeholder(t model.ItemType) string {
	switch t {
	case model.ItemDate:
		return "YYYY-MM-DD"
	case model.ItemNumber:
		return "0"
	case model.ItemURL:
		return "https://"
	default:
		return ""
	}
}

// validateAnswer checks a typed answer with the same rules the board
// applies on save.
func validateAnswer(item model.TemplateItem) func(string) error {
	return func(s string) error {
		if _, err := model.NewResponse(item, s); err != nil {
			return fmt.Errorf("invalid %s", item.Type)
		}
		return nil
	}
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

func (m Model) formHeight() int {
	return max(m.height-6, 10)
}
