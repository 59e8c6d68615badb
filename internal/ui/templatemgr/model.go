// Package templatemgr lists templates with their usage and edits them.
package templatemgr

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/clientdeck/internal/keys"
	"github.com/nhle/clientdeck/internal/model"
	"github.com/nhle/clientdeck/internal/query"
	"github.com/nhle/clientdeck/internal/theme"
)

// CloseMsg signals the parent to close the template view.
type CloseMsg struct{}

// SaveRequestMsg asks the parent to create (ID empty) or update a template.
type SaveRequestMsg struct {
	ID    string
	Name  string
	Items []model.TemplateItem
}

// DeleteRequestMsg asks the parent to delete a template.
type DeleteRequestMsg struct {
	ID string
}

type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirmDelete
)

type formBindings struct {
	name    string
	items   string
	confirm bool
}

// Model is the Bubble Tea model for template management.
type Model struct {
	mode        mode
	keys        *keys.KeyMap
	usage       []query.TemplateUsage
	selectedIdx int
	editing     *model.Template
	form        *huh.Form
	confirmForm *huh.Form
	fb          *formBindings
	statusMsg   string
	width       int
	height      int
}

// New creates a new template manager model.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:  modeList,
		keys:  k,
		fb:    &formBindings{},
		width: width, height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetUsage replaces the listed templates and returns to the list.
func (m *Model) SetUsage(usage []query.TemplateUsage) {
	m.usage = usage
	m.mode = modeList
	if m.selectedIdx >= len(m.usage) {
		m.selectedIdx = max(len(m.usage)-1, 0)
	}
}

// SetStatus shows the outcome of the last request.
func (m *Model) SetStatus(msg string) {
	m.statusMsg = msg
}

// Editing reports whether a form is open.
func (m Model) Editing() bool {
	return m.mode != modeList
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch m.mode {
		case modeList:
			return m.handleListKey(msg)
		case modeForm:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		}
	}

	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.usage) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.usage)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.usage) > 0 {
			m.selectedIdx = (m.selectedIdx - 1 + len(m.usage)) % len(m.usage)
		}
		return m, nil

	case key.Matches(msg, m.keys.New):
		m.editing = nil
		m.fb.name = ""
		m.fb.items = "*checkbox: First step\nobservations: " + model.ObservationsItemText
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Checklist):
		if len(m.usage) == 0 {
			return m, nil
		}
		t := m.usage[m.selectedIdx].Template
		m.editing = &t
		m.fb.name = t.Name
		m.fb.items = FormatItemLines(t.Items)
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Delete):
		if len(m.usage) == 0 {
			return m, nil
		}
		m.fb.confirm = false
		m.confirmForm = m.buildConfirmForm()
		m.mode = modeConfirmDelete
		return m, m.confirmForm.Init()
	}
	return m, nil
}

func (m Model) buildForm() *huh.Form {
	var previous []model.TemplateItem
	if m.editing != nil {
		previous = m.editing.Items
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Template name").
				Value(&m.fb.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewText().
				Title("Items").
				Description("One per line: [*]type: prompt [| option, option]. Types: " + itemTypeList()).
				Lines(10).
				Value(&m.fb.items).
				Validate(func(s string) error {
					items, err := ParseItemLines(s, previous)
					if err != nil {
						return err
					}
					if len(items) == 0 {
						return fmt.Errorf("add at least one item")
					}
					return nil
				}),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func itemTypeList() string {
	names := make([]string, len(model.ItemTypes))
	for i, t := range model.ItemTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func (m Model) buildConfirmForm() *huh.Form {
	u := m.usage[m.selectedIdx]
	desc := "This cannot be undone."
	if u.Clients > 0 {
		desc = fmt.Sprintf("%d clients still use it; deleting will be refused.", u.Clients)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete template %q?", u.Template.Name)).
				Description(desc).
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		return m, m.saveRequest()
	}
	if m.form.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) saveRequest() tea.Cmd {
	req := SaveRequestMsg{Name: strings.TrimSpace(m.fb.name)}
	var previous []model.TemplateItem
	if m.editing != nil {
		req.ID = m.editing.ID
		previous = m.editing.Items
	}
	items, err := ParseItemLines(m.fb.items, previous)
	if err != nil {
		return nil
	}
	req.Items = items
	return func() tea.Msg { return req }
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm == nil {
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}
	if m.confirmForm.State == huh.StateCompleted {
		m.mode = modeList
		if m.fb.confirm {
			id := m.usage[m.selectedIdx].Template.ID
			return m, func() tea.Msg { return DeleteRequestMsg{ID: id} }
		}
		return m, nil
	}
	if m.confirmForm.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

// View renders the template manager.
func (m Model) View() string {
	switch m.mode {
	case modeForm:
		return m.viewForm(m.form)
	case modeConfirmDelete:
		return m.viewForm(m.confirmForm)
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	b.WriteString(titleStyle.Render("Templates"))
	b.WriteString("\n\n")

	if len(m.usage) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)
		b.WriteString(emptyStyle.Render("No templates yet. Press 'n' to create one."))
	} else {
		for i, u := range m.usage {
			label := fmt.Sprintf("%s  %s", u.Template.Name,
				theme.HelpStyle.Render(fmt.Sprintf("%d items · %d clients", len(u.Template.Items), u.Clients)))
			if u.Template.IsDefault {
				label += theme.HelpStyle.Render(" · built-in")
			}

			if i == m.selectedIdx {
				b.WriteString(theme.SelectedItemStyle.Render(label))
			} else {
				b.WriteString(theme.ListItemStyle.Render(label))
			}
			b.WriteString("\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.FlashStyle.Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorGray).Render(
		"n new | e edit | d delete | esc back",
	))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) viewForm(f *huh.Form) string {
	if f == nil {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(f.View())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

func (m Model) formHeight() int {
	return max(m.height-4, 10)
}
