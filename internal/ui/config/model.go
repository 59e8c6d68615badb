// Package config is the settings screen. It edits the display and log
// preferences of the loaded configuration and hands the result to the
// root model, which writes it back to disk.
package config

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

// ConfigMode represents the current state of the settings view.
type ConfigMode int

const (
	ModeList ConfigMode = iota // Show current settings
	ModeForm                   // Edit settings
)

// ConfigDoneMsg signals the settings view should close.
type ConfigDoneMsg struct{}

// SavedMsg carries the edited configuration to the root model.
type SavedMsg struct {
	Config model.AppConfig
}

var themes = []string{"default", "dark", "light"}

var logLevels = []string{"debug", "info", "warn", "error"}

// formBindings keeps huh's Value() pointers valid across model copies.
type formBindings struct {
	theme         string
	defaultFilter string
	logLevel      string
}

// Model is the Bubble Tea model for the settings screen.
type Model struct {
	mode      ConfigMode
	cfg       model.AppConfig
	path      string
	templates []model.Template
	form      *huh.Form
	fb        *formBindings
	statusMsg string

	keys          *keys.KeyMap
	width, height int
}

// New creates a settings view for cfg, stored at path.
func New(cfg model.AppConfig, path string, k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:   ModeList,
		cfg:    cfg,
		path:   path,
		fb:     &formBindings{},
		keys:   k,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Config returns the settings currently shown.
func (m Model) Config() model.AppConfig {
	return m.cfg
}

// SetConfig replaces the shown settings and returns to the list.
func (m *Model) SetConfig(cfg model.AppConfig) {
	m.cfg = cfg
	m.mode = ModeList
}

// SetTemplates sets the choices for the default filter.
func (m *Model) SetTemplates(templates []model.Template) {
	m.templates = templates
}

// SetStatus sets a transient status message shown below the settings.
func (m *Model) SetStatus(msg string) {
	m.statusMsg = msg
}

// Editing reports whether the form is open.
func (m Model) Editing() bool {
	return m.mode == ModeForm
}

// Update handles messages and dispatches based on current mode.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.mode == ModeForm {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Back):
		return m, func() tea.Msg { return ConfigDoneMsg{} }
	case key.Matches(keyMsg, m.keys.Checklist), key.Matches(keyMsg, m.keys.Select):
		m.statusMsg = ""
		m.fb.theme = m.cfg.Display.Theme
		m.fb.defaultFilter = m.cfg.Display.DefaultFilter
		m.fb.logLevel = m.cfg.Log.Level
		m.form = m.buildForm()
		m.mode = ModeForm
		return m, m.form.Init()
	}
	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		m.mode = ModeList
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		cfg := m.cfg
		cfg.Display.Theme = m.fb.theme
		cfg.Display.DefaultFilter = m.fb.defaultFilter
		cfg.Log.Level = m.fb.logLevel
		m.mode = ModeList
		return m, func() tea.Msg { return SavedMsg{Config: cfg} }
	case huh.StateAborted:
		m.mode = ModeList
		return m, nil
	}
	return m, cmd
}

func (m *Model) buildForm() *huh.Form {
	filters := []huh.Option[string]{huh.NewOption("All templates", query.AllTemplates)}
	for _, t := range m.templates {
		filters = append(filters, huh.NewOption(t.Name, t.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Theme").
				Description("default follows the terminal background").
				Options(huh.NewOptions(themes...)...).
				Value(&m.fb.theme),
			huh.NewSelect[string]().
				Title("Board opens on").
				Options(filters...).
				Value(&m.fb.defaultFilter),
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions(logLevels...)...).
				Value(&m.fb.logLevel),
		),
	).WithWidth(m.formWidth())
}

// View renders the settings screen.
func (m Model) View() string {
	if m.mode == ModeForm && m.form != nil {
		return lipgloss.NewStyle().
			Padding(1, 2).
			Width(m.width).
			Height(m.height).
			Render(m.form.View())
	}

	var b strings.Builder
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	b.WriteString(titleStyle.Render("Settings"))
	b.WriteString("\n\n")

	rows := [][2]string{
		{"Theme", m.cfg.Display.Theme},
		{"Board opens on", m.filterName(m.cfg.Display.DefaultFilter)},
		{"Log level", m.cfg.Log.Level},
		{"Database", m.cfg.Storage.Path},
		{"Log file", m.cfg.Log.File},
		{"Config file", m.path},
	}
	label := lipgloss.NewStyle().Foreground(theme.ColorGray).Width(16)
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("  %s%s\n", label.Render(r[0]), r[1]))
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.FlashStyle.Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(theme.HelpStyle.Render("e/enter edit | esc back"))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m Model) filterName(id string) string {
	if id == "" || id == query.AllTemplates {
		return "All templates"
	}
	for _, t := range m.templates {
		if t.ID == id {
			return t.Name
		}
	}
	return id + " (missing)"
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}
