package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/clientdeck/internal/model"
	"github.com/nhle/clientdeck/internal/persist"
	"github.com/nhle/clientdeck/internal/query"
	"github.com/nhle/clientdeck/internal/ui/command"
	"github.com/nhle/clientdeck/internal/ui/detail"
	"github.com/nhle/clientdeck/internal/ui/kanban"
	"github.com/nhle/clientdeck/internal/ui/stats"
)

// refresh rebuilds every view from the current board state.
func (m *Model) refresh() {
	templates := m.board.Templates()
	names := make(map[string]string, len(templates))
	filters := make([]kanban.Filter, 0, len(templates))
	ids := make([]string, 0, len(templates))
	for _, t := range templates {
		names[t.ID] = t.Name
		filters = append(filters, kanban.Filter{TemplateID: t.ID, Name: t.Name})
		ids = append(ids, t.ID)
	}
	m.kanban.SetFilters(filters)
	m.commandView.SetTemplateIDs(ids)

	clients := m.board.Clients(m.kanban.Filter())
	cards := make([]kanban.Card, 0, len(clients))
	for _, c := range clients {
		cards = append(cards, kanban.Card{
			Client:       c,
			TemplateName: names[c.Template],
			Progress:     m.board.Progress(c),
		})
	}
	m.kanban.SetCards(cards)
	m.templateView.SetUsage(m.board.TemplateUsage())

	rows := make([]stats.Row, 0, len(templates))
	for _, t := range templates {
		rows = append(rows, stats.Row{Name: t.Name, Counts: m.board.Stats(t.ID)})
	}
	m.statsView.SetRows(rows, m.board.Stats(query.AllTemplates))
	m.settingsView.SetTemplates(templates)

	if id := m.detail.CurrentClientID(); id != 0 {
		if d, ok := m.detailFor(id); ok {
			m.detail.SetClient(d)
		} else {
			m.detail.SetClient(nil)
		}
	}
}

// setFlash shows text in the status bar for flashTTL.
func (m *Model) setFlash(text string) tea.Cmd {
	m.flashSeq++
	m.flash = text
	m.flashFailed = false
	seq := m.flashSeq
	return tea.Tick(flashTTL, func(time.Time) tea.Msg { return flashClearMsg{seq: seq} })
}

// afterMutation refreshes the views and flashes either the committed
// status changes or fallback.
func (m *Model) afterMutation(fallback string) tea.Cmd {
	m.refresh()
	notes := m.notices.Drain()
	if len(notes) == 0 {
		if fallback == "" {
			return nil
		}
		return m.setFlash(fallback)
	}
	msgs := make([]string, len(notes))
	for i, n := range notes {
		msgs[i] = n.Message()
	}
	return m.setFlash(strings.Join(msgs, "; "))
}

// fail flashes err in user terms.
func (m *Model) fail(err error) tea.Cmd {
	text := "Error: " + err.Error()
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		text = verr.Error()
	}
	cmd := m.setFlash(text)
	m.flashFailed = true
	return cmd
}

func (m *Model) detailFor(id int64) (*detail.Client, bool) {
	c, err := m.board.Client(id)
	if err != nil {
		return nil, false
	}
	t, _ := m.board.Template(c.Template)
	return &detail.Client{
		Client:     c,
		Template:   t,
		Progress:   m.board.Progress(c),
		Validation: m.board.Validate(c),
	}, true
}

func (m *Model) showDetail(id int64) tea.Cmd {
	d, ok := m.detailFor(id)
	if !ok {
		m.currentView = ViewBoard
		return m.setFlash("Client no longer exists")
	}
	m.detail.SetClient(d)
	return nil
}

func (m *Model) openChecklist(id int64) tea.Cmd {
	c, err := m.board.Client(id)
	if err != nil {
		return m.fail(err)
	}
	t, ok := m.board.Template(c.Template)
	if !ok {
		return m.setFlash("The template of this client was deleted")
	}
	if m.currentView != ViewChecklist {
		m.previousView = m.currentView
	}
	m.currentView = ViewChecklist
	return m.checklist.Start(c, *t)
}

func (m *Model) createClient(name, templateID string) tea.Cmd {
	c, err := m.board.CreateClient(context.Background(), name, templateID)
	if err != nil {
		return m.fail(err)
	}
	m.refresh()
	m.kanban.Focus(c.ID)
	return m.setFlash(fmt.Sprintf("Added %s", c.Name))
}

func (m *Model) saveChecklist(id int64, values map[string]any) tea.Cmd {
	if _, err := m.board.SaveChecklist(context.Background(), id, values); err != nil {
		return m.fail(err)
	}
	cmd := m.afterMutation("Checklist saved")
	m.kanban.Focus(id)
	return cmd
}

func (m *Model) moveClient(id int64, target model.Status) tea.Cmd {
	if _, err := m.board.MoveClient(context.Background(), id, target); err != nil {
		return m.fail(err)
	}
	cmd := m.afterMutation("")
	m.kanban.Focus(id)
	return cmd
}

func (m *Model) duplicateClient(id int64) tea.Cmd {
	c, err := m.board.DuplicateClient(context.Background(), id)
	if err != nil {
		return m.fail(err)
	}
	cmd := m.afterMutation("Created " + c.Name)
	m.kanban.Focus(c.ID)
	return cmd
}

func (m *Model) deleteClient(id int64) tea.Cmd {
	if err := m.board.DeleteClient(context.Background(), id); err != nil {
		return m.fail(err)
	}
	return m.afterMutation("Client deleted")
}

func (m *Model) saveTemplate(id, name string, items []model.TemplateItem) tea.Cmd {
	var err error
	if id == "" {
		_, err = m.board.CreateTemplate(context.Background(), name, items)
	} else {
		_, err = m.board.UpdateTemplate(context.Background(), id, name, items)
	}
	if err != nil {
		m.templateView.SetStatus("Error: " + err.Error())
		m.templateView.SetUsage(m.board.TemplateUsage())
		return nil
	}
	cmd := m.afterMutation("")
	m.templateView.SetStatus("Template saved")
	return cmd
}

func (m *Model) deleteTemplate(id string) tea.Cmd {
	err := m.board.DeleteTemplate(context.Background(), id)
	var inUse *model.InUseError
	switch {
	case errors.As(err, &inUse):
		m.templateView.SetStatus(fmt.Sprintf("Cannot delete: %d clients use this template", inUse.Count))
		return nil
	case errors.Is(err, model.ErrProtected):
		m.templateView.SetStatus("Built-in templates cannot be deleted")
		return nil
	case err != nil:
		m.templateView.SetStatus("Error: " + err.Error())
		return nil
	}
	m.refresh()
	m.templateView.SetStatus("Template deleted")
	return nil
}

// saveSettings applies edited preferences and writes them to the config
// file. Log level changes take effect on the next start.
func (m *Model) saveSettings(cfg model.AppConfig) tea.Cmd {
	m.settingsView.SetConfig(cfg)
	applyTheme(cfg.Display.Theme)
	if m.configPath == "" {
		m.settingsView.SetStatus("Settings applied for this session")
		return nil
	}
	if err := model.SaveConfig(m.configPath, &cfg); err != nil {
		m.settingsView.SetStatus("Error: " + err.Error())
		return nil
	}
	m.settingsView.SetStatus("Settings saved to " + m.configPath)
	return nil
}

// exportTo writes a backup to path, or to the export directory under the
// conventional name when path is empty.
func (m *Model) exportTo(path string) tea.Cmd {
	now := m.now()
	if path == "" {
		path = filepath.Join(m.exportDir, persist.ExportFileName(now))
	}
	data, err := m.board.Export(now)
	if err != nil {
		return m.fail(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return m.fail(fmt.Errorf("writing backup: %w", err))
	}
	return m.setFlash("Exported to " + path)
}

func (m *Model) importFrom(path string) tea.Cmd {
	if path == "" {
		return m.setFlash("Usage: import <file>")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return m.fail(fmt.Errorf("reading backup: %w", err))
	}
	if err := m.board.Import(context.Background(), data); err != nil {
		if errors.Is(err, model.ErrMalformedInput) {
			cmd := m.setFlash("Error importing file: invalid format")
			m.flashFailed = true
			return cmd
		}
		return m.fail(err)
	}
	m.refresh()
	return m.setFlash("Data imported successfully")
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(line string) tea.Cmd {
	verb, arg := command.Split(line)
	switch verb {
	case "quit", "q":
		return tea.Quit
	case "new":
		m.currentView = ViewClientForm
		return m.clientForm.Start(m.board.Templates(), m.kanban.Filter())
	case "templates":
		m.currentView = ViewTemplates
		m.templateView.SetUsage(m.board.TemplateUsage())
		return nil
	case "settings":
		m.currentView = ViewSettings
		return nil
	case "export":
		return m.exportTo(arg)
	case "import":
		return m.importFrom(arg)
	case "filter":
		m.kanban.SetFilter(arg)
		m.refresh()
		return nil
	default:
		return m.setFlash(fmt.Sprintf("Unknown command %q", verb))
	}
}
