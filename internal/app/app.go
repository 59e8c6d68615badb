package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/clientdeck/internal/board"
	"github.com/nhle/clientdeck/internal/keys"
	"github.com/nhle/clientdeck/internal/model"
	"github.com/nhle/clientdeck/internal/query"
	"github.com/nhle/clientdeck/internal/ui"
	"github.com/nhle/clientdeck/internal/ui/checklist"
	"github.com/nhle/clientdeck/internal/ui/clientform"
	"github.com/nhle/clientdeck/internal/ui/command"
	settings "github.com/nhle/clientdeck/internal/ui/config"
	"github.com/nhle/clientdeck/internal/ui/detail"
	helpview "github.com/nhle/clientdeck/internal/ui/help"
	"github.com/nhle/clientdeck/internal/ui/kanban"
	"github.com/nhle/clientdeck/internal/ui/stats"
	"github.com/nhle/clientdeck/internal/ui/templatemgr"
)

// flashTTL is how long a status bar notice stays visible.
const flashTTL = 4 * time.Second

// flashClearMsg expires the notice with the same sequence number.
type flashClearMsg struct {
	seq int
}

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewBoard ViewState = iota
	ViewDetail
	ViewChecklist
	ViewClientForm
	ViewTemplates
	ViewStats
	ViewSettings
	ViewHelp
	ViewCommand
)

// Options configures the root model.
type Options struct {
	// Theme is "dark", "light" or anything else for auto detection.
	Theme string
	// DefaultFilter is the template id the board opens filtered by.
	DefaultFilter string
	// ExportDir receives backups exported without an explicit path.
	ExportDir string
	// Now is the clock used for export file names.
	Now func() time.Time
	// Config is shown by the settings screen. When ConfigPath is set,
	// edits are written back to it.
	Config     model.AppConfig
	ConfigPath string
}

// Model is the root Bubble Tea model that manages view routing,
// layout, and access to the board.
type Model struct {
	currentView  ViewState
	previousView ViewState
	frame        ui.Frame
	board        *board.Board
	notices      *Notices
	keys         *keys.KeyMap
	kanban       kanban.Model
	detail       detail.Model
	checklist    checklist.Model
	clientForm   clientform.Model
	templateView templatemgr.Model
	statsView    stats.Model
	settingsView settings.Model
	helpView     helpview.Model
	commandView  command.Model
	exportDir    string
	configPath   string
	now          func() time.Time
	ready        bool
	flash        string
	flashFailed  bool
	flashSeq     int
}

// New creates the root application model over b. notices must be the
// notifier b was opened with.
func New(b *board.Board, notices *Notices, opts Options) Model {
	applyTheme(opts.Theme)
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}

	k := keys.DefaultKeyMap()
	m := Model{
		currentView:  ViewBoard,
		board:        b,
		notices:      notices,
		keys:         k,
		kanban:       kanban.New(k, 80, 24),
		detail:       detail.New(k, 80, 24),
		checklist:    checklist.New(80, 24),
		clientForm:   clientform.New(80, 24),
		templateView: templatemgr.New(k, 80, 24),
		statsView:    stats.New(k, 80, 24),
		settingsView: settings.New(opts.Config, opts.ConfigPath, k, 80, 24),
		helpView:     helpview.New(k, 80, 24),
		commandView:  command.New(80, 24),
		exportDir:    opts.ExportDir,
		configPath:   opts.ConfigPath,
		now:          opts.Now,
	}
	m.refresh()
	if opts.DefaultFilter != "" {
		m.kanban.SetFilter(opts.DefaultFilter)
		m.refresh()
	}
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.frame = ui.NewFrame(msg.Width, msg.Height)
		m.ready = true
		w, h := m.frame.Body()
		m.kanban.SetSize(w, h)
		m.detail.SetSize(w, h)
		m.checklist.SetSize(w, h)
		m.clientForm.SetSize(w, h)
		m.templateView.SetSize(w, h)
		m.statsView.SetSize(w, h)
		m.settingsView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case flashClearMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
			m.flashFailed = false
		}
		return m, nil

	case kanban.FilterChangedMsg:
		m.refresh()
		return m, nil

	case kanban.SelectedClientMsg:
		m.previousView = m.currentView
		m.currentView = ViewDetail
		return m, m.showDetail(msg.ClientID)

	case kanban.ChecklistRequestMsg:
		return m, m.openChecklist(msg.ClientID)

	case kanban.MoveRequestMsg:
		return m, m.moveClient(msg.ClientID, msg.Target)

	case kanban.DuplicateRequestMsg:
		return m, m.duplicateClient(msg.ClientID)

	case kanban.DeleteRequestMsg:
		return m, m.deleteClient(msg.ClientID)

	case kanban.NewClientRequestMsg:
		m.previousView = m.currentView
		m.currentView = ViewClientForm
		return m, m.clientForm.Start(m.board.Templates(), m.kanban.Filter())

	case clientform.CreatedMsg:
		m.currentView = ViewBoard
		return m, m.createClient(msg.Name, msg.TemplateID)

	case clientform.CancelMsg:
		m.currentView = ViewBoard
		return m, nil

	case checklist.SavedMsg:
		m.currentView = m.previousView
		return m, m.saveChecklist(msg.ClientID, msg.Values)

	case checklist.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case detail.BackMsg:
		m.currentView = ViewBoard
		return m, nil

	case detail.ActionMsg:
		switch msg.Action {
		case "checklist":
			return m, m.openChecklist(msg.ClientID)
		case "duplicate":
			m.currentView = ViewBoard
			return m, m.duplicateClient(msg.ClientID)
		case "delete":
			m.currentView = ViewBoard
			return m, m.deleteClient(msg.ClientID)
		}
		return m, nil

	case templatemgr.CloseMsg, stats.CloseMsg, settings.ConfigDoneMsg:
		m.currentView = ViewBoard
		return m, nil

	case settings.SavedMsg:
		return m, m.saveSettings(msg.Config)

	case templatemgr.SaveRequestMsg:
		return m, m.saveTemplate(msg.ID, msg.Name, msg.Items)

	case templatemgr.DeleteRequestMsg:
		return m, m.deleteTemplate(msg.ID)

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(string(msg))

	case tea.KeyMsg:
		// Global keys that work regardless of current view
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.currentView == ViewBoard {
				return m, tea.Quit
			}

		case "?":
			if m.capturesInput() {
				break
			}
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return m, nil

		case ":":
			if m.capturesInput() {
				break
			}
			m.previousView = m.currentView
			m.currentView = ViewCommand
			return m, m.commandView.Focus()

		case "esc":
			if m.currentView == ViewHelp || m.currentView == ViewCommand {
				m.currentView = m.previousView
				return m, nil
			}

		case "t":
			if m.currentView == ViewBoard {
				m.previousView = m.currentView
				m.currentView = ViewTemplates
				m.templateView.SetUsage(m.board.TemplateUsage())
				return m, nil
			}

		case "s":
			if m.currentView == ViewBoard {
				m.previousView = m.currentView
				m.currentView = ViewStats
				return m, nil
			}

		case ",":
			if m.currentView == ViewBoard {
				m.previousView = m.currentView
				m.currentView = ViewSettings
				return m, nil
			}
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// capturesInput reports whether the active view consumes free text, in
// which case global single-key shortcuts are disabled.
func (m Model) capturesInput() bool {
	switch m.currentView {
	case ViewChecklist, ViewClientForm, ViewCommand:
		return true
	case ViewTemplates:
		return m.templateView.Editing()
	case ViewSettings:
		return m.settingsView.Editing()
	default:
		return false
	}
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewBoard:
		m.kanban, cmd = m.kanban.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewChecklist:
		m.checklist, cmd = m.checklist.Update(msg)
	case ViewClientForm:
		m.clientForm, cmd = m.clientForm.Update(msg)
	case ViewTemplates:
		m.templateView, cmd = m.templateView.Update(msg)
	case ViewStats:
		m.statsView, cmd = m.statsView.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// View renders the header, the active view and the status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	filter := m.kanban.Filter()
	header := m.frame.Header(m.kanban.FilterName(), m.board.Stats(filter))
	status := m.frame.StatusLine(m.keyHints(), m.flash, m.flashFailed)

	return m.frame.Compose(header, m.renderContent(), status)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewBoard:
		return m.kanban.View()
	case ViewDetail:
		return m.detail.View()
	case ViewChecklist:
		return m.checklist.View()
	case ViewClientForm:
		return m.clientForm.View()
	case ViewTemplates:
		return m.templateView.View()
	case ViewStats:
		return m.statsView.View()
	case ViewSettings:
		return m.settingsView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | tab complete | esc back"
	case ViewDetail:
		return "esc back | e checklist | c duplicate | d delete | j/k scroll"
	case ViewChecklist, ViewClientForm:
		return "enter submit | esc cancel"
	case ViewTemplates:
		return "n new | e edit | d delete | esc back"
	case ViewStats:
		return "esc back"
	case ViewSettings:
		if m.settingsView.Editing() {
			return "enter submit | esc cancel"
		}
		return "e edit | esc back"
	default:
		if m.kanban.Filter() != query.AllTemplates {
			return "tab next template | n new | e checklist | H/L move | ? help"
		}
		return "q quit | ? help | n new | e checklist | H/L move | tab filter | t templates | s chart | , settings"
	}
}
