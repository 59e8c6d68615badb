// Package kanban renders the three-column client board and turns key
// presses into requests for the root model. It never touches the board
// state directly.
package kanban

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/clientdeck/internal/keys"
	"github.com/nhle/clientdeck/internal/model"
	"github.com/nhle/clientdeck/internal/query"
	"github.com/nhle/clientdeck/internal/theme"
)

// SelectedClientMsg is sent when the user opens a card.
type SelectedClientMsg struct {
	ClientID int64
}

// ChecklistRequestMsg asks the parent to open the checklist of a client.
type ChecklistRequestMsg struct {
	ClientID int64
}

// MoveRequestMsg asks the parent to move a client to another column.
type MoveRequestMsg struct {
	ClientID int64
	Target   model.Status
}

// DuplicateRequestMsg asks the parent to copy a client.
type DuplicateRequestMsg struct {
	ClientID int64
}

// DeleteRequestMsg asks the parent to delete a client.
type DeleteRequestMsg struct {
	ClientID int64
}

// NewClientRequestMsg asks the parent to open the new client form.
type NewClientRequestMsg struct{}

// FilterChangedMsg is sent after the template filter cycles.
type FilterChangedMsg struct {
	TemplateID string
}

// Filter is one entry of the template filter cycle.
type Filter struct {
	TemplateID string
	Name       string
}

// Model is the board view component.
type Model struct {
	keys    *keys.KeyMap
	columns [3][]Card
	col     int
	rows    [3]int
	filters []Filter
	filter  int
	bar     progress.Model
	now     func() time.Time
	width   int
	height  int
}

// New creates a board view model.
func New(k *keys.KeyMap, width, height int) Model {
	bar := progress.New(
		progress.WithSolidFill(string(theme.ColorGreen.Dark)),
		progress.WithoutPercentage(),
	)
	return Model{
		keys:    k,
		filters: []Filter{{TemplateID: query.AllTemplates, Name: "All templates"}},
		bar:     bar,
		now:     time.Now,
		width:   width,
		height:  height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetFilters replaces the filter cycle. The "all" entry is always first.
// The current filter is kept when it still exists.
func (m *Model) SetFilters(filters []Filter) {
	current := m.Filter()
	m.filters = append([]Filter{{TemplateID: query.AllTemplates, Name: "All templates"}}, filters...)
	m.filter = 0
	for i, f := range m.filters {
		if f.TemplateID == current {
			m.filter = i
		}
	}
}

// SetFilter selects the filter with the given template id, falling back
// to all templates.
func (m *Model) SetFilter(templateID string) {
	m.filter = 0
	for i, f := range m.filters {
		if f.TemplateID == templateID {
			m.filter = i
		}
	}
}

// Filter returns the active template filter id.
func (m Model) Filter() string {
	if len(m.filters) == 0 {
		return query.AllTemplates
	}
	return m.filters[m.filter].TemplateID
}

// FilterName returns the display name of the active filter.
func (m Model) FilterName() string {
	if len(m.filters) == 0 {
		return ""
	}
	return m.filters[m.filter].Name
}

// SetCards distributes cards into their columns, keeping each column's
// cursor in range.
func (m *Model) SetCards(cards []Card) {
	m.columns = [3][]Card{}
	for _, c := range cards {
		if i := columnIndex(c.Client.Status); i >= 0 {
			m.columns[i] = append(m.columns[i], c)
		}
	}
	for i := range m.columns {
		m.rows[i] = clamp(m.rows[i], len(m.columns[i]))
	}
}

// Focus moves the cursor onto the card of clientID, if present.
func (m *Model) Focus(clientID int64) {
	for ci, col := range m.columns {
		for ri, c := range col {
			if c.Client.ID == clientID {
				m.col = ci
				m.rows[ci] = ri
				return
			}
		}
	}
}

// SelectedCard returns the card under the cursor.
func (m Model) SelectedCard() (Card, bool) {
	col := m.columns[m.col]
	if len(col) == 0 {
		return Card{}, false
	}
	return col[m.rows[m.col]], true
}

// Column returns the cards in the column of s.
func (m Model) Column(s model.Status) []Card {
	if i := columnIndex(s); i >= 0 {
		return m.columns[i]
	}
	return nil
}

// Update handles messages for the board view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Down):
		if n := len(m.columns[m.col]); n > 0 {
			m.rows[m.col] = (m.rows[m.col] + 1) % n
		}

	case key.Matches(keyMsg, m.keys.Up):
		if n := len(m.columns[m.col]); n > 0 {
			m.rows[m.col] = (m.rows[m.col] - 1 + n) % n
		}

	case key.Matches(keyMsg, m.keys.Left):
		m.col = max(m.col-1, 0)

	case key.Matches(keyMsg, m.keys.Right):
		m.col = min(m.col+1, len(model.Statuses)-1)

	case key.Matches(keyMsg, m.keys.CycleFilter):
		if len(m.filters) > 0 {
			m.filter = (m.filter + 1) % len(m.filters)
		}
		id := m.Filter()
		return m, func() tea.Msg { return FilterChangedMsg{TemplateID: id} }

	case key.Matches(keyMsg, m.keys.New):
		return m, func() tea.Msg { return NewClientRequestMsg{} }

	case key.Matches(keyMsg, m.keys.MoveLeft):
		return m, m.moveRequest(-1)

	case key.Matches(keyMsg, m.keys.MoveRight):
		return m, m.moveRequest(+1)

	case key.Matches(keyMsg, m.keys.Select):
		return m, m.cardRequest(func(id int64) tea.Msg { return SelectedClientMsg{ClientID: id} })

	case key.Matches(keyMsg, m.keys.Checklist):
		return m, m.cardRequest(func(id int64) tea.Msg { return ChecklistRequestMsg{ClientID: id} })

	case key.Matches(keyMsg, m.keys.Duplicate):
		return m, m.cardRequest(func(id int64) tea.Msg { return DuplicateRequestMsg{ClientID: id} })

	case key.Matches(keyMsg, m.keys.Delete):
		return m, m.cardRequest(func(id int64) tea.Msg { return DeleteRequestMsg{ClientID: id} })
	}

	return m, nil
}

func (m Model) cardRequest(build func(int64) tea.Msg) tea.Cmd {
	card, ok := m.SelectedCard()
	if !ok {
		return nil
	}
	id := card.Client.ID
	return func() tea.Msg { return build(id) }
}

// moveRequest asks to move the selected card delta columns over.
func (m Model) moveRequest(delta int) tea.Cmd {
	card, ok := m.SelectedCard()
	if !ok {
		return nil
	}
	target := m.col + delta
	if target < 0 || target >= len(model.Statuses) {
		return nil
	}
	msg := MoveRequestMsg{ClientID: card.Client.ID, Target: model.Statuses[target]}
	return func() tea.Msg { return msg }
}

// View renders the board.
func (m Model) View() string {
	colWidth := max(m.width/len(model.Statuses), 20)
	inner := colWidth - 4
	visible := max((m.height-4)/cardHeight, 1)
	now := m.now()

	cols := make([]string, len(model.Statuses))
	for i, s := range model.Statuses {
		header := theme.StatusStyle(s).Render(fmt.Sprintf("%s (%d)", s.Label(), len(m.columns[i])))

		var body strings.Builder
		cards := m.columns[i]
		if len(cards) == 0 {
			body.WriteString(theme.HelpStyle.Render("empty"))
		}
		start := max(m.rows[i]-visible+1, 0)
		for ri := start; ri < len(cards) && ri < start+visible; ri++ {
			selected := i == m.col && ri == m.rows[i]
			body.WriteString(cards[ri].render(m.bar, inner, selected, now))
			body.WriteString("\n")
		}

		style := theme.ColumnStyle
		if i == m.col {
			style = theme.FocusedColumnStyle
		}
		cols[i] = style.
			Width(inner).
			Height(max(m.height-2, 3)).
			Render(lipgloss.JoinVertical(lipgloss.Left, header, "", body.String()))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

// SetSize updates the board dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func columnIndex(s model.Status) int {
	for i, st := range model.Statuses {
		if st == s {
			return i
		}
	}
	return -1
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	return min(i, n-1)
}
