package kanban

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/clientdeck/internal/keys"
	"github.com/nhle/clientdeck/internal/model"
	"github.com/nhle/clientdeck/internal/query"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func card(id int64, s model.Status) Card {
	return Card{Client: model.Client{ID: id, Name: "Client", Template: "t", Status: s}, TemplateName: "T"}
}

func newBoard() Model {
	m := New(keys.DefaultKeyMap(), 120, 40)
	m.SetCards([]Card{
		card(1, model.StatusTodo),
		card(2, model.StatusTodo),
		card(3, model.StatusInProgress),
		card(4, model.StatusDone),
		card(5, model.Status("weird")),
	})
	return m
}

func TestSetCardsGroupsByStatus(t *testing.T) {
	m := newBoard()
	assert.Len(t, m.Column(model.StatusTodo), 2)
	assert.Len(t, m.Column(model.StatusInProgress), 1)
	assert.Len(t, m.Column(model.StatusDone), 1)

	sel, ok := m.SelectedCard()
	require.True(t, ok)
	assert.Equal(t, int64(1), sel.Client.ID)
}

func TestCursorStaysInRange(t *testing.T) {
	m := newBoard()
	m.Focus(2)
	sel, _ := m.SelectedCard()
	assert.Equal(t, int64(2), sel.Client.ID)

	// the todo column shrinks under the cursor
	m.SetCards([]Card{card(1, model.StatusTodo)})
	sel, ok := m.SelectedCard()
	require.True(t, ok)
	assert.Equal(t, int64(1), sel.Client.ID)

	m.SetCards(nil)
	_, ok = m.SelectedCard()
	assert.False(t, ok)
}

func TestNavigationWraps(t *testing.T) {
	m := newBoard()
	m, _ = m.Update(runes("k"))
	sel, _ := m.SelectedCard()
	assert.Equal(t, int64(2), sel.Client.ID)

	m, _ = m.Update(runes("l"))
	sel, _ = m.SelectedCard()
	assert.Equal(t, int64(3), sel.Client.ID)
}

func TestMoveRequest(t *testing.T) {
	m := newBoard()

	_, cmd := m.Update(runes("L"))
	require.NotNil(t, cmd)
	assert.Equal(t, MoveRequestMsg{ClientID: 1, Target: model.StatusInProgress}, cmd())

	// nothing left of the first column
	_, cmd = m.Update(runes("H"))
	assert.Nil(t, cmd)

	m.Focus(4)
	_, cmd = m.Update(runes("L"))
	assert.Nil(t, cmd)
	_, cmd = m.Update(runes("<"))
	require.NotNil(t, cmd)
	assert.Equal(t, MoveRequestMsg{ClientID: 4, Target: model.StatusInProgress}, cmd())
}

func TestCardRequests(t *testing.T) {
	m := newBoard()
	m.Focus(3)

	tests := []struct {
		key  tea.KeyMsg
		want tea.Msg
	}{
		{tea.KeyMsg{Type: tea.KeyEnter}, SelectedClientMsg{ClientID: 3}},
		{runes("e"), ChecklistRequestMsg{ClientID: 3}},
		{runes("c"), DuplicateRequestMsg{ClientID: 3}},
		{runes("d"), DeleteRequestMsg{ClientID: 3}},
		{runes("n"), NewClientRequestMsg{}},
	}
	for _, tt := range tests {
		_, cmd := m.Update(tt.key)
		require.NotNil(t, cmd, tt.key.String())
		assert.Equal(t, tt.want, cmd())
	}

	empty := New(keys.DefaultKeyMap(), 120, 40)
	_, cmd := empty.Update(runes("d"))
	assert.Nil(t, cmd)
}

func TestFilterCycle(t *testing.T) {
	m := newBoard()
	m.SetFilters([]Filter{{TemplateID: "a", Name: "A"}, {TemplateID: "b", Name: "B"}})
	assert.Equal(t, query.AllTemplates, m.Filter())

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.NotNil(t, cmd)
	assert.Equal(t, FilterChangedMsg{TemplateID: "a"}, cmd())
	assert.Equal(t, "A", m.FilterName())

	// rebuilding filters keeps the selection
	m.SetFilters([]Filter{{TemplateID: "c", Name: "C"}, {TemplateID: "a", Name: "A"}})
	assert.Equal(t, "a", m.Filter())

	// a removed filter falls back to all
	m.SetFilters([]Filter{{TemplateID: "c", Name: "C"}})
	assert.Equal(t, query.AllTemplates, m.Filter())

	m.SetFilter("c")
	assert.Equal(t, "c", m.Filter())
	m.SetFilter("unknown")
	assert.Equal(t, query.AllTemplates, m.Filter())
}

func TestViewShowsColumns(t *testing.T) {
	m := newBoard()
	out := m.View()
	assert.Contains(t, out, "To Do (2)")
	assert.Contains(t, out, "In Progress (1)")
	assert.Contains(t, out, "Done (1)")
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	assert.Empty(t, relativeTime(time.Time{}, now))
	assert.Equal(t, "just now", relativeTime(now.Add(-10*time.Second), now))
	assert.Equal(t, "5m ago", relativeTime(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", relativeTime(now.Add(-3*time.Hour), now))
	assert.Equal(t, "2d ago", relativeTime(now.Add(-49*time.Hour), now))
	assert.Equal(t, "3w ago", relativeTime(now.Add(-21*24*time.Hour), now))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefghij", 5))
}
