// Package stats draws the per-template stage breakdown as a stacked bar
// chart.
package stats

import (
	"fmt"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/clientdeck/internal/keys"
	"github.com/nhle/clientdeck/internal/model"
	"github.com/nhle/clientdeck/internal/query"
	"github.com/nhle/clientdeck/internal/theme"
)

// CloseMsg signals the parent to close the stats view.
type CloseMsg struct{}

// Row is the stage breakdown of one template.
type Row struct {
	Name   string
	Counts query.Counts
}

// Model is the stats view.
type Model struct {
	keys   *keys.KeyMap
	rows   []Row
	total  query.Counts
	chart  barchart.Model
	width  int
	height int
}

// New creates a stats view model.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{
		keys:   k,
		chart:  barchart.New(max(width-8, 20), 12),
		width:  width,
		height: height,
	}
}

// SetRows replaces the breakdown and redraws the chart.
func (m *Model) SetRows(rows []Row, total query.Counts) {
	m.rows = rows
	m.total = total
	m.buildChart()
}

// Rows returns the current breakdown.
func (m Model) Rows() []Row {
	return m.rows
}

func (m *Model) buildChart() {
	chartHeight := 12
	if m.height > 30 {
		chartHeight = 16
	}
	m.chart = barchart.New(max(m.width-8, 20), chartHeight)

	bars := make([]barchart.BarData, 0, len(m.rows))
	for _, r := range m.rows {
		var values []barchart.BarValue
		for _, s := range model.Statuses {
			values = append(values, barchart.BarValue{
				Name:  s.Label(),
				Value: float64(count(r.Counts, s)),
				Style: lipgloss.NewStyle().Foreground(theme.StatusColor(s)),
			})
		}
		bars = append(bars, barchart.BarData{Label: r.Name, Values: values})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func count(c query.Counts, s model.Status) int {
	switch s {
	case model.StatusTodo:
		return c.Todo
	case model.StatusInProgress:
		return c.InProgress
	case model.StatusDone:
		return c.Done
	default:
		return 0
	}
}

// Update handles messages for the stats view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Back) {
		return m, func() tea.Msg { return CloseMsg{} }
	}
	return m, nil
}

// View renders the chart with a legend and totals.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)

	legend := ""
	for _, s := range model.Statuses {
		legend += theme.StatusStyle(s).Render("■ "+s.Label()) + " "
	}

	totals := theme.HelpStyle.Render(fmt.Sprintf(
		"%d clients · %d to do · %d in progress · %d done",
		m.total.Total(), m.total.Todo, m.total.InProgress, m.total.Done,
	))

	body := m.chart.View()
	if len(m.rows) == 0 {
		body = theme.HelpStyle.Render("No templates yet.")
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Pipeline"),
			legend,
			"",
			body,
			"",
			totals,
		),
	)
}

// SetSize updates the view dimensions and redraws.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.buildChart()
}
