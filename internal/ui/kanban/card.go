package kanban

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/clientdeck/internal/model"
	"github.com/nhle/clientdeck/internal/theme"
)

// cardHeight is the number of lines one rendered card occupies.
const cardHeight = 3

// Card is one client as shown on the board.
type Card struct {
	Client       model.Client
	TemplateName string
	Progress     int
}

// render draws the card at the given inner width.
func (c Card) render(bar progress.Model, width int, selected bool, now time.Time) string {
	name := truncate(c.Client.Name, width-2)

	meta := c.TemplateName
	if meta == "" {
		meta = c.Client.Template + " (missing)"
	}
	if age := relativeTime(c.Client.CreatedAt.Time, now); age != "" {
		meta += " · " + age
	}
	meta = lipgloss.NewStyle().Foreground(theme.ColorGray).Render(truncate(meta, width-2))

	bar.Width = max(width-8, 4)
	pct := fmt.Sprintf(" %3d%%", c.Progress)
	line := bar.ViewAs(float64(c.Progress)/100) + pct

	block := lipgloss.JoinVertical(lipgloss.Left, name, meta, line)
	if selected {
		return theme.SelectedItemStyle.Render(block)
	}
	return theme.ListItemStyle.Render(block)
}

// truncate shortens s to at most n cells, marking the cut with an
// ellipsis.
func truncate(s string, n int) string {
	if n <= 1 || lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r)) > n-1 {
		r = r[:len(r)-1]
	}
	return strings.TrimSpace(string(r)) + "…"
}

// relativeTime returns a human-friendly age of t measured at now.
func relativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return fmt.Sprintf("%dw ago", int(d.Hours()/24/7))
	}
}
