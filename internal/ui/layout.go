package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/clientdeck/internal/model"
	"github.com/nhle/clientdeck/internal/query"
	"github.com/nhle/clientdeck/internal/theme"
)

const (
	headerRows = 1
	statusRows = 1
)

// Frame sizes the screen: a board header, the active view and a status
// line.
type Frame struct {
	Width  int
	Height int
}

// NewFrame creates a Frame for a terminal of the given size.
func NewFrame(width, height int) Frame {
	return Frame{Width: width, Height: height}
}

// Body returns the size left for the active view.
func (f Frame) Body() (width, height int) {
	return f.Width, max(f.Height-headerRows-statusRows, 0)
}

// Header renders the title with the active template filter on the left
// and one count per stage, in board order, on the right.
func (f Frame) Header(filter string, counts query.Counts) string {
	title := theme.HeaderStyle.Render("ClientDeck")
	scope := theme.HeaderStyle.Foreground(theme.ColorGray).Render(filter)

	chips := make([]string, 0, len(model.Statuses))
	for _, s := range model.Statuses {
		chip := theme.StatusStyle(s).
			Background(theme.HeaderStyle.GetBackground()).
			Render(fmt.Sprintf("%s %d", s.Label(), counts.Of(s)))
		chips = append(chips, chip)
	}

	left := lipgloss.JoinHorizontal(lipgloss.Top, title, scope)
	right := lipgloss.JoinHorizontal(lipgloss.Top, chips...)
	return spread(left, right, f.Width, theme.HeaderStyle)
}

// StatusLine shows the key hints, or the flash notice while one is
// active. Failures render in the error style.
func (f Frame) StatusLine(hints, flash string, failed bool) string {
	text := theme.StatusBarStyle.Render(hints)
	switch {
	case flash != "" && failed:
		text = theme.ErrorStyle.Inherit(theme.StatusBarStyle).Render(flash)
	case flash != "":
		text = theme.FlashStyle.Inherit(theme.StatusBarStyle).Render(flash)
	}
	return spread(text, "", f.Width, theme.StatusBarStyle)
}

// Compose stacks header, body and status line.
func (f Frame) Compose(header, body, status string) string {
	return lipgloss.JoinVertical(lipgloss.Left, header, body, status)
}

// spread places left and right at the edges of a width-wide bar, padding
// the gap with the bar background.
func spread(left, right string, width int, bar lipgloss.Style) string {
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	filler := lipgloss.NewStyle().
		Width(gap).
		Background(bar.GetBackground()).
		Render("")
	return lipgloss.JoinHorizontal(lipgloss.Top, left, filler, right)
}
