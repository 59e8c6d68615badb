package app

import "github.com/charmbracelet/lipgloss"

// applyTheme forces the light or dark variant of the adaptive palette.
// Any other name keeps terminal background detection.
func applyTheme(name string) {
	switch name {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	}
}
