// Package components provides reusable render-only helpers (not tea.Model)
// that the TUI models compose into views.
package components

import (
	"strings"

	"nathanbeddoewebdev/vitalmetrics/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Header renders the application header bar.
//
//	┌──────────────────────────────────────────────────┐
//	│  vitalmetrics > dashboard      demo@vitalmetrics │
//	└──────────────────────────────────────────────────┘
func Header(width int, breadcrumb string, user string) string {
	if width < 10 {
		return ""
	}

	left := styles.Title.Foreground(styles.Blue).Render("vitalmetrics")
	if breadcrumb != "" {
		left += styles.MutedText.Render(" > ") + styles.Title.Render(breadcrumb)
	}

	right := ""
	if user != "" {
		right = styles.Subtitle.Render(user)
	}

	innerWidth := width - 4
	gap := max(innerWidth-lipgloss.Width(left)-lipgloss.Width(right), 1)

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderBottom(true).
		BorderForeground(styles.DimGray).
		Render(left + strings.Repeat(" ", gap) + right)
}
