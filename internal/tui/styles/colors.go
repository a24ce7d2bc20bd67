// Package styles provides the centralized color palette and style definitions
// for the vitalmetrics TUI. All visual constants live here so the rest of the
// TUI code can reference a single source of truth.
package styles

import "github.com/charmbracelet/lipgloss"

// --- Color palette ---

var (
	// Core text
	White   = lipgloss.Color("#E2E2E2")
	Gray    = lipgloss.Color("#888888")
	Muted   = lipgloss.Color("#555555")
	DimGray = lipgloss.Color("#444444")

	// Accent
	Blue     = lipgloss.Color("#5FAFFF")
	DarkBlue = lipgloss.Color("#1A2F40")

	// Web Vitals ratings, matching the colors PageSpeed reports use.
	Green  = lipgloss.Color("#0CCE6B")
	Yellow = lipgloss.Color("#FFA400")
	Red    = lipgloss.Color("#FF4E42")
)
