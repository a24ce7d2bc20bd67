package components

import (
	"nathanbeddoewebdev/vitalmetrics/internal/tui/styles"
	"nathanbeddoewebdev/vitalmetrics/internal/vitals"

	"github.com/charmbracelet/lipgloss"
)

// MetricCard renders one summary card:
//
//	╭──────────────────────╮
//	│ LCP                  │
//	│ 1.2s                 │
//	│ ● Good               │
//	│ ↓ -0.3s from last... │
//	╰──────────────────────╯
func MetricCard(card vitals.SummaryCard, width int) string {
	value := card.Value + card.Unit
	trend := card.Trend.Direction.Icon() + " " + card.Trend.Value

	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.Label.Render(card.Title),
		styles.Title.Render(value),
		styles.StatusBadge(card.Status),
		styles.MutedText.Render(trend),
	)
	return styles.MetricCard(card.Status).Width(width).Render(body)
}

// MetricCards lays the cards out side by side, sharing width evenly.
func MetricCards(cards []vitals.SummaryCard, width int) string {
	if len(cards) == 0 {
		return ""
	}
	// Two border columns per card.
	each := max(width/len(cards)-2, 16)

	rendered := make([]string, len(cards))
	for i, c := range cards {
		rendered[i] = MetricCard(c, each)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
