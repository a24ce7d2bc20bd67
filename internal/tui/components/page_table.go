package components

import (
	"nathanbeddoewebdev/vitalmetrics/internal/tui/styles"
	"nathanbeddoewebdev/vitalmetrics/internal/vitals"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
)

const (
	colPage = iota
	colLCP
	colINP
	colCLS
	colStatus
)

// metricCol maps a metric column to its metric.
var metricCol = map[int]vitals.Metric{
	colLCP: vitals.LCP,
	colINP: vitals.INP,
	colCLS: vitals.CLS,
}

// PageTable renders the page breakdown. Each metric cell is colored by its
// own rating and the status column by the row's overall rating. Derived
// row statuses are marked with an asterisk.
func PageTable(rows []vitals.PageRow, width int) string {
	pageWidth := max(width-4*14, 12)

	data := make([][]string, len(rows))
	for i, r := range rows {
		status := r.Status.Label()
		if r.StatusSource == vitals.StatusDerived {
			status += "*"
		}
		data[i] = []string{
			ansi.Truncate(r.Page, pageWidth, "…"),
			vitals.FormatLCP(r.LCP),
			vitals.FormatINP(r.INP),
			vitals.FormatCLS(r.CLS),
			status,
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.DimGray)).
		BorderColumn(false).
		Headers("PAGE", "LCP", "INP", "CLS", "STATUS").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.TableHeader
			}
			if row < 0 || row >= len(rows) {
				return styles.TableCell
			}
			r := rows[row]
			if m, ok := metricCol[col]; ok {
				return styles.TableCell.Foreground(styles.StatusColor(r.Cells.Of(m)))
			}
			if col == colStatus {
				return styles.TableCell.Foreground(styles.StatusColor(r.Status)).Bold(true)
			}
			return styles.TableCell
		})

	return t.Render()
}
