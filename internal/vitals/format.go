package vitals

import (
	"fmt"
	"strconv"
)

// FormatLCP renders an LCP value in seconds with one decimal.
func FormatLCP(v float64) string {
	return fmt.Sprintf("%.1fs", v)
}

// FormatINP renders an INP value in milliseconds without trailing zeros.
func FormatINP(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "ms"
}

// FormatCLS renders a CLS value with two decimals.
func FormatCLS(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// FormatValue renders v using the unit conventions of m.
func FormatValue(m Metric, v float64) string {
	switch m {
	case LCP:
		return FormatLCP(v)
	case INP:
		return FormatINP(v)
	default:
		return FormatCLS(v)
	}
}
