// Package vitals classifies Core Web Vitals samples and assembles them into
// display-ready dashboard snapshots.
package vitals

import (
	"fmt"
	"math"

	"nathanbeddoewebdev/vitalmetrics/internal/domain"
)

// Metric identifies one Core Web Vital.
type Metric string

const (
	// LCP is Largest Contentful Paint, measured in seconds.
	LCP Metric = "LCP"
	// INP is Interaction to Next Paint, measured in milliseconds.
	INP Metric = "INP"
	// CLS is Cumulative Layout Shift, unitless.
	CLS Metric = "CLS"
)

// Metrics lists the vitals in display order.
var Metrics = []Metric{LCP, INP, CLS}

// Status is the three-valued rating of a metric value. The string values
// match the wire format used by the data source.
type Status string

const (
	StatusGood             Status = "good"
	StatusNeedsImprovement Status = "needs-improvement"
	StatusPoor             Status = "poor"
)

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusGood, StatusNeedsImprovement, StatusPoor:
		return true
	}
	return false
}

// Label returns the human-readable status label.
func (s Status) Label() string {
	switch s {
	case StatusGood:
		return "Good"
	case StatusNeedsImprovement:
		return "Needs Improvement"
	case StatusPoor:
		return "Poor"
	default:
		return string(s)
	}
}

// rank orders statuses from best to worst.
func (s Status) rank() int {
	switch s {
	case StatusGood:
		return 0
	case StatusNeedsImprovement:
		return 1
	default:
		return 2
	}
}

// Threshold holds the upper bounds of the good and needs-improvement
// buckets. Both bounds are inclusive.
type Threshold struct {
	Good             float64
	NeedsImprovement float64
}

var thresholds = map[Metric]Threshold{
	LCP: {Good: 2.5, NeedsImprovement: 4.0},
	INP: {Good: 200, NeedsImprovement: 500},
	CLS: {Good: 0.1, NeedsImprovement: 0.25},
}

// Thresholds returns the classification bounds for m.
func Thresholds(m Metric) (Threshold, bool) {
	t, ok := thresholds[m]
	return t, ok
}

// Classify rates value for the given metric. A value equal to a bound
// belongs to the better bucket. Negative, NaN and infinite values are
// rejected rather than clamped.
func Classify(m Metric, value float64) (Status, error) {
	t, ok := thresholds[m]
	if !ok {
		return "", fmt.Errorf("%w: unknown metric %q", domain.ErrInvalidMetricValue, m)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return "", fmt.Errorf("%w: %s = %v", domain.ErrInvalidMetricValue, m, value)
	}

	switch {
	case value <= t.Good:
		return StatusGood, nil
	case value <= t.NeedsImprovement:
		return StatusNeedsImprovement, nil
	default:
		return StatusPoor, nil
	}
}

// Worst returns the worst of the given statuses, or StatusGood if none
// are given.
func Worst(statuses ...Status) Status {
	worst := StatusGood
	for _, s := range statuses {
		if s.rank() > worst.rank() {
			worst = s
		}
	}
	return worst
}
