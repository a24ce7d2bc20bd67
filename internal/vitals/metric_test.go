package vitals

import (
	"errors"
	"math"
	"testing"

	"nathanbeddoewebdev/vitalmetrics/internal/domain"
)

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		metric Metric
		value  float64
		want   Status
	}{
		{LCP, 0, StatusGood},
		{LCP, 1.2, StatusGood},
		{LCP, 2.5, StatusGood},
		{LCP, 2.5000001, StatusNeedsImprovement},
		{LCP, 3.8, StatusNeedsImprovement},
		{LCP, 4.0, StatusNeedsImprovement},
		{LCP, 4.0000001, StatusPoor},
		{LCP, 12, StatusPoor},

		{INP, 0, StatusGood},
		{INP, 200, StatusGood},
		{INP, 200.5, StatusNeedsImprovement},
		{INP, 350, StatusNeedsImprovement},
		{INP, 500, StatusNeedsImprovement},
		{INP, 501, StatusPoor},

		{CLS, 0, StatusGood},
		{CLS, 0.1, StatusGood},
		{CLS, 0.11, StatusNeedsImprovement},
		{CLS, 0.25, StatusNeedsImprovement},
		{CLS, 0.26, StatusPoor},
		{CLS, 0.42, StatusPoor},
	}

	for _, tt := range tests {
		t.Run(string(tt.metric)+"/"+FormatValue(tt.metric, tt.value), func(t *testing.T) {
			got, err := Classify(tt.metric, tt.value)
			if err != nil {
				t.Fatalf("Classify(%s, %v) unexpected error: %v", tt.metric, tt.value, err)
			}
			if got != tt.want {
				t.Errorf("Classify(%s, %v) = %q, want %q", tt.metric, tt.value, got, tt.want)
			}
		})
	}
}

func TestClassify_InvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		metric Metric
		value  float64
	}{
		{"negative", LCP, -0.1},
		{"nan", INP, math.NaN()},
		{"positive infinity", CLS, math.Inf(1)},
		{"negative infinity", CLS, math.Inf(-1)},
		{"unknown metric", Metric("FID"), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.metric, tt.value)
			if !errors.Is(err, domain.ErrInvalidMetricValue) {
				t.Fatalf("expected ErrInvalidMetricValue, got status=%q err=%v", got, err)
			}
			if got != "" {
				t.Errorf("expected empty status on error, got %q", got)
			}
		})
	}
}

func TestThresholds(t *testing.T) {
	for _, m := range Metrics {
		th, ok := Thresholds(m)
		if !ok {
			t.Fatalf("no thresholds for %s", m)
		}
		if th.Good >= th.NeedsImprovement {
			t.Errorf("%s: good bound %v must be below needs-improvement bound %v", m, th.Good, th.NeedsImprovement)
		}
	}
	if _, ok := Thresholds("TTFB"); ok {
		t.Error("expected no thresholds for unknown metric")
	}
}

func TestWorst(t *testing.T) {
	if got := Worst(); got != StatusGood {
		t.Errorf("Worst() = %q, want good", got)
	}
	if got := Worst(StatusGood, StatusNeedsImprovement, StatusGood); got != StatusNeedsImprovement {
		t.Errorf("got %q, want needs-improvement", got)
	}
	if got := Worst(StatusNeedsImprovement, StatusPoor, StatusGood); got != StatusPoor {
		t.Errorf("got %q, want poor", got)
	}
}

func TestStatusLabelAndDirectionIcon(t *testing.T) {
	labels := map[Status]string{
		StatusGood:             "Good",
		StatusNeedsImprovement: "Needs Improvement",
		StatusPoor:             "Poor",
	}
	for s, want := range labels {
		if got := s.Label(); got != want {
			t.Errorf("%q.Label() = %q, want %q", s, got, want)
		}
	}

	icons := map[Direction]string{DirectionUp: "↑", DirectionDown: "↓", DirectionStable: "−"}
	for d, want := range icons {
		if got := d.Icon(); got != want {
			t.Errorf("%q.Icon() = %q, want %q", d, got, want)
		}
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		metric Metric
		value  float64
		want   string
	}{
		{LCP, 1.2, "1.2s"},
		{LCP, 3.84, "3.8s"},
		{INP, 350, "350ms"},
		{INP, 180.5, "180.5ms"},
		{CLS, 0.42, "0.42"},
		{CLS, 0.05, "0.05"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.metric, tt.value); got != tt.want {
			t.Errorf("FormatValue(%s, %v) = %q, want %q", tt.metric, tt.value, got, tt.want)
		}
	}
}
