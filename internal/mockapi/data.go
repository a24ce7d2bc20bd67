package mockapi

import (
	"nathanbeddoewebdev/vitalmetrics/internal/api"
	"nathanbeddoewebdev/vitalmetrics/internal/vitals"
)

// Demo credentials accepted by the login route.
const (
	DemoEmail    = "demo@vitalmetrics.com"
	DemoPassword = "password"
)

// TokenPrefix starts every token the login route issues.
const TokenPrefix = "mock-jwt-token-"

// DemoUser is the profile returned for the demo account.
var DemoUser = api.User{
	ID:    "1",
	Email: DemoEmail,
	Name:  "Demo User",
}

// DemoDashboard returns a fresh copy of the canned dashboard payload.
func DemoDashboard() api.DashboardData {
	return api.DashboardData{
		Metrics: []vitals.SummaryCard{
			{
				Title:  "LCP",
				Value:  "1.2",
				Unit:   "s",
				Status: vitals.StatusGood,
				Trend:  vitals.Trend{Direction: vitals.DirectionDown, Value: "-0.3s from last week"},
			},
			{
				Title:  "INP",
				Value:  "350",
				Unit:   "ms",
				Status: vitals.StatusNeedsImprovement,
				Trend:  vitals.Trend{Direction: vitals.DirectionStable, Value: "Stable from last week"},
			},
			{
				Title:  "CLS",
				Value:  "0.42",
				Status: vitals.StatusPoor,
				Trend:  vitals.Trend{Direction: vitals.DirectionUp, Value: "+0.15 from last week"},
			},
		},
		PageMetrics: []vitals.PageMetric{
			{Page: "/home", LCP: 1.2, INP: 350, CLS: 0.42, Status: vitals.StatusPoor},
			{Page: "/products", LCP: 2.1, INP: 180, CLS: 0.08, Status: vitals.StatusGood},
			{Page: "/checkout", LCP: 3.8, INP: 450, CLS: 0.25, Status: vitals.StatusNeedsImprovement},
			{Page: "/about", LCP: 1.5, INP: 120, CLS: 0.05, Status: vitals.StatusGood},
			{Page: "/contact", LCP: 2.8, INP: 280, CLS: 0.18, Status: vitals.StatusNeedsImprovement},
		},
	}
}
