package api

import "nathanbeddoewebdev/vitalmetrics/internal/vitals"

// User is the authenticated account profile.
type User struct {
	ID    string `json:"id" yaml:"id"`
	Email string `json:"email" yaml:"email"`
	Name  string `json:"name" yaml:"name"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the success body of POST /auth/login.
type LoginResponse struct {
	Success bool   `json:"success"`
	User    User   `json:"user"`
	Token   string `json:"token"`
}

// DashboardData is the payload of GET /dashboard.
type DashboardData struct {
	Metrics     []vitals.SummaryCard `json:"metrics"`
	PageMetrics []vitals.PageMetric  `json:"pageMetrics"`
}

// ErrorBody is the failure envelope returned by every endpoint.
type ErrorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Error codes used by the data source.
const (
	CodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	CodeUnauthorized       = "AUTH_UNAUTHORIZED"
)

// --- response envelopes ---

type userEnvelope struct {
	Success bool `json:"success"`
	User    User `json:"user"`
}

type dashboardEnvelope struct {
	Success bool          `json:"success"`
	Data    DashboardData `json:"data"`
}

type metricsEnvelope struct {
	Success bool                `json:"success"`
	Data    []vitals.PageMetric `json:"data"`
}

type ackEnvelope struct {
	Success bool `json:"success"`
}
