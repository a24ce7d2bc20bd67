package domain

import "errors"

// Sentinel errors for classifying failures across the client.
// Lower layers wrap these so commands and views can branch on the
// category without knowing which component produced it.
//
//	return fmt.Errorf("dashboard: %w", domain.ErrUnauthenticated)
var (
	// ErrInvalidMetricValue indicates a metric value outside the
	// classifier's domain (negative, NaN, infinite) or an unknown metric.
	// It is a programming or data error and is never recovered from.
	ErrInvalidMetricValue = errors.New("invalid metric value")

	// ErrInvalidPayload indicates a structurally invalid dashboard payload,
	// such as an empty or duplicate page or an unknown status string.
	ErrInvalidPayload = errors.New("invalid dashboard payload")

	// ErrUnauthenticated indicates there is no usable session: either no
	// token is stored or the data source rejected the stored one.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInvalidCredentials indicates the data source rejected a login
	// attempt.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrTransport indicates the request could not be completed: network
	// failures, timeouts, malformed responses, and unexpected statuses.
	ErrTransport = errors.New("transport error")

	// ErrAlreadyInProgress indicates a login attempt is already running on
	// the same gateway.
	ErrAlreadyInProgress = errors.New("login already in progress")
)
