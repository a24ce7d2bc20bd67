package api

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/vitalmetrics/internal/domain"
)

// Kind classifies a failed API call.
type Kind int

const (
	// KindTransport covers network failures, undecodable bodies, and any
	// non-success status that is not an authentication rejection.
	KindTransport Kind = iota
	// KindUnauthenticated is a 401 from an endpoint that requires a token.
	KindUnauthenticated
	// KindInvalidCredentials is a 401 from the login endpoint.
	KindInvalidCredentials
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindInvalidCredentials:
		return "invalid_credentials"
	default:
		return "transport"
	}
}

// Error is the typed failure returned by every Client method. It unwraps
// to the domain sentinel matching its Kind, and to the underlying cause
// when there is one.
type Error struct {
	Kind    Kind
	Op      string
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.sentinel().Error())
	if e.Status != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.Status)
	}
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg != "" {
		b.WriteString(": ")
		b.WriteString(msg)
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.sentinel(), e.Err}
	}
	return []error{e.sentinel()}
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindUnauthenticated:
		return domain.ErrUnauthenticated
	case KindInvalidCredentials:
		return domain.ErrInvalidCredentials
	default:
		return domain.ErrTransport
	}
}

func transportError(op string, err error) *Error {
	return &Error{Kind: KindTransport, Op: op, Err: err}
}
