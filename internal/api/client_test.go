package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"nathanbeddoewebdev/vitalmetrics/internal/domain"
	"nathanbeddoewebdev/vitalmetrics/internal/vitals"

	"github.com/google/go-cmp/cmp"
)

// --- Test helpers ---

// staticTokens is a TokenReader returning a fixed token, or an error when
// the token is empty.
type staticTokens struct {
	token string
	reads int
}

func (s *staticTokens) Get() (string, error) {
	s.reads++
	if s.token == "" {
		return "", errors.New("token not found")
	}
	return s.token, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func unauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, ErrorBody{Success: false, Message: "Unauthorized", Code: CodeUnauthorized})
}

// newRouter creates a httptest.Server keyed by "METHOD /path".
func newRouter(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.Method+" "+r.URL.Path]
		if !ok {
			writeJSON(w, http.StatusNotFound, ErrorBody{Message: "no handler for " + r.Method + " " + r.URL.Path})
			return
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server, tokens *staticTokens) *Client {
	t.Helper()
	return New(tokens, WithBaseURL(srv.URL+"/api"))
}

// --- Login ---

func TestLogin_Success(t *testing.T) {
	srv := newRouter(t, map[string]http.HandlerFunc{
		"POST /api/auth/login": func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "" {
				t.Errorf("login must not send a bearer token, got %q", got)
			}
			var req LoginRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("failed to decode body: %v", err)
				return
			}
			if req.Email != "demo@vitalmetrics.com" || req.Password != "password" {
				t.Errorf("unexpected credentials: %+v", req)
			}
			writeJSON(w, http.StatusOK, LoginResponse{
				Success: true,
				User:    User{ID: "1", Email: "demo@vitalmetrics.com", Name: "Demo User"},
				Token:   "mock-jwt-token-1",
			})
		},
	})

	c := newTestClient(t, srv, &staticTokens{token: "old"})
	resp, err := c.Login(context.Background(), "demo@vitalmetrics.com", "password")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	want := &LoginResponse{
		Success: true,
		User:    User{ID: "1", Email: "demo@vitalmetrics.com", Name: "Demo User"},
		Token:   "mock-jwt-token-1",
	}
	if diff := cmp.Diff(want, resp); diff != "" {
		t.Errorf("Login mismatch (-want +got):\n%s", diff)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	srv := newRouter(t, map[string]http.HandlerFunc{
		"POST /api/auth/login": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, ErrorBody{
				Success: false,
				Message: "Invalid email or password",
				Code:    CodeInvalidCredentials,
			})
		},
	})

	c := newTestClient(t, srv, &staticTokens{})
	_, err := c.Login(context.Background(), "demo@vitalmetrics.com", "nope")

	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if errors.Is(err, domain.ErrUnauthenticated) {
		t.Error("login rejection must not read as unauthenticated")
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if apiErr.Code != CodeInvalidCredentials || apiErr.Status != http.StatusUnauthorized {
		t.Errorf("unexpected error fields: %+v", apiErr)
	}
	if apiErr.Message != "Invalid email or password" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestLogin_MissingToken(t *testing.T) {
	srv := newRouter(t, map[string]http.HandlerFunc{
		"POST /api/auth/login": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
		},
	})

	c := newTestClient(t, srv, &staticTokens{})
	if _, err := c.Login(context.Background(), "a", "b"); !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

// --- Authenticated endpoints ---

func TestDashboard_AttachesBearerToken(t *testing.T) {
	srv := newRouter(t, map[string]http.HandlerFunc{
		"GET /api/dashboard": func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
				t.Errorf("Authorization = %q, want %q", got, "Bearer tok-123")
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"data": map[string]any{
					"metrics": []any{
						map[string]any{"title": "LCP", "value": "1.2", "unit": "s", "status": "good",
							"trend": map[string]any{"direction": "down", "value": "-0.3s from last week"}},
					},
					"pageMetrics": []any{
						map[string]any{"page": "/home", "lcp": 1.2, "inp": 350, "cls": 0.42, "status": "poor"},
					},
				},
			})
		},
	})

	tokens := &staticTokens{token: "tok-123"}
	c := newTestClient(t, srv, tokens)
	data, err := c.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}

	want := &DashboardData{
		Metrics: []vitals.SummaryCard{{
			Title: "LCP", Value: "1.2", Unit: "s", Status: vitals.StatusGood,
			Trend: vitals.Trend{Direction: vitals.DirectionDown, Value: "-0.3s from last week"},
		}},
		PageMetrics: []vitals.PageMetric{{Page: "/home", LCP: 1.2, INP: 350, CLS: 0.42, Status: vitals.StatusPoor}},
	}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Errorf("Dashboard mismatch (-want +got):\n%s", diff)
	}
	if tokens.reads == 0 {
		t.Error("expected the token to be read at request time")
	}
}

func TestDashboard_Unauthorized(t *testing.T) {
	srv := newRouter(t, map[string]http.HandlerFunc{
		"GET /api/dashboard": func(w http.ResponseWriter, r *http.Request) { unauthorized(w) },
	})

	c := newTestClient(t, srv, &staticTokens{token: "stale"})
	_, err := c.Dashboard(context.Background())
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestDashboard_NoTokenDoesNotHitServer(t *testing.T) {
	called := false
	srv := newRouter(t, map[string]http.HandlerFunc{
		"GET /api/dashboard": func(w http.ResponseWriter, r *http.Request) { called = true },
	})

	c := newTestClient(t, srv, &staticTokens{})
	_, err := c.Dashboard(context.Background())
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if called {
		t.Error("request must not reach the server without a token")
	}
}

func TestDashboard_ServerError(t *testing.T) {
	srv := newRouter(t, map[string]http.HandlerFunc{
		"GET /api/dashboard": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, ErrorBody{Message: "boom"})
		},
	})

	c := newTestClient(t, srv, &staticTokens{token: "t"})
	_, err := c.Dashboard(context.Background())
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusInternalServerError {
		t.Fatalf("expected *Error with status 500, got %v", err)
	}
}

func TestDashboard_MalformedBody(t *testing.T) {
	srv := newRouter(t, map[string]http.HandlerFunc{
		"GET /api/dashboard": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte("{not json"))
		},
	})

	c := newTestClient(t, srv, &staticTokens{token: "t"})
	if _, err := c.Dashboard(context.Background()); !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestDashboard_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	c := New(&staticTokens{token: "t"}, WithBaseURL(baseURL))
	if _, err := c.Dashboard(context.Background()); !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestPageMetrics_QueryEscaping(t *testing.T) {
	srv := newRouter(t, map[string]http.HandlerFunc{
		"GET /api/metrics": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("page"); got != "/check out" {
				t.Errorf("page query = %q, want %q", got, "/check out")
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"data": []any{
					map[string]any{"page": "/check out", "lcp": 3.8, "inp": 450, "cls": 0.25, "status": "needs-improvement"},
				},
			})
		},
	})

	c := newTestClient(t, srv, &staticTokens{token: "t"})
	got, err := c.PageMetrics(context.Background(), "/check out")
	if err != nil {
		t.Fatalf("PageMetrics failed: %v", err)
	}
	want := []vitals.PageMetric{{Page: "/check out", LCP: 3.8, INP: 450, CLS: 0.25, Status: vitals.StatusNeedsImprovement}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PageMetrics mismatch (-want +got):\n%s", diff)
	}
}

func TestCurrentUser(t *testing.T) {
	srv := newRouter(t, map[string]http.HandlerFunc{
		"GET /api/auth/me": func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer good" {
				unauthorized(w)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"user":    map[string]any{"id": "1", "email": "demo@vitalmetrics.com", "name": "Demo User"},
			})
		},
	})

	user, err := newTestClient(t, srv, &staticTokens{token: "good"}).CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("CurrentUser failed: %v", err)
	}
	if diff := cmp.Diff(&User{ID: "1", Email: "demo@vitalmetrics.com", Name: "Demo User"}, user); diff != "" {
		t.Errorf("CurrentUser mismatch (-want +got):\n%s", diff)
	}

	_, err = newTestClient(t, srv, &staticTokens{token: "bad"}).CurrentUser(context.Background())
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestLogout_AttachesTokenWhenPresent(t *testing.T) {
	var gotAuth []string
	srv := newRouter(t, map[string]http.HandlerFunc{
		"POST /api/auth/logout": func(w http.ResponseWriter, r *http.Request) {
			gotAuth = append(gotAuth, r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
		},
	})

	if err := newTestClient(t, srv, &staticTokens{token: "abc"}).Logout(context.Background()); err != nil {
		t.Fatalf("Logout with token failed: %v", err)
	}
	if err := newTestClient(t, srv, &staticTokens{}).Logout(context.Background()); err != nil {
		t.Fatalf("Logout without token failed: %v", err)
	}

	if diff := cmp.Diff([]string{"Bearer abc", ""}, gotAuth); diff != "" {
		t.Errorf("Authorization headers mismatch (-want +got):\n%s", diff)
	}
}

func TestError_Message(t *testing.T) {
	err := &Error{Kind: KindUnauthenticated, Op: "dashboard", Status: 401, Message: "Unauthorized"}
	if got, want := err.Error(), "dashboard: unauthenticated (HTTP 401): Unauthorized"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	bare := &Error{Kind: KindTransport, Op: "dashboard"}
	if got, want := bare.Error(), "dashboard: transport error"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
