// Package mockapi is an in-process stand-in for the VitalMetrics data
// source. It serves canned demo data over the same routes and envelopes as
// the real API, either on a TCP listener or through InterceptTransport.
package mockapi

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"nathanbeddoewebdev/vitalmetrics/internal/api"
	"nathanbeddoewebdev/vitalmetrics/internal/vitals"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt cost used to hash the demo password at
// startup. Tests lower it.
var PasswordCost = bcrypt.DefaultCost

// Options configures the mock handler.
type Options struct {
	// Latency is the delay of the slowest route, /dashboard. The other
	// routes wait a fixed share of it (see routeShare). Zero disables the
	// delay.
	Latency time.Duration

	// Strict accepts only tokens issued by this handler and revokes them
	// on logout. When false, data routes accept any bearer token and
	// /auth/me accepts any token with the issued prefix.
	Strict bool

	Logger *zap.Logger

	// Now stamps issued tokens. Defaults to time.Now.
	Now func() time.Time
}

type server struct {
	opts         Options
	passwordHash []byte

	mu     sync.Mutex
	issued map[string]struct{}
}

// NewHandler builds the gin engine serving the mock API under /api.
func NewHandler(opts Options) (*gin.Engine, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), PasswordCost)
	if err != nil {
		return nil, fmt.Errorf("mockapi: failed to hash demo password: %w", err)
	}
	s := &server{
		opts:         opts,
		passwordHash: hash,
		issued:       make(map[string]struct{}),
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(opts.Logger))

	g := r.Group("/api")
	g.POST("/auth/login", s.latency(routeLogin), s.login)
	g.POST("/auth/logout", s.latency(routeLogout), s.logout)
	g.GET("/auth/me", s.latency(routeMe), s.requireToken(TokenPrefix), s.me)
	g.GET("/dashboard", s.latency(routeDashboard), s.requireToken(""), s.dashboard)
	g.GET("/metrics", s.latency(routeMetrics), s.requireToken(""), s.metrics)

	return r, nil
}

const (
	routeLogin     = "login"
	routeLogout    = "logout"
	routeMe        = "me"
	routeDashboard = "dashboard"
	routeMetrics   = "metrics"
)

// routeShare is each route's delay in eighths of Options.Latency. With
// Latency at 800ms this gives login 500ms, logout 200ms, me 300ms,
// dashboard 800ms and metrics 600ms.
var routeShare = map[string]int64{
	routeLogin:     5,
	routeLogout:    2,
	routeMe:        3,
	routeDashboard: 8,
	routeMetrics:   6,
}

// routeDelay scales base to route.
func routeDelay(base time.Duration, route string) time.Duration {
	if base <= 0 {
		return 0
	}
	share, ok := routeShare[route]
	if !ok {
		return base
	}
	return base * time.Duration(share) / 8
}

func (s *server) latency(route string) gin.HandlerFunc {
	d := routeDelay(s.opts.Latency, route)
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		wait(c, d)
	}
}

func wait(c *gin.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		c.Next()
	case <-c.Request.Context().Done():
		c.Abort()
	}
}

func (s *server) login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorBody{Message: "Invalid request body"})
		return
	}

	if req.Email != DemoEmail || bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, api.ErrorBody{
			Message: "Invalid email or password",
			Code:    api.CodeInvalidCredentials,
		})
		return
	}

	token := fmt.Sprintf("%s%d", TokenPrefix, s.opts.Now().UnixMilli())
	s.mu.Lock()
	s.issued[token] = struct{}{}
	s.mu.Unlock()

	c.JSON(http.StatusOK, api.LoginResponse{Success: true, User: DemoUser, Token: token})
}

func (s *server) logout(c *gin.Context) {
	if s.opts.Strict {
		if token, ok := bearer(c); ok {
			s.mu.Lock()
			delete(s.issued, token)
			s.mu.Unlock()
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *server) me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "user": DemoUser})
}

func (s *server) dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": DemoDashboard()})
}

func (s *server) metrics(c *gin.Context) {
	page := c.Query("page")
	all := DemoDashboard().PageMetrics
	out := make([]vitals.PageMetric, 0, len(all))
	for _, m := range all {
		if page == "" || strings.Contains(m.Page, page) {
			out = append(out, m)
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": out})
}

// requireToken rejects requests without an acceptable bearer token. In
// lenient mode any token starting with prefix passes.
func (s *server) requireToken(prefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearer(c)
		if ok {
			if s.opts.Strict {
				s.mu.Lock()
				_, ok = s.issued[token]
				s.mu.Unlock()
			} else {
				ok = strings.HasPrefix(token, prefix)
			}
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorBody{
				Message: "Unauthorized",
				Code:    api.CodeUnauthorized,
			})
			return
		}
		c.Next()
	}
}

func bearer(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(h, "Bearer "), true
}
