package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"nathanbeddoewebdev/vitalmetrics/internal/api"
	"nathanbeddoewebdev/vitalmetrics/internal/domain"

	"go.uber.org/zap"
)

// State is the gateway's authentication state.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticating
	StateAuthenticated
	StateRejected
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateRejected:
		return "rejected"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Backend is the slice of the data source the gateway needs.
// *api.Client satisfies it.
type Backend interface {
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*api.User, error)
}

var _ Backend = (*api.Client)(nil)

// Gateway is the single place that decides whether the caller is
// authenticated. It owns the session lifecycle: tokens are written on a
// successful login and removed on logout or when the data source rejects
// them.
//
// Only one login or logout may be in flight per gateway; a concurrent
// Login or Logout fails with domain.ErrAlreadyInProgress instead of
// queueing.
type Gateway struct {
	store   Store
	backend Backend
	log     *zap.Logger

	mu         sync.Mutex
	state      State
	loggingOut bool
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithLogger sets the logger used for swallowed failures.
func WithLogger(log *zap.Logger) GatewayOption {
	return func(g *Gateway) {
		if log != nil {
			g.log = log
		}
	}
}

// NewGateway returns a gateway that starts Authenticated when store already
// holds a token and Anonymous otherwise.
func NewGateway(store Store, backend Backend, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		store:   store,
		backend: backend,
		log:     zap.NewNop(),
		state:   StateAnonymous,
	}
	for _, opt := range opts {
		opt(g)
	}
	if tok, err := store.Get(); err == nil && tok != "" {
		g.state = StateAuthenticated
	}
	return g
}

// State returns the current state.
func (g *Gateway) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Authenticated reports whether the gateway is Authenticated and a token
// is still stored. The store is read on every call.
func (g *Gateway) Authenticated() bool {
	g.mu.Lock()
	state := g.state
	g.mu.Unlock()
	if state != StateAuthenticated {
		return false
	}
	tok, err := g.store.Get()
	return err == nil && tok != ""
}

// Login exchanges credentials for a session token and stores it.
//
// Wrong credentials move the gateway to Rejected and leave the store
// untouched. Transport failures restore the previous state.
func (g *Gateway) Login(ctx context.Context, email, password string) (*api.User, error) {
	g.mu.Lock()
	if g.state == StateAuthenticating || g.loggingOut {
		g.mu.Unlock()
		return nil, fmt.Errorf("login: %w", domain.ErrAlreadyInProgress)
	}
	prev := g.state
	g.state = StateAuthenticating
	g.mu.Unlock()

	resp, err := g.backend.Login(ctx, email, password)

	g.mu.Lock()
	defer g.mu.Unlock()

	switch {
	case err == nil:
		if err := g.store.Set(resp.Token); err != nil {
			g.state = prev
			return nil, fmt.Errorf("login: failed to store session: %w", err)
		}
		g.state = StateAuthenticated
		user := resp.User
		g.log.Debug("login succeeded", zap.String("user_id", user.ID))
		return &user, nil

	case errors.Is(err, domain.ErrInvalidCredentials):
		g.state = StateRejected
		return nil, err

	default:
		g.state = prev
		if !errors.Is(err, domain.ErrTransport) {
			err = fmt.Errorf("login: %w: %w", domain.ErrTransport, err)
		}
		return nil, err
	}
}

// Logout notifies the data source and clears the local session. The
// session is cleared even if the remote call fails; that failure is
// logged and not returned.
//
// Logout is refused with domain.ErrAlreadyInProgress while a login is in
// flight; that login owns the next transition and would otherwise store
// its token after the session was cleared.
func (g *Gateway) Logout(ctx context.Context) error {
	g.mu.Lock()
	if g.state == StateAuthenticating || g.loggingOut {
		g.mu.Unlock()
		return fmt.Errorf("logout: %w", domain.ErrAlreadyInProgress)
	}
	g.loggingOut = true
	g.mu.Unlock()

	if err := g.backend.Logout(ctx); err != nil {
		g.log.Warn("remote logout failed; clearing local session anyway", zap.Error(err))
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.loggingOut = false
	g.state = StateAnonymous
	if err := g.store.Clear(); err != nil {
		return fmt.Errorf("logout: failed to clear session: %w", err)
	}
	return nil
}

// CurrentUser returns the profile for the stored token. A missing token or
// a rejection by the data source yields domain.ErrUnauthenticated; in the
// latter case the rejected token is removed first, unless a newer one has
// been stored in the meantime.
func (g *Gateway) CurrentUser(ctx context.Context) (*api.User, error) {
	tok, err := g.store.Get()
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			g.setIdleState(StateAnonymous)
			return nil, fmt.Errorf("current user: %w", domain.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("current user: failed to read session: %w", err)
	}

	user, err := g.backend.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			g.expire(tok)
		}
		return nil, err
	}

	g.setIdleState(StateAuthenticated)
	return user, nil
}

// expire drops tok once the data source no longer accepts it. A token
// stored after tok was read is left alone, along with the state.
func (g *Gateway) expire(tok string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	cleared, err := ClearIfCurrent(g.store, tok)
	if err != nil {
		g.log.Warn("failed to clear stale session", zap.Error(err))
	} else if !cleared {
		g.log.Debug("rejected token already replaced; keeping session")
		return
	}
	if g.state != StateAuthenticating {
		g.state = StateAnonymous
	}
}

// setIdleState updates the state unless a login is in flight, which owns
// the next transition.
func (g *Gateway) setIdleState(s State) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != StateAuthenticating {
		g.state = s
	}
}
