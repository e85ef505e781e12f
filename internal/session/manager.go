// Package session keeps the authenticated account of one user: a short-lived
// profile cache, the persisted "was logged in" flag and the auth state machine
//
//	Unchecked -> Checking -> Authenticated | Unauthenticated
//
// Authenticated and Unauthenticated only go back to Checking through RefreshUser.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "editor-board/internal/errors"
	"editor-board/internal/models"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const CacheTTL = 60 * time.Second

var ErrUnauthorized = apperrors.Unauthorized("session not authenticated", nil)

// Identity is the backend account API as seen by one user.
type Identity interface {
	Me(ctx context.Context) (*models.Profile, error)
	Logout(ctx context.Context) error
}

// FlagStore persists whether this user completed a login before.
type FlagStore interface {
	Get(ctx context.Context) (bool, error)
	Set(ctx context.Context) error
	Clear(ctx context.Context) error
}

// Credentials is where the user's access token lives. It is dropped on logout
// and when the backend rejects it, never on transient failures.
type Credentials interface {
	ClearToken(ctx context.Context) error
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) { m.ttl = ttl }
}

func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

func WithLoginURL(url string) Option {
	return func(m *Manager) { m.loginURL = url }
}

func WithCredentials(c Credentials) Option {
	return func(m *Manager) { m.credentials = c }
}

type Manager struct {
	identity    Identity
	flags       FlagStore
	credentials Credentials
	now         func() time.Time
	ttl         time.Duration
	loginURL    string
	logger      *zap.Logger

	refresh singleflight.Group

	mu          sync.Mutex
	state       State
	user        *models.Profile
	fetchedAt   time.Time
	authChecked bool
}

func NewManager(identity Identity, flags FlagStore, opts ...Option) *Manager {
	m := &Manager{
		identity: identity,
		flags:    flags,
		now:      time.Now,
		ttl:      CacheTTL,
		logger:   zap.NewNop(),
		state:    Unchecked,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) IsAuthenticated() bool {
	return m.State() == Authenticated
}

// User returns a copy of the cached profile, or nil.
func (m *Manager) User() *models.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Login returns the OAuth authorization URL. It does not touch local state:
// the session is established by the callback that follows.
func (m *Manager) Login() string {
	return m.loginURL
}

// MarkLoggedIn records an explicit re-login so the next RefreshUser really
// asks the backend instead of trusting an earlier anonymous result.
func (m *Manager) MarkLoggedIn() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authChecked = false
	m.user = nil
	m.fetchedAt = time.Time{}
}

// Startup runs the silent session check. Without the persisted flag no
// identity call is made.
func (m *Manager) Startup(ctx context.Context) (*models.Profile, error) {
	loggedIn, err := m.flags.Get(ctx)
	if err != nil {
		m.logger.Warn("failed to read session flag", zap.Error(err))
	}

	if !loggedIn {
		m.mu.Lock()
		m.state = Unauthenticated
		m.authChecked = true
		m.mu.Unlock()
		return nil, nil
	}

	return m.RefreshUser(ctx)
}

// RefreshUser re-validates the session. Concurrent calls share one backend
// round trip. Any failure ends in Unauthenticated; the returned error is
// non-nil only for failures other than an unauthorized response. Only an
// unauthorized response counts as a completed anonymous check: after a
// network or server failure the next call asks the backend again.
// Callers coalesced into one round trip each get their own copy of the profile.
func (m *Manager) RefreshUser(ctx context.Context) (*models.Profile, error) {
	v, err, _ := m.refresh.Do("refresh", func() (interface{}, error) {
		return m.refreshUser(ctx)
	})
	if err != nil {
		return nil, err
	}
	profile, _ := v.(*models.Profile)
	if profile == nil {
		return nil, nil
	}
	u := *profile
	return &u, nil
}

func (m *Manager) refreshUser(ctx context.Context) (*models.Profile, error) {
	m.mu.Lock()
	if m.authChecked && m.state == Unauthenticated {
		m.mu.Unlock()
		return nil, nil
	}
	m.state = Checking
	m.mu.Unlock()

	user, err := m.CurrentUser(ctx)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrTypeUnauthorized) {
			m.reset(ctx, true)
			m.logger.Debug("session is not authenticated")
			return nil, nil
		}
		m.reset(ctx, false)
		m.logger.Error("failed to refresh user", zap.Error(err))
		return nil, fmt.Errorf("refresh user: %w", err)
	}

	m.mu.Lock()
	m.state = Authenticated
	m.authChecked = true
	m.mu.Unlock()

	if err := m.flags.Set(ctx); err != nil {
		m.logger.Warn("failed to persist session flag", zap.Error(err))
	}

	return user, nil
}

// CurrentUser returns the cached profile while it is fresh, fetching it otherwise.
// An unauthorized response is reported as ErrUnauthorized.
func (m *Manager) CurrentUser(ctx context.Context) (*models.Profile, error) {
	m.mu.Lock()
	if m.user != nil && m.now().Sub(m.fetchedAt) < m.ttl {
		u := *m.user
		m.mu.Unlock()
		return &u, nil
	}
	m.mu.Unlock()

	user, err := m.identity.Me(ctx)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrTypeUnauthorized) {
			return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorized
	}

	m.mu.Lock()
	cached := *user
	m.user = &cached
	m.fetchedAt = m.now()
	m.mu.Unlock()

	u := cached
	return &u, nil
}

// Logout tells the backend and then clears local state no matter what it said.
// The backend error, if any, is returned after the local reset.
func (m *Manager) Logout(ctx context.Context) error {
	err := m.identity.Logout(ctx)
	if err != nil {
		m.logger.Warn("backend logout failed", zap.Error(err))
	}

	m.reset(ctx, true)

	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// reset drops the cached user and the persisted flag. concluded marks the
// session as known to be anonymous, which also discards the stored token.
func (m *Manager) reset(ctx context.Context, concluded bool) {
	m.mu.Lock()
	m.user = nil
	m.fetchedAt = time.Time{}
	m.state = Unauthenticated
	m.authChecked = concluded
	m.mu.Unlock()

	if err := m.flags.Clear(ctx); err != nil {
		m.logger.Warn("failed to clear session flag", zap.Error(err))
	}

	if concluded && m.credentials != nil {
		if err := m.credentials.ClearToken(ctx); err != nil {
			m.logger.Warn("failed to clear access token", zap.Error(err))
		}
	}
}
