// Package session owns the authenticated dashboard identity. It is initialised on
// login, torn down on logout or on any 401/403 from the backend, and injected into
// the API client and the gateway's navigation guard.
package session

import (
	"context"
	"sync"

	"github.com/timmy/siscrap/internal/domain"
	"github.com/timmy/siscrap/internal/logger"
)

// Store persists the session between runs.
type Store interface {
	Save(ctx context.Context, s *domain.Session) error
	Load(ctx context.Context) (*domain.Session, error)
	Delete(ctx context.Context) error
}

// Manager holds the current session in memory, backed by a Store.
type Manager struct {
	store Store

	mu         sync.RWMutex
	current    *domain.Session
	onTeardown []func()
}

// NewManager creates a manager with no active session. Call Restore to pick up a
// persisted one.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Restore loads the persisted session, if any.
func (m *Manager) Restore(ctx context.Context) error {
	s, err := m.store.Load(ctx)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.current = s
	m.mu.Unlock()
	return nil
}

// Init starts a session from a login or registration response. A response without
// a token leaves the manager untouched.
func (m *Manager) Init(ctx context.Context, resp *domain.UserResponse) error {
	if resp == nil || resp.Token == "" {
		return nil
	}
	s := &domain.Session{
		Token:  resp.Token,
		UserID: resp.UserID,
		Name:   resp.Name,
		Email:  resp.Email,
	}
	if err := m.store.Save(ctx, s); err != nil {
		return err
	}

	m.mu.Lock()
	m.current = s
	m.mu.Unlock()

	logger.CtxInfo(ctx, "Session started for user %d", s.UserID)
	return nil
}

// Teardown clears the session and fires the login-boundary hooks. Safe to call
// repeatedly; hooks only fire when a session was active.
func (m *Manager) Teardown(ctx context.Context) error {
	m.mu.Lock()
	wasActive := m.current != nil
	m.current = nil
	hooks := append([]func(){}, m.onTeardown...)
	m.mu.Unlock()

	err := m.store.Delete(ctx)
	if wasActive {
		logger.CtxInfo(ctx, "Session ended")
		for _, fn := range hooks {
			fn()
		}
	}
	return err
}

// OnTeardown registers fn to run whenever an active session ends.
func (m *Manager) OnTeardown(fn func()) {
	m.mu.Lock()
	m.onTeardown = append(m.onTeardown, fn)
	m.mu.Unlock()
}

// Token returns the bearer credential, or "" when logged out.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ""
	}
	return m.current.Token
}

// UserID returns the logged-in user id.
func (m *Manager) UserID() (int64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return 0, false
	}
	return m.current.UserID, true
}

// Current returns a copy of the active session.
func (m *Manager) Current() (domain.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return domain.Session{}, false
	}
	return *m.current, true
}

// IsAuthenticated reports whether a token is present.
func (m *Manager) IsAuthenticated() bool {
	return m.Token() != ""
}
