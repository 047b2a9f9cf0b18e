package session

import (
	"context"
	"errors"

	"github.com/timmy/siscrap/internal/domain"
)

// ErrNoToken is returned when the backend accepted credentials but sent no token.
var ErrNoToken = errors.New("login response carried no token")

// AuthAPI is the backend's user endpoint.
type AuthAPI interface {
	Login(ctx context.Context, in domain.LoginRequest) (*domain.UserResponse, error)
	Register(ctx context.Context, in domain.RegisterRequest) (*domain.UserResponse, error)
}

// Login authenticates and starts a session from the response.
func (m *Manager) Login(ctx context.Context, api AuthAPI, email, password string) (*domain.UserResponse, error) {
	resp, err := api.Login(ctx, domain.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return resp, ErrNoToken
	}
	if err := m.Init(ctx, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Register creates an account. When the backend logs the new user in directly
// (token present) the session starts; otherwise the caller goes to login.
func (m *Manager) Register(ctx context.Context, api AuthAPI, in domain.RegisterRequest) (*domain.UserResponse, error) {
	resp, err := api.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := m.Init(ctx, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Logout ends the session explicitly.
func (m *Manager) Logout(ctx context.Context) error {
	return m.Teardown(ctx)
}
