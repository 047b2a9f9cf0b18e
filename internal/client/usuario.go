package client

import (
	"context"

	"github.com/timmy/siscrap/internal/domain"
)

// Login authenticates with e-mail and password.
func (c *Client) Login(ctx context.Context, in domain.LoginRequest) (*domain.UserResponse, error) {
	req, cancel := c.request(ctx, c.timeout)
	defer cancel()

	var result domain.UserResponse
	resp, err := req.SetBody(in).SetResult(&result).Post("/usuario/login")
	if err := c.check(ctx, "login", resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates an account. Duplicate e-mails come back as a validation *APIError.
func (c *Client) Register(ctx context.Context, in domain.RegisterRequest) (*domain.UserResponse, error) {
	req, cancel := c.request(ctx, c.timeout)
	defer cancel()

	var result domain.UserResponse
	resp, err := req.SetBody(in).SetResult(&result).Post("/usuario/cadastro")
	if err := c.check(ctx, "register", resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}
