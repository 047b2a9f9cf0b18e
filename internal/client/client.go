// Package client is the Remote API Client for the scraping backend. Every request
// carries the session's bearer token; a 401/403 anywhere tears the session down.
package client

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/timmy/siscrap/internal/domain"
	"github.com/timmy/siscrap/internal/logger"
)

// Session is the slice of the session manager the client needs.
type Session interface {
	Token() string
	UserID() (int64, bool)
	Teardown(ctx context.Context) error
}

// Config holds configuration for the API client.
type Config struct {
	BaseURL     string
	Timeout     time.Duration // default for short calls
	ListTimeout time.Duration // task listing
	PageSize    int
}

// Client talks to the backend REST API.
type Client struct {
	http        *resty.Client
	session     Session
	timeout     time.Duration
	listTimeout time.Duration
	pageSize    int
}

// New creates a new API client.
// Parameters:
//   - cfg: base URL, timeouts and page size.
//   - sess: session supplying the bearer token and torn down on 401/403.
//
// Returns:
//   - *Client: initialized client.
func New(cfg *Config, sess Session) *Client {
	c := &Client{
		session:     sess,
		timeout:     cfg.Timeout,
		listTimeout: cfg.ListTimeout,
		pageSize:    cfg.PageSize,
	}
	if c.pageSize <= 0 {
		c.pageSize = domain.DefaultPageSize
	}

	// Timeouts are applied per request through the context; downloads have none.
	c.http = resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		OnBeforeRequest(c.attachToken).
		OnAfterResponse(c.handleAuthFailure)

	return c
}

func (c *Client) attachToken(_ *resty.Client, r *resty.Request) error {
	if tok := c.session.Token(); tok != "" {
		r.SetAuthToken(tok)
	}
	return nil
}

func (c *Client) handleAuthFailure(_ *resty.Client, resp *resty.Response) error {
	if !isAuthFailure(resp.StatusCode()) {
		return nil
	}
	ctx := resp.Request.Context()
	logger.CtxWarn(ctx, "Backend rejected credentials (status %d), ending session", resp.StatusCode())
	if err := c.session.Teardown(context.WithoutCancel(ctx)); err != nil {
		logger.CtxError(ctx, "Failed to clear session: %v", err)
	}
	return nil
}

// request builds a request bound to ctx. A zero timeout means no deadline.
func (c *Client) request(ctx context.Context, timeout time.Duration) (*resty.Request, context.CancelFunc) {
	cancel := context.CancelFunc(func() {})
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}
	return c.http.R().SetContext(ctx), cancel
}

func (c *Client) userID() (int64, error) {
	id, ok := c.session.UserID()
	if !ok {
		return 0, ErrNoSession
	}
	return id, nil
}

// check turns a resty result into an error and logs failures at the call site.
func (c *Client) check(ctx context.Context, op string, resp *resty.Response, err error) error {
	if err != nil {
		logger.CtxError(ctx, "%s failed: %v", op, err)
		return fmt.Errorf("%s: %w", op, err)
	}
	if resp.IsSuccess() {
		return nil
	}
	apiErr := newAPIError(resp.StatusCode(), resp.Body())
	logger.With(nil).WithStatus(resp.StatusCode()).Error(ctx, "%s failed: %v", op, apiErr)
	return fmt.Errorf("%s: %w", op, apiErr)
}

// download executes r without buffering the body.
func (c *Client) download(ctx context.Context, op, method, url string, r *resty.Request) (*domain.Download, error) {
	resp, err := r.SetDoNotParseResponse(true).Execute(method, url)
	if err != nil {
		logger.CtxError(ctx, "%s failed: %v", op, err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	raw := resp.RawBody()
	if !resp.IsSuccess() {
		var body []byte
		if raw != nil {
			body, _ = io.ReadAll(io.LimitReader(raw, 64<<10))
			raw.Close()
		}
		apiErr := newAPIError(resp.StatusCode(), body)
		logger.With(nil).WithStatus(resp.StatusCode()).Error(ctx, "%s failed: %v", op, apiErr)
		return nil, fmt.Errorf("%s: %w", op, apiErr)
	}

	size := int64(-1)
	if resp.RawResponse != nil {
		size = resp.RawResponse.ContentLength
	}
	return &domain.Download{
		ContentDisposition: resp.Header().Get("Content-Disposition"),
		ContentType:        resp.Header().Get("Content-Type"),
		Size:               size,
		Body:               raw,
	}, nil
}
