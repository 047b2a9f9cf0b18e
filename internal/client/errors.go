package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnauthorized matches any 401/403 from the backend. The session has already
	// been torn down when a caller sees it.
	ErrUnauthorized = errors.New("unauthorized: session expired or invalid")
	// ErrNotFound matches 404 responses.
	ErrNotFound = errors.New("resource not found")
	// ErrNoSession is returned before any network call when the operation needs
	// the logged-in user id and there is none.
	ErrNoSession = errors.New("no active session")
)

// APIError is a non-2xx backend response, including validation failures such as
// a duplicate registration.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

// Is lets errors.Is match the sentinel categories.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return isAuthFailure(e.StatusCode)
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// IsValidation reports whether the backend rejected the request content (4xx other
// than auth and not-found).
func (e *APIError) IsValidation() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500 &&
		!isAuthFailure(e.StatusCode) && e.StatusCode != http.StatusNotFound
}

func isAuthFailure(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}

// newAPIError extracts a human message from a Spring-style error body.
func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
		Msg     string `json:"msg"`
		Error   string `json:"error"`
	}
	msg := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Message != "":
			msg = payload.Message
		case payload.Msg != "":
			msg = payload.Msg
		default:
			msg = payload.Error
		}
	} else {
		msg = strings.TrimSpace(string(body))
	}
	if len(msg) > 300 {
		msg = msg[:300]
	}
	return &APIError{StatusCode: status, Message: msg}
}
