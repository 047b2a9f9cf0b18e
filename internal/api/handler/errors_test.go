package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/timmy/siscrap/internal/catalog"
	"github.com/timmy/siscrap/internal/client"
	"github.com/timmy/siscrap/internal/review"
	"github.com/timmy/siscrap/internal/robot"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"backend 403", fmt.Errorf("list: %w", &client.APIError{StatusCode: 403}), http.StatusUnauthorized},
		{"no session", client.ErrNoSession, http.StatusUnauthorized},
		{"in flight", review.ErrInFlight, http.StatusConflict},
		{"save in flight", catalog.ErrSaveInFlight, http.StatusConflict},
		{"robot busy", robot.ErrBusy, http.StatusConflict},
		{"robot offline", robot.ErrOffline, http.StatusServiceUnavailable},
		{"unknown task", fmt.Errorf("approve: %w", review.ErrTaskNotFound), http.StatusNotFound},
		{"backend 404", &client.APIError{StatusCode: 404}, http.StatusNotFound},
		{"invalid action", review.ErrInvalidAction, http.StatusBadRequest},
		{"bad price", catalog.ErrInvalidPrice, http.StatusBadRequest},
		{"duplicate email", &client.APIError{StatusCode: 400, Message: "email já cadastrado"}, http.StatusUnprocessableEntity},
		{"backend 500", &client.APIError{StatusCode: 500}, http.StatusBadGateway},
		{"transport", errors.New("connection refused"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
