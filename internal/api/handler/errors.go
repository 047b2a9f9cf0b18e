package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/timmy/siscrap/internal/catalog"
	"github.com/timmy/siscrap/internal/client"
	"github.com/timmy/siscrap/internal/logger"
	"github.com/timmy/siscrap/internal/review"
	"github.com/timmy/siscrap/internal/robot"
	"github.com/timmy/siscrap/internal/session"
)

// LoginPath is where the UI goes when the session is gone.
const LoginPath = "/login"

// writeError maps domain and backend errors to HTTP responses.
func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	body := gin.H{"error": err.Error()}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		body["error"] = apiErr.Message
	}
	if status == http.StatusUnauthorized {
		body["redirect"] = LoginPath
	}

	if status >= 500 {
		logger.CtxError(c.Request.Context(), "Request failed: %v", err)
	} else {
		logger.CtxWarn(c.Request.Context(), "Request rejected (%d): %v", status, err)
	}
	c.AbortWithStatusJSON(status, body)
}

func statusFor(err error) int {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrUnauthorized), errors.Is(err, client.ErrNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, review.ErrInFlight), errors.Is(err, catalog.ErrSaveInFlight), errors.Is(err, robot.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, review.ErrTaskNotFound), errors.Is(err, catalog.ErrUnknownProduct), errors.Is(err, client.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, robot.ErrOffline):
		return http.StatusServiceUnavailable
	case errors.Is(err, review.ErrInvalidAction),
		errors.Is(err, review.ErrReviewFilterUnavailable),
		errors.Is(err, review.ErrUnknownFilter),
		errors.Is(err, review.ErrPageOutOfRange),
		errors.Is(err, review.ErrNoForm),
		errors.Is(err, review.ErrNoBatch),
		errors.Is(err, catalog.ErrNoBatch),
		errors.Is(err, catalog.ErrInvalidPrice),
		errors.Is(err, session.ErrNoToken):
		return http.StatusBadRequest
	case errors.As(err, &apiErr) && apiErr.IsValidation():
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}

// idParam reads a positive integer path parameter.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}
