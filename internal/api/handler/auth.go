package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timmy/siscrap/internal/domain"
	"github.com/timmy/siscrap/internal/session"
)

// AuthHandler handles login, registration and logout.
type AuthHandler struct {
	sess *session.Manager
	api  session.AuthAPI
}

// NewAuthHandler creates a new auth handler.
// Parameters:
//   - sess: session manager to initialise and tear down.
//   - api: backend user endpoints.
//
// Returns:
//   - *AuthHandler: initialized handler.
func NewAuthHandler(sess *session.Manager, api session.AuthAPI) *AuthHandler {
	return &AuthHandler{sess: sess, api: api}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"senha" binding:"required"`
}

type registerRequest struct {
	Name     string `json:"nome" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"senha" binding:"required,min=6"`
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}

	resp, err := h.sess.Login(c.Request.Context(), h.api, req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userView(resp))
}

// Register handles POST /register. Without a token in the response the UI is
// sent to the login page.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}

	resp, err := h.sess.Register(c.Request.Context(), h.api, domain.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	body := userView(resp)
	if resp.Token == "" {
		body["redirect"] = LoginPath
	}
	c.JSON(http.StatusCreated, body)
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sess.Logout(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"redirect": LoginPath})
}

// Me handles GET /me.
func (h *AuthHandler) Me(c *gin.Context) {
	s, ok := h.sess.Current()
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"redirect": LoginPath})
		return
	}
	c.JSON(http.StatusOK, s)
}

func userView(resp *domain.UserResponse) gin.H {
	return gin.H{
		"usuarioId": resp.UserID,
		"nome":      resp.Name,
		"email":     resp.Email,
		"msg":       resp.Message,
	}
}
