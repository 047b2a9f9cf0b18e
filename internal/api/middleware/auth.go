package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timmy/siscrap/internal/logger"
)

// SessionChecker is the part of the session the guard reads.
type SessionChecker interface {
	IsAuthenticated() bool
	UserID() (int64, bool)
}

// RequireSession is the navigation guard: without a session every request is
// answered with 401 and the login redirect.
func RequireSession(sess SessionChecker, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sess.IsAuthenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    "login required",
				"redirect": loginPath,
			})
			return
		}
		if id, ok := sess.UserID(); ok {
			c.Request = c.Request.WithContext(logger.SetUserID(c.Request.Context(), id))
		}
		c.Next()
	}
}
