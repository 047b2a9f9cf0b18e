package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/timmy/siscrap/internal/config"
	"github.com/timmy/siscrap/internal/logger"
)

type fakeSession struct {
	ok bool
	id int64
}

func (f fakeSession) IsAuthenticated() bool { return f.ok }

func (f fakeSession) UserID() (int64, bool) { return f.id, f.ok }

func newEngine(sess SessionChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(LoggerMiddleware("test"))
	r.GET("/guarded", RequireSession(sess, "/login"), func(c *gin.Context) {
		id, _ := logger.GetField(c.Request.Context(), logger.FieldUserID)
		c.JSON(http.StatusOK, gin.H{"user": id, "request_id": logger.GetRequestID(c.Request.Context())})
	})
	return r
}

func TestRequireSession(t *testing.T) {
	w := httptest.NewRecorder()
	newEngine(fakeSession{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"redirect":"/login"`)

	w = httptest.NewRecorder()
	newEngine(fakeSession{ok: true, id: 9}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user":9`)
}

func TestLoggerMiddleware_ReusesRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	newEngine(fakeSession{ok: true, id: 1}).ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	assert.Contains(t, w.Body.String(), `"request_id":"abc-123"`)
}

func TestIsOriginAllowed(t *testing.T) {
	cfg := config.CORSConfig{AllowedOrigins: []string{"http://app.local"}}
	assert.True(t, IsOriginAllowed("http://app.local", cfg))
	assert.False(t, IsOriginAllowed("http://other.local", cfg))
	assert.True(t, IsOriginAllowed("http://other.local", config.CORSConfig{AllowAllOrigins: true}))
}
