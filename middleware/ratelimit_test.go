package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func resetLimiter(t *testing.T, limit int) {
	t.Helper()
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	limiter.limit = limit
	limiter.requests = make(map[string]*clientRequest)
}

// newLimitedRouter mirrors the protected-group wiring: the staff identity is
// set before the limiter runs.
func newLimitedRouter(staffID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if staffID != "" {
		router.Use(func(c *gin.Context) {
			c.Set("staff_id", staffID)
			c.Next()
		})
	}
	router.Use(RateLimiter())
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func ping(router *gin.Engine) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ping", nil)
	router.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiter_KeysByStaffID(t *testing.T) {
	resetLimiter(t, 3)

	alice := newLimitedRouter("staff-alice")
	bob := newLimitedRouter("staff-bob")

	// Interleaved requests from two staff members share the client IP but
	// must consume separate budgets.
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, ping(alice), "alice request %d", i+1)
		assert.Equal(t, http.StatusOK, ping(bob), "bob request %d", i+1)
	}

	assert.Equal(t, http.StatusTooManyRequests, ping(alice))
	assert.Equal(t, http.StatusTooManyRequests, ping(bob))
}

func TestRateLimiter_FallsBackToClientIP(t *testing.T) {
	resetLimiter(t, 2)

	router := newLimitedRouter("")

	assert.Equal(t, http.StatusOK, ping(router))
	assert.Equal(t, http.StatusOK, ping(router))
	assert.Equal(t, http.StatusTooManyRequests, ping(router))
}

func TestRateLimiter_WindowResets(t *testing.T) {
	resetLimiter(t, 1)

	router := newLimitedRouter("staff-alice")
	assert.Equal(t, http.StatusOK, ping(router))
	assert.Equal(t, http.StatusTooManyRequests, ping(router))

	limiter.mu.Lock()
	limiter.requests["staff-alice"].resetTime = time.Now().Add(-time.Second)
	limiter.mu.Unlock()

	assert.Equal(t, http.StatusOK, ping(router))
}
