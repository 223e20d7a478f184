package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rentops/ledger_backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

func TestRateLimit_BlocksAfterLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ipLimiter := limiter.New(memory.NewStore(), limiter.Rate{Period: time.Minute, Limit: 2})

	r := gin.New()
	r.POST("/login", middleware.RateLimit(ipLimiter), func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "203.0.113.7:4242"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, do().Code)
	assert.Equal(t, http.StatusOK, do().Code)

	third := do()
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.Contains(t, third.Body.String(), "Too many requests")
}

func TestRateLimit_PerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ipLimiter := limiter.New(memory.NewStore(), limiter.Rate{Period: time.Minute, Limit: 1})

	r := gin.New()
	r.POST("/login", middleware.RateLimit(ipLimiter), func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("203.0.113.7:4242"))
	assert.Equal(t, http.StatusTooManyRequests, do("203.0.113.7:4242"))

	// A different client is unaffected.
	assert.Equal(t, http.StatusOK, do("198.51.100.9:4242"))
}
