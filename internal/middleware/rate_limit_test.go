// internal/middleware/rate_limit_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/vendora/vendora-backend/internal/config"
)

func limitedRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", handler, func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func ping(r *gin.Engine, ip string) int {
	req := httptest.NewRequest("GET", "/ping", nil)
	req.RemoteAddr = ip + ":40000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestIPLimiterEnforcesBurst(t *testing.T) {
	// Refill slow enough that the test never earns a token back
	limiter := newIPLimiter(rate.Limit(0.001), 2)
	r := limitedRouter(limiter.middleware())

	assert.Equal(t, http.StatusOK, ping(r, "10.0.0.1"))
	assert.Equal(t, http.StatusOK, ping(r, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, ping(r, "10.0.0.1"))
}

func TestIPLimiterBudgetsArePerIP(t *testing.T) {
	limiter := newIPLimiter(rate.Limit(0.001), 1)
	r := limitedRouter(limiter.middleware())

	assert.Equal(t, http.StatusOK, ping(r, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, ping(r, "10.0.0.1"))

	// A different client still has its full budget
	assert.Equal(t, http.StatusOK, ping(r, "10.0.0.2"))
}

func TestNewRateLimitsReadsBudgetsFromConfig(t *testing.T) {
	limits := NewRateLimits(config.RateLimitConfig{
		GeneralPerSecond: 1,
		AuthPerMinute:    1,
		UploadPerMinute:  1,
	})

	auth := limitedRouter(limits.Auth)
	assert.Equal(t, http.StatusOK, ping(auth, "10.0.0.3"))
	assert.Equal(t, http.StatusTooManyRequests, ping(auth, "10.0.0.3"))

	// Tiers do not share buckets
	upload := limitedRouter(limits.Upload)
	assert.Equal(t, http.StatusOK, ping(upload, "10.0.0.3"))
}
