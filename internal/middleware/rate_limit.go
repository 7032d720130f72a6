// internal/middleware/rate_limit.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/vendora/vendora-backend/internal/config"
)

// Buckets idle longer than this are dropped by the background sweep.
const bucketTTL = 3 * time.Minute

// ipLimiter hands out one token bucket per client IP.
type ipLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPLimiter(limit rate.Limit, burst int) *ipLimiter {
	l := &ipLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		burst:   burst,
	}
	go l.sweep()
	return l
}

func (l *ipLimiter) sweep() {
	for {
		time.Sleep(time.Minute)
		l.mu.Lock()
		for ip, b := range l.buckets {
			if time.Since(b.lastSeen) > bucketTTL {
				delete(l.buckets, ip)
			}
		}
		l.mu.Unlock()
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[ip]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[ip] = b
	}
	b.lastSeen = time.Now()
	return b.limiter.Allow()
}

func (l *ipLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RateLimits groups the per-tier request limiters. Auth and upload endpoints
// run on tighter budgets than the rest of the API; all budgets come from
// configuration.
type RateLimits struct {
	General gin.HandlerFunc
	Auth    gin.HandlerFunc
	Upload  gin.HandlerFunc
}

func NewRateLimits(cfg config.RateLimitConfig) *RateLimits {
	perMinute := func(n int) rate.Limit { return rate.Limit(float64(n) / 60) }

	return &RateLimits{
		General: newIPLimiter(rate.Limit(cfg.GeneralPerSecond), cfg.GeneralPerSecond).middleware(),
		Auth:    newIPLimiter(perMinute(cfg.AuthPerMinute), cfg.AuthPerMinute).middleware(),
		Upload:  newIPLimiter(perMinute(cfg.UploadPerMinute), cfg.UploadPerMinute).middleware(),
	}
}
