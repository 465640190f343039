package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"tripsmith/pkg/utils"
)

// ClientLimiter hands out one token bucket per client IP. Plan generation
// is the only long-running, engine-backed endpoint, so it gets guarded.
type ClientLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	rps      rate.Limit
	burst    int
}

func NewClientLimiter(rps float64, burst int) *ClientLimiter {
	return &ClientLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

func (l *ClientLimiter) limiterFor(client string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[client]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, exists = l.limiters[client]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.rps, l.burst)
	l.limiters[client] = limiter
	return limiter
}

func (l *ClientLimiter) Allow(client string) bool {
	return l.limiterFor(client).Allow()
}

func RateLimitMiddleware(limiter *ClientLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			utils.RespondError(c, http.StatusTooManyRequests, "Too many planning requests, slow down")
			c.Abort()
			return
		}
		c.Next()
	}
}
