package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/relieforg/reliefhub/internal/pkg/errcode"
	"github.com/relieforg/reliefhub/internal/pkg/response"
)

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter throttles per client-IP-and-path with a token bucket.
// Stale entries are evicted opportunistically on each pass.
type RateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*clientLimiter
	limit     rate.Limit
	burst     int
	maxIdle   time.Duration
	lastSweep time.Time
}

func NewRateLimiter(perMinute, burst int) *RateLimiter {
	return &RateLimiter{
		limiters:  make(map[string]*clientLimiter),
		limit:     rate.Limit(float64(perMinute) / 60.0),
		burst:     burst,
		maxIdle:   10 * time.Minute,
		lastSweep: time.Now(),
	}
}

func (l *RateLimiter) Handle(c *gin.Context) {
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	key := strings.Join([]string{c.ClientIP(), path}, "|")

	now := time.Now()
	l.mu.Lock()
	entry, ok := l.limiters[key]
	if !ok {
		entry = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastAccess = now
	if now.Sub(l.lastSweep) > time.Minute {
		for k, e := range l.limiters {
			if now.Sub(e.lastAccess) > l.maxIdle {
				delete(l.limiters, k)
			}
		}
		l.lastSweep = now
	}
	allowed := entry.limiter.Allow()
	l.mu.Unlock()

	if !allowed {
		logutil.GetLogger(c.Request.Context()).Warn("rate limit hit",
			zap.String("ip", c.ClientIP()),
			zap.String("path", path),
		)
		response.Error(c, errcode.ErrTooMany, http.StatusText(http.StatusTooManyRequests))
		c.Abort()
		return
	}
	c.Next()
}
