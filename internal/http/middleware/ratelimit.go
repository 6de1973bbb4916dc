package middleware

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/yungbote/hirebridge-backend/internal/http/response"
	"github.com/yungbote/hirebridge-backend/internal/platform/ctxutil"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a token bucket per caller. Callers are keyed by session user
// when authenticated, otherwise by client IP.
type RateLimiter struct {
	mu          sync.Mutex
	rps         rate.Limit
	burst       int
	idle        time.Duration
	maxVisitors int
	lastSweep   time.Time
	now         func() time.Time
	visitors    map[string]*visitor
}

func NewRateLimiter(perMinute, burst int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 30
	}
	if burst <= 0 {
		burst = 5
	}
	return &RateLimiter{
		rps:         rate.Limit(float64(perMinute) / 60.0),
		burst:       burst,
		idle:        10 * time.Minute,
		maxVisitors: 10000,
		now:         time.Now,
		visitors:    map[string]*visitor{},
	}
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	if now.Sub(rl.lastSweep) >= rl.idle || len(rl.visitors) >= rl.maxVisitors {
		rl.sweep(now)
	}
	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// sweep drops callers idle for longer than rl.idle. Caller holds rl.mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for k, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.idle {
			delete(rl.visitors, k)
		}
	}
	rl.lastSweep = now
}

func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if s := ctxutil.GetSession(c.Request.Context()); s != nil {
			key = "user:" + s.UserID.String()
		}
		if !rl.allow(key) {
			c.Header("Retry-After", "60")
			response.Abort(c, http.StatusTooManyRequests, "rate_limited", errors.New("too many requests"))
			return
		}
		c.Next()
	}
}
