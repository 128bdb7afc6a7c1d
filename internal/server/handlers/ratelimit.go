package handlers

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiterTTL is how long an idle user's limiter is kept.
const limiterTTL = 10 * time.Minute

// RateLimiter throttles requests per user with a token bucket.
type RateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	perSecond rate.Limit
	burst     int
	now       func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows perMinute requests per user with the given burst.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	return &RateLimiter{
		limiters:  make(map[string]*limiterEntry),
		perSecond: rate.Limit(float64(perMinute) / 60.0),
		burst:     burst,
		now:       time.Now,
	}
}

// Allow reports whether the user may make another request now.
func (r *RateLimiter) Allow(user string) (bool, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, e := range r.limiters {
		if now.Sub(e.lastSeen) > limiterTTL {
			delete(r.limiters, id)
		}
	}

	entry, ok := r.limiters[user]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(r.perSecond, r.burst)}
		r.limiters[user] = entry
	}
	entry.lastSeen = now

	res := entry.limiter.ReserveN(now, 1)
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Middleware rejects over-limit requests with 429 and a Retry-After header.
func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, wait := r.Allow(userID(c))
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many report requests, try again later"})
			return
		}
		c.Next()
	}
}
