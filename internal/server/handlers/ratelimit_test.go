package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(60, 2)
	rl.now = func() time.Time { return now }

	ok, _ := rl.Allow("u1")
	assert.True(t, ok)
	ok, _ = rl.Allow("u1")
	assert.True(t, ok)
	ok, wait := rl.Allow("u1")
	assert.False(t, ok)
	assert.Equal(t, time.Second, wait)

	ok, _ = rl.Allow("u2")
	assert.True(t, ok, "limits are per user")

	now = now.Add(time.Second)
	ok, _ = rl.Allow("u1")
	assert.True(t, ok)
}

func TestRateLimiter_ForgetsIdleUsers(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return now }

	rl.Allow("u1")
	now = now.Add(limiterTTL + time.Minute)
	rl.Allow("u2")

	assert.Len(t, rl.limiters, 1)
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	r := gin.New()
	r.Use(UserScope("farm"), rl.Middleware())
	r.GET("/report", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/report", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/report", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}
