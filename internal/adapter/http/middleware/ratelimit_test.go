package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	redisStore "trading-gateway/internal/adapter/storage/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRateLimitRouter(t *testing.T, rule RateLimitRule) (*gin.Engine, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := redisStore.NewRateLimitStore(client)
	router := gin.New()
	router.GET("/test", RateLimiter(store, "trade", rule, zerolog.Nop()), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	return router, s
}

func TestRateLimiter_AllowsUnderLimit(t *testing.T) {
	router, _ := newRateLimitRouter(t, RateLimitRule{Limit: 3, Window: time.Minute})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	router, _ := newRateLimitRouter(t, RateLimitRule{Limit: 2, Window: time.Minute})

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		last = httptest.NewRecorder()
		router.ServeHTTP(last, req)
	}

	require.NotNil(t, last)
	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Contains(t, last.Body.String(), "RATE_001")
	assert.NotEmpty(t, last.Header().Get("Retry-After"))
	assert.Equal(t, "0", last.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimiter_WalletsBucketedSeparately(t *testing.T) {
	router, _ := newRateLimitRouter(t, RateLimitRule{Limit: 1, Window: time.Minute})

	reqA := httptest.NewRequest(http.MethodGet, "/test", nil)
	reqA.Header.Set(HeaderWalletAddress, "wallet-a")
	wA := httptest.NewRecorder()
	router.ServeHTTP(wA, reqA)
	assert.Equal(t, http.StatusOK, wA.Code)

	// Same wallet again: blocked.
	wA2 := httptest.NewRecorder()
	router.ServeHTTP(wA2, reqA)
	assert.Equal(t, http.StatusTooManyRequests, wA2.Code)

	// Different wallet: its own bucket.
	reqB := httptest.NewRequest(http.MethodGet, "/test", nil)
	reqB.Header.Set(HeaderWalletAddress, "wallet-b")
	wB := httptest.NewRecorder()
	router.ServeHTTP(wB, reqB)
	assert.Equal(t, http.StatusOK, wB.Code)
}

func TestRateLimiter_WindowResets(t *testing.T) {
	router, s := newRateLimitRouter(t, RateLimitRule{Limit: 1, Window: time.Minute})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	s.FastForward(2 * time.Minute)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter_DegradedModeAllows(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := redisStore.NewRateLimitStore(client)
	router := gin.New()
	router.GET("/test", RateLimiter(store, "trade", RateLimitRule{Limit: 1, Window: time.Minute}, zerolog.Nop()), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	// Kill redis; the limiter must fail open.
	s.Close()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
