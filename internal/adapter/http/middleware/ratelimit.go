package middleware

import (
	"fmt"
	"strconv"
	"time"

	redisStore "trading-gateway/internal/adapter/storage/redis"
	"trading-gateway/pkg/apperror"
	"trading-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RateLimitRule defines a rate limit for an endpoint group.
type RateLimitRule struct {
	Limit  int64
	Window time.Duration
}

// DefaultRateLimitRules returns the rate limits per endpoint group.
// Trading endpoints are tighter than reads; funding is tightest since
// it mints balances.
func DefaultRateLimitRules() map[string]RateLimitRule {
	return map[string]RateLimitRule{
		"trade":       {Limit: 60, Window: time.Minute},
		"quote":       {Limit: 120, Window: time.Minute},
		"market":      {Limit: 300, Window: time.Minute},
		"wallet":      {Limit: 120, Window: time.Minute},
		"wallet_fund": {Limit: 10, Window: time.Minute},
		"command":     {Limit: 60, Window: time.Minute},
	}
}

// RateLimiter creates a rate-limiting middleware for a given endpoint group.
func RateLimiter(store *redisStore.RateLimitStore, group string, rule RateLimitRule, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identifier := extractIdentifier(c)
		key := fmt.Sprintf("%s:%s", identifier, group)

		result, err := store.Allow(c.Request.Context(), key, rule.Limit, rule.Window)
		if err != nil {
			log.Warn().Err(err).Str("group", group).Msg("rate limit check failed, allowing request (degraded mode)")
			c.Next()
			return
		}

		// Always set rate limit headers
		c.Header("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))

		if !result.Allowed {
			retryAfter := result.ResetAt - time.Now().Unix()
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			response.Error(c, apperror.ErrRateLimitExceeded())
			c.Abort()
			return
		}

		c.Next()
	}
}

// extractIdentifier determines the rate limit key source: the caller's
// wallet when tagged, the client IP otherwise.
func extractIdentifier(c *gin.Context) string {
	if wallet := c.GetHeader(HeaderWalletAddress); wallet != "" {
		return wallet
	}
	return c.ClientIP()
}
