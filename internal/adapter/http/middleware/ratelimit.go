package middleware

import (
	"fmt"
	"strconv"
	"time"

	"cbdc-settlement/config"
	redisStore "cbdc-settlement/internal/adapter/storage/redis"
	"cbdc-settlement/pkg/apperror"
	"cbdc-settlement/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RateLimitRule defines a rate limit for an endpoint group.
type RateLimitRule struct {
	Limit  int64
	Window time.Duration
}

// DefaultRateLimitRules returns the limits per endpoint group. cfg sets the
// operator write budget; the other groups scale from it.
func DefaultRateLimitRules(cfg config.RateLimitConfig) map[string]RateLimitRule {
	limit, window := cfg.Limit, cfg.Window
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	return map[string]RateLimitRule{
		"auth_token": {Limit: 10, Window: time.Minute},
		"operator":   {Limit: limit, Window: window},
		"reports":    {Limit: max(limit/2, 1), Window: window},
		"sync":       {Limit: max(limit/10, 1), Window: window},
		// Peers batch their traffic, so node routes get the widest budget.
		"node": {Limit: limit * 10, Window: window},
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

// extractIdentifier determines the rate limit key source. Authenticated
// callers are keyed by identity so they do not share a budget behind a proxy.
func extractIdentifier(c *gin.Context) string {
	if id := c.GetString(CtxNodeID); id != "" {
		return "node:" + id
	}
	if op := c.GetString(CtxOperator); op != "" {
		return "operator:" + op
	}
	return c.ClientIP()
}
