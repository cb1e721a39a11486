package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiterConfig holds configuration for the rate limiter.
type RateLimiterConfig struct {
	RequestsPerSecond float64
	BurstCapacity     int
}

// tokenBucket refills at ARGV[1] tokens per second up to ARGV[2] tokens and
// takes one token per call. ARGV[3] is the current time in milliseconds and
// ARGV[4] the idle expiry in seconds. Bucket state is {last_refill, tokens}.
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

local bucket = redis.call('HMGET', key, 'last_refill', 'tokens')
local last_refill = tonumber(bucket[1]) or now
local tokens = tonumber(bucket[2]) or capacity

local elapsed = math.max(0, now - last_refill) / 1000
tokens = math.min(capacity, tokens + elapsed * rate)

local allowed = 0
if tokens >= 1 then
	tokens = tokens - 1
	allowed = 1
end

redis.call('HSET', key, 'last_refill', ARGV[3], 'tokens', tostring(tokens))
redis.call('EXPIRE', key, ARGV[4])
return allowed
`)

// RateLimiter limits requests per method, path and client IP with a token
// bucket kept in Redis. Redis failures let the request through.
type RateLimiter struct {
	client *redis.Client
	config RateLimiterConfig
	log    *zap.Logger
	now    func() time.Time
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(client *redis.Client, config RateLimiterConfig, log *zap.Logger) *RateLimiter {
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = 10
	}
	if config.BurstCapacity <= 0 {
		config.BurstCapacity = 20
	}
	return &RateLimiter{client: client, config: config, log: log, now: time.Now}
}

// ttlSeconds is how long an idle bucket lives: the time to refill completely, plus one second.
func (rl *RateLimiter) ttlSeconds() int {
	return int(math.Ceil(float64(rl.config.BurstCapacity)/rl.config.RequestsPerSecond)) + 1
}

// Middleware returns the gin handler. A nil RateLimiter allows everything.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || rl.client == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:tb:%s:%s:%s", c.Request.Method, c.FullPath(), c.ClientIP())
		allowed, err := tokenBucket.Run(c.Request.Context(), rl.client, []string{key},
			rl.config.RequestsPerSecond,
			rl.config.BurstCapacity,
			rl.now().UnixMilli(),
			rl.ttlSeconds(),
		).Int64()
		if err != nil {
			rl.log.Warn("rate limiter redis error, allowing request",
				zap.String("key", key),
				zap.Error(err),
			)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.BurstCapacity))
		if allowed == 0 {
			rl.log.Warn("rate limit exceeded", zap.String("key", key))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limit_exceeded",
				"mensaje": fmt.Sprintf("Límite de solicitudes excedido: %.2f por segundo (ráfaga máxima %d).", rl.config.RequestsPerSecond, rl.config.BurstCapacity),
			})
			return
		}

		c.Next()
	}
}
