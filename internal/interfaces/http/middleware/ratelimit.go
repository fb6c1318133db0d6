package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"ai-story-api/internal/config"
	"ai-story-api/internal/interfaces/http/dto"
	apperrors "ai-story-api/pkg/errors"
	"ai-story-api/pkg/logger"
	"ai-story-api/pkg/metrics"
)

// RateLimiter 限流器接口
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// KeyFunc 根据请求构建限流 Key
type KeyFunc func(c *gin.Context) string

// EndpointKey 按端点与客户端 IP 限流，不同路由前缀共享同一配额
func EndpointKey(endpoint string) KeyFunc {
	return func(c *gin.Context) string {
		return "ratelimit:" + endpoint + ":" + c.ClientIP()
	}
}

// RateLimit 限流中间件；限流器故障时放行
func RateLimit(cfg config.RateLimitConfig, limiter RateLimiter, keyFn KeyFunc) gin.HandlerFunc {
	if !cfg.Enabled || limiter == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	if cfg.Requests <= 0 {
		cfg.Requests = 10
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if keyFn == nil {
		keyFn = EndpointKey("default")
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		allowed, err := limiter.Allow(ctx, keyFn(c), cfg.Requests, cfg.Window)
		if err != nil {
			logger.Warn(ctx, "rate limiter unavailable, allowing request", "error", err.Error())
			c.Next()
			return
		}

		if !allowed {
			metrics.RateLimitRejected.WithLabelValues(c.FullPath()).Inc()
			c.Header("Retry-After", strconv.Itoa(int(cfg.Window.Seconds())))
			dto.Abort(c, apperrors.ErrTooManyRequests.WithDetail("rate limit exceeded"))
			return
		}

		c.Next()
	}
}
