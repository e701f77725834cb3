package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LoginRateLimiter throttles login attempts with a fixed-window
// counter in Redis keyed by email and client address. When Redis is
// unreachable the limiter degrades open: login must keep working
// without it.
type LoginRateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	logger *zap.Logger
}

// NewLoginRateLimiter builds a limiter; a nil client disables it.
func NewLoginRateLimiter(client *redis.Client, limit int, window time.Duration, logger *zap.Logger) *LoginRateLimiter {
	return &LoginRateLimiter{
		client: client,
		limit:  int64(limit),
		window: window,
		logger: logger,
	}
}

// Allow reports whether another attempt for key is permitted within
// the current window.
func (l *LoginRateLimiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.client == nil || l.limit <= 0 {
		return true
	}
	redisKey := "login_attempts:" + key
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		l.logger.Warn("login rate limiter unavailable", zap.Error(err))
		return true
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			l.logger.Warn("login rate limiter expire failed", zap.Error(err))
		}
	}
	return count <= l.limit
}
