package contact

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/mozbe-site/pkg/logging"
)

// SubmissionLimiter caps submissions per client within a fixed window.
// A nil limiter, or one without a redis client, allows everything.
type SubmissionLimiter struct {
	redis  *redis.Client
	max    int
	window time.Duration
	logger *logging.Logger
}

// NewSubmissionLimiter allows max submissions per key per window.
func NewSubmissionLimiter(client *redis.Client, max int, window time.Duration, logger *logging.Logger) *SubmissionLimiter {
	if logger == nil {
		logger = logging.Default()
	}
	return &SubmissionLimiter{redis: client, max: max, window: window, logger: logger}
}

// Allow counts one submission for key and reports whether it is within the
// limit. Redis failures fail open.
func (l *SubmissionLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l == nil || l.redis == nil || l.max <= 0 {
		return true, nil
	}
	ctx, span := contactTracer.Start(ctx, "contact.velocity")
	defer span.End()

	redisKey := fmt.Sprintf("contact:submissions:%s", key)
	count, err := l.redis.Incr(ctx, redisKey).Result()
	if err != nil {
		l.logger.Error("contact: velocity check failed", "error", err, "key", redisKey)
		return true, fmt.Errorf("contact: velocity incr: %w", err)
	}
	if count == 1 {
		l.redis.Expire(ctx, redisKey, l.window)
	}

	allowed := count <= int64(l.max)
	span.SetAttributes(
		attribute.Int64("contact.submission_count", count),
		attribute.Bool("velocity.exceeded", !allowed),
	)
	if !allowed {
		l.logger.Warn("contact: submission velocity exceeded", "key", key, "count", count, "max", l.max)
	}
	return allowed, nil
}

// Refund gives back one submission for key, for forwards that failed
// upstream. The counter never drops below zero.
func (l *SubmissionLimiter) Refund(ctx context.Context, key string) error {
	if l == nil || l.redis == nil || l.max <= 0 {
		return nil
	}
	redisKey := fmt.Sprintf("contact:submissions:%s", key)
	count, err := l.redis.Decr(ctx, redisKey).Result()
	if err != nil {
		return fmt.Errorf("contact: velocity decr: %w", err)
	}
	if count <= 0 {
		if err := l.redis.Del(ctx, redisKey).Err(); err != nil {
			return fmt.Errorf("contact: velocity del: %w", err)
		}
	}
	return nil
}
