package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// fixedWindowScript counts a request and starts the window on the first hit.
// KEYS[1] = counter key, ARGV[1] = window in ms. Returns {count, ttl_ms}.
var fixedWindowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
    redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {count, ttl}
`)

// RedisLimiter is a fixed window limiter shared by every replica pointing at the
// same Redis.
type RedisLimiter struct {
	client  redis.Scripter
	limit   int
	window  time.Duration
	timeout time.Duration
	logger  *zap.SugaredLogger
}

func NewRedisLimiter(client redis.Scripter, limit int, window time.Duration, logger *zap.SugaredLogger) *RedisLimiter {
	return &RedisLimiter{
		client:  client,
		limit:   limit,
		window:  window,
		timeout: 500 * time.Millisecond,
		logger:  logger,
	}
}

// Allow fails open: a Redis error admits the request.
func (rl *RedisLimiter) Allow(key string) (bool, time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), rl.timeout)
	defer cancel()

	count, ttl, err := rl.hit(ctx, key)
	if err != nil {
		rl.logger.Warnw("rate limiter unavailable", "key", key, "error", err)
		return true, 0
	}
	if count <= int64(rl.limit) {
		return true, 0
	}
	if ttl <= 0 {
		ttl = rl.window
	}
	return false, ttl
}

func (rl *RedisLimiter) hit(ctx context.Context, key string) (int64, time.Duration, error) {
	res, err := fixedWindowScript.Run(ctx, rl.client, []string{"ratelimit:" + key}, rl.window.Milliseconds()).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to run limiter script: %w", err)
	}

	values, ok := res.([]interface{})
	if !ok || len(values) != 2 {
		return 0, 0, fmt.Errorf("unexpected limiter reply %v", res)
	}
	count, _ := values[0].(int64)
	ttl, _ := values[1].(int64)
	return count, time.Duration(ttl) * time.Millisecond, nil
}
