package api

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisRateCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// incrWithTTL increments key and arms its expiry on the first hit of a window.
func incrWithTTL(ctx context.Context, client redisRateCounter, key string, ttl time.Duration) (int64, error) {
	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		_ = client.Expire(ctx, key, ttl).Err()
	}
	return count, nil
}

// dailyQuotaKey names the per-user counter of one UTC day.
func dailyQuotaKey(scope string, userID uint, now time.Time) string {
	return fmt.Sprintf("rate:%s:%d:%s", scope, userID, now.UTC().Format("20060102"))
}
