package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/KotFed0t/invest_tracker/utils"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	redis *redis.Client
}

func NewRedisCache(redisClient *redis.Client) *RedisCache {
	return &RedisCache{redis: redisClient}
}

// Get decodes the value stored under key into dest.
// Missing, expired or undecodable entries are reported as a miss, never as an error.
func (r *RedisCache) Get(ctx context.Context, key string, dest any) bool {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "RedisCache.Get"

	res, err := r.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("failed on redis.Get", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()), slog.String("key", key))
		}
		return false
	}

	err = json.Unmarshal(res, dest)
	if err != nil {
		slog.Warn(
			"can't unmarshall cached value",
			slog.String("rqID", rqID),
			slog.String("op", op),
			slog.String("err", err.Error()),
			slog.String("key", key),
		)
		return false
	}

	return true
}

func (r *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "RedisCache.Set"

	valueJson, err := json.Marshal(value)
	if err != nil {
		slog.Error("can't marshall value", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()), slog.String("key", key))
		return fmt.Errorf("marshall cache value: %w", err)
	}

	err = r.redis.Set(ctx, key, valueJson, ttl).Err()
	if err != nil {
		slog.Error("failed on redis.Set", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()), slog.String("key", key))
		return err
	}

	return nil
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "RedisCache.Delete"

	err := r.redis.Del(ctx, key).Err()
	if err != nil {
		slog.Error("failed on redis.Del", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()), slog.String("key", key))
		return err
	}

	return nil
}
