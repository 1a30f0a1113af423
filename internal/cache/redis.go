package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"streakTrackerAPI/internal/streak"
)

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(ctx context.Context, redisURL string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

func (c *RedisCache) GetStreaks(ctx context.Context, userID uuid.UUID) ([]*streak.Streak, bool, error) {
	raw, err := c.client.Get(ctx, streaksKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var streaks []*streak.Streak
	if err := json.Unmarshal(raw, &streaks); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached streaks: %w", err)
	}
	return streaks, true, nil
}

func (c *RedisCache) Generation(ctx context.Context, userID uuid.UUID) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// SetStreaks stores streaks only while the user's generation still equals
// gen. The check and the write run under WATCH, so an Invalidate landing in
// between aborts the write.
func (c *RedisCache) SetStreaks(ctx context.Context, userID uuid.UUID, gen int64, streaks []*streak.Streak) error {
	raw, err := json.Marshal(streaks)
	if err != nil {
		return err
	}

	genKey := generationKey(userID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, streaksKey(userID), raw, c.ttl)
			return nil
		})
		return err
	}, genKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

func (c *RedisCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(userID))
		pipe.Del(ctx, streaksKey(userID))
		return nil
	})
	return err
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
