package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bilgisen/regionews/internal/config"
	"github.com/bilgisen/regionews/internal/models"
	"github.com/redis/go-redis/v9"
)

type RedisClient struct {
	client   *redis.Client
	prefix   string
	stateTTL time.Duration
}

func NewRedisClient(cfg *config.Config) (*RedisClient, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{
		client:   client,
		prefix:   cfg.RedisPrefix,
		stateTTL: cfg.CacheTTL,
	}, nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

func (r *RedisClient) LoadState(ctx context.Context, region string) (*models.RegionState, error) {
	data, err := r.client.Get(ctx, stateKey(r.prefix, region)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get error: %w", err)
	}

	var state models.RegionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal region state: %w", err)
	}
	return &state, nil
}

func (r *RedisClient) SaveState(ctx context.Context, state models.RegionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal region state: %w", err)
	}
	if err := r.client.Set(ctx, stateKey(r.prefix, state.Region), data, r.stateTTL).Err(); err != nil {
		return fmt.Errorf("redis set error: %w", err)
	}
	return nil
}

func (r *RedisClient) AcquireRegion(ctx context.Context, region string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, busyKey(r.prefix, region), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx error: %w", err)
	}
	return ok, nil
}

func (r *RedisClient) ReleaseRegion(ctx context.Context, region string) error {
	return r.client.Del(ctx, busyKey(r.prefix, region)).Err()
}

func (r *RedisClient) ClaimProcessed(ctx context.Context, hash string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, processedKey(r.prefix, hash), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx error: %w", err)
	}
	return ok, nil
}

func (r *RedisClient) ReleaseProcessed(ctx context.Context, hash string) error {
	return r.client.Del(ctx, processedKey(r.prefix, hash)).Err()
}

// ClearProcessed removes every published marker
func (r *RedisClient) ClearProcessed(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, processedKey(r.prefix, "*"), 0).Iterator()
	var keys []string

	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("error scanning keys: %w", err)
	}

	if len(keys) > 0 {
		if err := r.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("error deleting keys: %w", err)
		}
	}

	return nil
}
