package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/RagdeMoises/mars-front-mayor-2025/internal/domain"
)

const redisCartKey = "storefront:cart"

// RedisStore persists the cart as a single JSON value under a fixed
// key, whole-value replace on every save.
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisStore(client *redis.Client, logger *zap.Logger) *RedisStore {
	return &RedisStore{client: client, logger: logger}
}

func (s *RedisStore) Load(ctx context.Context) ([]domain.LineItem, error) {
	data, err := s.client.Get(ctx, redisCartKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return []domain.LineItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var items []domain.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn("discarding malformed cart value", zap.Error(err))
		return []domain.LineItem{}, nil
	}
	return items, nil
}

func (s *RedisStore) Save(ctx context.Context, items []domain.LineItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	if err := s.client.Set(ctx, redisCartKey, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}
