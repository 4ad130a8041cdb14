package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pocketclass/models"
	"pocketclass/utils"

	"github.com/go-redis/redis/v8"
)

// CheckoutStore keeps pending checkouts until they are confirmed or expire.
type CheckoutStore interface {
	Save(ctx context.Context, pc *models.PendingCheckout, ttl time.Duration) error
	Get(ctx context.Context, id string) (*models.PendingCheckout, error)
	Delete(ctx context.Context, id string) error
}

type RedisCheckoutStore struct {
	client *redis.Client
}

func NewRedisCheckoutStore(client *redis.Client) *RedisCheckoutStore {
	return &RedisCheckoutStore{client: client}
}

func (s *RedisCheckoutStore) Save(ctx context.Context, pc *models.PendingCheckout, ttl time.Duration) error {
	b, err := json.Marshal(pc)
	if err != nil {
		return fmt.Errorf("marshal checkout: %w", err)
	}
	return s.client.Set(ctx, utils.CheckoutCachePrefix+pc.ID, b, ttl).Err()
}

func (s *RedisCheckoutStore) Get(ctx context.Context, id string) (*models.PendingCheckout, error) {
	data, err := s.client.Get(ctx, utils.CheckoutCachePrefix+id).Bytes()
	if err == redis.Nil {
		return nil, ErrCheckoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load checkout %s: %w", id, err)
	}
	var pc models.PendingCheckout
	if err := json.Unmarshal(data, &pc); err != nil {
		return nil, fmt.Errorf("unmarshal checkout %s: %w", id, err)
	}
	return &pc, nil
}

func (s *RedisCheckoutStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, utils.CheckoutCachePrefix+id).Err()
}
