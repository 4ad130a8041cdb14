package intelligence

import (
	"context"
	"encoding/json"
	"time"

	"pocketclass/models"
	"pocketclass/utils"

	"github.com/go-redis/redis/v8"
)

// AnalysisCache stores review analyses by text digest.
type AnalysisCache interface {
	Get(ctx context.Context, digest string) (*models.ReviewAnalysis, error)
	Set(ctx context.Context, digest string, a *models.ReviewAnalysis) error
}

type RedisAnalysisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisAnalysisCache(client *redis.Client, ttl time.Duration) *RedisAnalysisCache {
	return &RedisAnalysisCache{client: client, ttl: ttl}
}

// Get returns nil, nil on a miss.
func (s *RedisAnalysisCache) Get(ctx context.Context, digest string) (*models.ReviewAnalysis, error) {
	data, err := s.client.Get(ctx, utils.ReviewAnalysisPrefix+digest).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var a models.ReviewAnalysis
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *RedisAnalysisCache) Set(ctx context.Context, digest string, a *models.ReviewAnalysis) error {
	b, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, utils.ReviewAnalysisPrefix+digest, b, s.ttl).Err()
}
