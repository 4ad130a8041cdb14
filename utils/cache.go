// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"pocketclass/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient is the generic cache client.
	CacheClient *redis.Client
	// CheckoutCacheClient holds pending checkouts until they are confirmed or expire.
	CheckoutCacheClient *redis.Client
)

func newRedisClient(db int, name string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (%s): %v", name, err)
	}
	return client
}

// InitRedis initializes every Redis client used by the server.
func InitRedis() {
	GetCacheClient()
	GetCheckoutCacheClient()
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		CacheClient = newRedisClient(config.AppConfig.RedisCacheDB, "Cache")
	}
	return CacheClient
}

// GetCheckoutCacheClient returns the Redis client for pending checkouts.
func GetCheckoutCacheClient() *redis.Client {
	if CheckoutCacheClient == nil {
		CheckoutCacheClient = newRedisClient(config.AppConfig.RedisCheckoutDB, "Checkout")
	}
	return CheckoutCacheClient
}
