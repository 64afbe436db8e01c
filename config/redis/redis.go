package redis

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/redis/go-redis/v9"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

// GetRedisClient returns a singleton Redis client, or an error when
// REDIS_URL is missing or the server is unreachable.
func GetRedisClient(ctx context.Context) (*redis.Client, error) {
	redisOnce.Do(func() {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			return
		}

		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Printf("Invalid REDIS_URL: %v", err)
			return
		}

		client := redis.NewClient(opt)
		if _, err := client.Ping(ctx).Result(); err != nil {
			log.Printf("Failed to connect to Redis: %v", err)
			return
		}

		redisClient = client
		log.Println("Connected to Redis")
	})

	if redisClient == nil {
		return nil, fmt.Errorf("redis client not initialized; check REDIS_URL and connectivity")
	}
	return redisClient, nil
}

// CloseRedis closes the Redis connection.
func CloseRedis() {
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		}
		log.Println("Redis connection closed")
	}
}
