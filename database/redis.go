package database

import (
	"context"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis opens the Redis client used for refresh-token storage.
func ConnectRedis() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASS"),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("Redis ping failed: %v", err)
	} else {
		log.Println("Redis connection established")
	}

	return client
}
