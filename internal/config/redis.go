package config

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds the client backing the response cache and the
// rate limiter. REDIS_URL (redis:// or rediss://) wins when set; otherwise
// REDIS_ADDR / REDIS_PASSWORD / REDIS_DB are read individually. The client
// is optional infrastructure: when the server cannot be reached the
// function returns nil and both middlewares degrade to pass-throughs.
func NewRedisClient() *redis.Client {
	opts, err := redisOptions()
	if err != nil {
		log.Printf("redis: bad REDIS_URL: %v", err)
		return nil
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}

func redisOptions() (*redis.Options, error) {
	if url := os.Getenv("REDIS_URL"); url != "" {
		return redis.ParseURL(url)
	}
	return &redis.Options{
		Addr:     getenv("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       atoi(getenv("REDIS_DB", "0")),
	}, nil
}
