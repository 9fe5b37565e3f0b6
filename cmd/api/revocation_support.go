package main

import (
	"context"
	"fmt"
	"log"

	redis "github.com/redis/go-redis/v9"

	"github.com/yourusername/blog-backend/internal/auth"
	"github.com/yourusername/blog-backend/internal/config"
)

// setupRevocations は REDIS_URL があれば Redis、無ければメモリ上の失効ストアを返します。
func setupRevocations(ctx context.Context, cfg *config.Config) (auth.RevocationStore, func(), error) {
	if cfg.RedisURL == "" {
		log.Printf("REDIS_URL is not set; token revocations are kept in memory")
		return auth.NewMemoryRevocationStore(), func() {}, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	redisClient := redis.NewClient(opt)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		redisClient.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	closeFn := func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("failed to close redis client: %v", err)
		}
	}
	return auth.NewRedisRevocationStore(redisClient), closeFn, nil
}
