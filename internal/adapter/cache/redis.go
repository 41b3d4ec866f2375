package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/BillyHamid/backendGlobal/internal/logger"
	"github.com/go-redis/redis/v8"
)

// NewRedisClient connects to redis when an address is configured. A nil client
// (empty address) means caching is disabled and callers must tolerate it.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}

	logger.Info("redis cache connected", logger.Fields{
		"addr": addr,
		"db":   db,
	})

	return client, nil
}
