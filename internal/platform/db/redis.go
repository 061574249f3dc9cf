package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// OpenRedis connects to Redis, retrying while the server comes up.
func OpenRedis(ctx context.Context, addr string, attempts int) (*redis.Client, error) {
	if attempts < 1 {
		attempts = 1
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	for i := 0; i < attempts; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			return client, nil
		}

		slog.Info("waiting for redis", "addr", addr, "attempt", i+1, "of", attempts, "error", err)
		if i+1 == attempts {
			break
		}
		select {
		case <-ctx.Done():
			client.Close()
			return nil, fmt.Errorf("openRedis: %w", ctx.Err())
		case <-time.After(time.Second):
		}
	}

	client.Close()
	return nil, fmt.Errorf("openRedis: no response from %s after %d attempts", addr, attempts)
}
