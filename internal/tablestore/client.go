// Package tablestore implements the store ports on Redis. Every call is its own round trip,
// so a transactional scope is emulated with compensating writes and is not atomic.
package tablestore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewClient parses a redis:// URL and pings the server.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	opt.ReadTimeout = 2 * time.Second
	opt.WriteTimeout = 2 * time.Second

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("client.Ping: %w", err)
	}

	return client, nil
}

func nextID(ctx context.Context, rdb redis.Cmdable, table string) (int64, error) {
	id, err := rdb.Incr(ctx, seqKey(table)).Result()
	if err != nil {
		return 0, fmt.Errorf("rdb.Incr[%s]: %w", table, err)
	}
	return id, nil
}
