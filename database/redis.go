package database

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/jonwraymond/healthkit/health"
)

// RedisPinger is satisfied by every go-redis client type.
type RedisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// RedisIndicator probes a Redis server with PING.
type RedisIndicator struct {
	name   string
	client RedisPinger
}

// NewRedisIndicator creates an indicator for a go-redis client.
func NewRedisIndicator(name string, client RedisPinger) *RedisIndicator {
	return &RedisIndicator{name: name, client: client}
}

// Name returns the name of this indicator.
func (r *RedisIndicator) Name() string {
	return r.name
}

// Check sends PING and expects no error.
func (r *RedisIndicator) Check(ctx context.Context) health.Detail {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return down(err)
	}
	return health.Up()
}

var _ health.Indicator = (*RedisIndicator)(nil)
