package sessionstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/asistoya/shared-services/internal/config"
	"github.com/asistoya/shared-services/internal/core/ports"
)

const keyPrefix = "asistoya:session:"

// RedisClient is the subset of *redis.Client the storage uses.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// Redis persists sessions in Redis with a TTL, so a session outlives the
// process but not its refresh window.
type Redis struct {
	client RedisClient
	ttl    time.Duration
	cb     *gobreaker.CircuitBreaker
}

var _ ports.SessionStorage = (*Redis)(nil)

func NewRedis(client RedisClient, ttl time.Duration) *Redis {
	return &Redis{
		client: client,
		ttl:    ttl,
		cb:     config.NewCircuitBreaker("Redis-Session"),
	}
}

// NewRedisClient connects to addr without dialing.
func NewRedisClient(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
}

func (r *Redis) GetItem(ctx context.Context, key string) (string, error) {
	v, err := r.cb.Execute(func() (interface{}, error) {
		val, err := r.client.Get(ctx, keyPrefix+key).Result()
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return val, err
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (r *Redis) SetItem(ctx context.Context, key, value string) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		return nil, r.client.Set(ctx, keyPrefix+key, value, r.ttl).Err()
	})
	return err
}

func (r *Redis) RemoveItem(ctx context.Context, key string) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		return nil, r.client.Del(ctx, keyPrefix+key).Err()
	})
	return err
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
