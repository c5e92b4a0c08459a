package infrastructure

import (
	"context"
	"errors"
	"time"

	"github.com/r-miyahara/devices-api/internal/config"
	appLogger "github.com/r-miyahara/devices-api/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when a key does not exist in the cache.
var ErrCacheMiss = errors.New("cache miss")

// KeydbClient is a thin wrapper around go-redis tuned for KeyDB, used by
// the durable idempotency repository.
type KeydbClient struct {
	client *redis.Client
	logger appLogger.Logger
}

func NewKeydbClient(cfg config.Cache, log appLogger.Logger) *KeydbClient {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           int(cfg.DB),
		PoolSize:     int(cfg.PoolSize),
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	return &KeydbClient{client: client, logger: log}
}

func (c *KeydbClient) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *KeydbClient) Close() error {
	return c.client.Close()
}

func (c *KeydbClient) Get(ctx context.Context, key string) (string, error) {
	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheMiss
		}

		c.logger.Error().Err(err).Str("key", key).Msg("keydb get failed")

		return "", err
	}

	return value, nil
}

// SetNX stores value under key only when the key is absent, applying ttl.
// Returns whether the claim succeeded.
func (c *KeydbClient) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	claimed, err := c.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		c.logger.Error().Err(err).Str("key", key).Msg("keydb setnx failed")

		return false, err
	}

	return claimed, nil
}

func (c *KeydbClient) Delete(ctx context.Context, keys ...string) (int64, error) {
	return c.client.Del(ctx, keys...).Result()
}

// GetInt64 reads an integer value along with the server time, as the GCRA
// rate limiter store contract requires.
func (c *KeydbClient) GetInt64(ctx context.Context, key string) (int64, time.Time, error) {
	pipe := c.client.Pipeline()
	getCmd := pipe.Get(ctx, key)
	timeCmd := pipe.Time(ctx)

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return 0, time.Time{}, err
	}

	now, err := timeCmd.Result()
	if err != nil {
		return 0, time.Time{}, err
	}

	value, err := getCmd.Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return -1, now, nil
		}

		return 0, time.Time{}, err
	}

	return value, now, nil
}

func (c *KeydbClient) SetInt64NX(ctx context.Context, key string, value int64, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, key, value, ttl).Result()
}

// CompareAndSwapInt64 atomically replaces old with new under key, keeping
// ttl, and reports whether the swap happened.
func (c *KeydbClient) CompareAndSwapInt64(ctx context.Context, key string, old, new int64, ttl time.Duration) (bool, error) {
	result, err := compareAndSwapScript.Run(ctx, c.client, []string{key}, old, new, int64(ttl/time.Millisecond)).Int64()
	if err != nil {
		return false, err
	}

	return result == 1, nil
}

var compareAndSwapScript = redis.NewScript(`
local current = redis.call("GET", KEYS[1])
if current == false then
	return 0
end
if current ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
else
	redis.call("SET", KEYS[1], ARGV[2])
end
return 1
`)
