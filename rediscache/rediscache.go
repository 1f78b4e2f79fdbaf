// Package rediscache provides a redis-backed coordinate cache for the geo
// resolver. All operations are best effort: cache errors are logged and
// swallowed so resolution never fails because redis is down.
package rediscache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/gosom/localrank/geo"
)

const keyPrefix = "localrank:geo:"

var _ geo.Cache = (*CoordinateCache)(nil)

type CoordinateCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	Logger   *zap.Logger
}

func New(opts Options) *CoordinateCache {
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	return &CoordinateCache{
		rdb:    rdb,
		ttl:    opts.TTL,
		logger: opts.Logger,
	}
}

func (c *CoordinateCache) Get(ctx context.Context, key string) (geo.Coordinate, bool) {
	data, err := c.rdb.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("coordinate cache get failed", zap.String("key", key), zap.Error(err))
		}

		return geo.Coordinate{}, false
	}

	var coord geo.Coordinate
	if err := json.Unmarshal(data, &coord); err != nil {
		return geo.Coordinate{}, false
	}

	return coord, coord.Valid()
}

func (c *CoordinateCache) Set(ctx context.Context, key string, coord geo.Coordinate) {
	data, err := json.Marshal(coord)
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, keyPrefix+key, data, c.ttl).Err(); err != nil {
		c.logger.Debug("coordinate cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Close releases the underlying redis connection.
func (c *CoordinateCache) Close() error {
	return c.rdb.Close()
}

// Ping verifies connectivity, used by runners at startup.
func (c *CoordinateCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
