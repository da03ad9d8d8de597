// Package redis provides a reportcache.Cache backed by Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/papercomputeco/artomo/pkg/reportcache"
)

const (
	// DefaultAddress is the local Redis server.
	DefaultAddress = "localhost:6379"

	// DefaultKeyPrefix namespaces report keys.
	DefaultKeyPrefix = "artomo:report:"
)

// Options holds configuration for connecting to Redis.
type Options struct {
	// URL is a redis:// or rediss:// URI. It takes precedence over
	// Address, Password and DB.
	URL string

	Address  string
	Password string
	DB       int

	// TTL expires reports; zero keeps them indefinitely.
	TTL time.Duration

	KeyPrefix string
}

// Cache stores reports as plain string values.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	logger *slog.Logger
}

// NewCache connects to Redis and verifies the connection with a ping.
func NewCache(ctx context.Context, o Options, logger *slog.Logger) (*Cache, error) {
	var opts *redis.Options
	if o.URL != "" {
		parsed, err := redis.ParseURL(o.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		addr := o.Address
		if addr == "" {
			addr = DefaultAddress
		}
		opts = &redis.Options{Addr: addr, Password: o.Password, DB: o.DB}
	}

	prefix := o.KeyPrefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", opts.Addr, err)
	}

	logger.Info("opened redis report cache", "address", opts.Addr, "db", opts.DB)
	return &Cache{client: client, ttl: o.TTL, prefix: prefix, logger: logger}, nil
}

func (c *Cache) key(id uuid.UUID) string {
	return c.prefix + id.String()
}

func (c *Cache) Get(ctx context.Context, id uuid.UUID) (string, error) {
	report, err := c.client.Get(ctx, c.key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return "", reportcache.ErrMiss
	}
	if err != nil {
		return "", fmt.Errorf("reading report %s: %w", id, err)
	}
	return report, nil
}

func (c *Cache) Set(ctx context.Context, id uuid.UUID, report string) error {
	if err := c.client.Set(ctx, c.key(id), report, c.ttl).Err(); err != nil {
		return fmt.Errorf("writing report %s: %w", id, err)
	}
	return nil
}

func (c *Cache) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		return fmt.Errorf("deleting report %s: %w", id, err)
	}
	return nil
}

func (c *Cache) Close() error {
	return c.client.Close()
}

var _ reportcache.Cache = (*Cache)(nil)
