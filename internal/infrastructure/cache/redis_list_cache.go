package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	appmasterdata "github.com/bizcore/backend/internal/application/masterdata"
	"github.com/bizcore/backend/internal/domain/masterdata"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

const listVersionKey = "masterdata:list:version"

// RedisListCache implements the list cache on Redis for distributed
// deployments. Entries are stored under a namespace version; InvalidateAll
// bumps the version with a single INCR, orphaning every old entry at once
// instead of scanning for keys. Orphans expire through their TTL.
type RedisListCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// RedisListCacheOption is a functional option for configuring the cache
type RedisListCacheOption func(*RedisListCache)

// WithRedisTTL sets the entry TTL
func WithRedisTTL(ttl time.Duration) RedisListCacheOption {
	return func(c *RedisListCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithRedisLogger sets the logger for the cache
func WithRedisLogger(logger *zap.Logger) RedisListCacheOption {
	return func(c *RedisListCache) {
		c.logger = logger
	}
}

// NewRedisListCache creates a new Redis-backed list cache
func NewRedisListCache(cfg RedisConfig, opts ...RedisListCacheOption) (*RedisListCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	c := &RedisListCache{
		client: client,
		ttl:    defaultListTTL,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewRedisListCacheWithClient creates a cache with an existing Redis client.
// This is useful for testing or when sharing a client across components.
func NewRedisListCacheWithClient(client *redis.Client, opts ...RedisListCacheOption) *RedisListCache {
	c := &RedisListCache{
		client: client,
		ttl:    defaultListTTL,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached page for the key, if present
func (c *RedisListCache) Get(ctx context.Context, op string, scopeID uuid.UUID, kind masterdata.Kind, q masterdata.Query) (*appmasterdata.ListResult, bool) {
	key, err := c.versionedKey(ctx, op, scopeID, kind, q)
	if err != nil {
		c.logger.Warn("list cache version lookup failed", zap.Error(err))
		return nil, false
	}

	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("list cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var result appmasterdata.ListResult
	if err := json.Unmarshal(payload, &result); err != nil {
		c.logger.Warn("list cache entry corrupted", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &result, true
}

// Put stores a page under the key with the configured TTL
func (c *RedisListCache) Put(ctx context.Context, op string, scopeID uuid.UUID, kind masterdata.Kind, q masterdata.Query, result *appmasterdata.ListResult) {
	key, err := c.versionedKey(ctx, op, scopeID, kind, q)
	if err != nil {
		c.logger.Warn("list cache version lookup failed", zap.Error(err))
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn("list cache marshal failed", zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("list cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// InvalidateAll bumps the namespace version, orphaning every entry
func (c *RedisListCache) InvalidateAll(ctx context.Context) error {
	if err := c.client.Incr(ctx, listVersionKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate list cache: %w", err)
	}
	c.logger.Debug("list cache invalidated")
	return nil
}

// Close closes the Redis client
func (c *RedisListCache) Close() error {
	return c.client.Close()
}

func (c *RedisListCache) versionedKey(ctx context.Context, op string, scopeID uuid.UUID, kind masterdata.Kind, q masterdata.Query) (string, error) {
	version, err := c.client.Get(ctx, listVersionKey).Int64()
	if err != nil {
		if err != redis.Nil {
			return "", err
		}
		version = 0
	}
	return "v" + strconv.FormatInt(version, 10) + keySeparator + BuildListKey(op, scopeID, kind, q), nil
}

// Ensure RedisListCache implements ListCache
var _ appmasterdata.ListCache = (*RedisListCache)(nil)
