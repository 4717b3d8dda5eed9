package cache

import (
	"time"

	appmasterdata "github.com/bizcore/backend/internal/application/masterdata"
	"github.com/bizcore/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ListCacheFactory creates list caches based on configuration
type ListCacheFactory struct {
	cacheConfig           config.CacheConfig
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// ListCacheFactoryOption is a functional option for configuring the factory
type ListCacheFactoryOption func(*ListCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) ListCacheFactoryOption {
	return func(f *ListCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory cache
// when Redis is unavailable. Default is true (allow fallback).
func WithInMemoryFallback(allow bool) ListCacheFactoryOption {
	return func(f *ListCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewListCacheFactory creates a new factory
func NewListCacheFactory(cacheCfg config.CacheConfig, redisCfg config.RedisConfig, opts ...ListCacheFactoryOption) *ListCacheFactory {
	f := &ListCacheFactory{
		cacheConfig:           cacheCfg,
		redisConfig:           redisCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Create builds the list cache the configuration asks for. A disabled cache
// yields the no-op implementation, so callers never branch on nil.
func (f *ListCacheFactory) Create() appmasterdata.ListCache {
	if !f.cacheConfig.Enabled {
		f.logger.Info("list cache disabled")
		return appmasterdata.NewNoopListCache()
	}

	ttl := time.Duration(f.cacheConfig.TTLSeconds) * time.Second

	switch f.cacheConfig.Backend {
	case "redis":
		cache, err := NewRedisListCache(RedisConfig{
			Host:     f.redisConfig.Host,
			Port:     f.redisConfig.Port,
			Password: f.redisConfig.Password,
			DB:       f.redisConfig.DB,
		}, WithRedisTTL(ttl), WithRedisLogger(f.logger))
		if err == nil {
			f.logger.Info("using redis list cache",
				zap.String("host", f.redisConfig.Host),
				zap.Int("port", f.redisConfig.Port))
			return cache
		}

		if !f.allowInMemoryFallback {
			f.logger.Error("redis list cache unavailable and fallback disabled", zap.Error(err))
			return appmasterdata.NewNoopListCache()
		}
		f.logger.Warn("redis list cache unavailable, falling back to in-memory", zap.Error(err))
		fallthrough
	case "memory", "":
		f.logger.Info("using in-memory list cache")
		return NewInMemoryListCache(WithInMemoryTTL(ttl), WithInMemoryLogger(f.logger))
	default:
		f.logger.Warn("unknown list cache backend, using in-memory",
			zap.String("backend", f.cacheConfig.Backend))
		return NewInMemoryListCache(WithInMemoryTTL(ttl), WithInMemoryLogger(f.logger))
	}
}
