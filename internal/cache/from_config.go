package cache

import (
	"context"
	"strings"
	"time"

	"comment-archiver-go/internal/config"
	"comment-archiver-go/internal/logger"
)

// NewFromConfig returns nil when caching is disabled. An unreachable redis
// falls back to memory.
func NewFromConfig(cfg config.Config) Cache {
	switch strings.ToLower(strings.TrimSpace(cfg.CacheBackend)) {
	case "none", "disabled", "off":
		return nil
	case "redis":
		addr := strings.TrimSpace(cfg.RedisAddr)
		if addr == "" {
			logger.Warn("REDIS_ADDR is empty, using memory cache")
			return NewMemoryCache()
		}
		rc := NewRedisCache(RedisOptions{
			Addr:     addr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisKeyPrefix,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rc.Ping(ctx); err != nil {
			logger.Warn("redis unavailable, using memory cache", "addr", addr, "err", err)
			_ = rc.Close()
			return NewMemoryCache()
		}
		return rc
	default:
		return NewMemoryCache()
	}
}

// DefaultTTL is CACHE_DEFAULT_TTL_SEC, or ten minutes when unset.
func DefaultTTL(cfg config.Config) time.Duration {
	if cfg.CacheDefaultTTLSec <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(cfg.CacheDefaultTTLSec) * time.Second
}
