package render

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/promptshape/promptshape/schema"
)

// CacheConfig configures the rendered-prompt cache.
type CacheConfig struct {
	// TTL bounds how long a rendered prompt stays cached.
	TTL time.Duration
	// KeyPrefix namespaces cache keys in a shared Redis.
	KeyPrefix string
}

// DefaultCacheConfig returns the default cache configuration.
func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		TTL:       time.Hour,
		KeyPrefix: "promptshape:render:",
	}
}

// Cache stores rendered prompt text in Redis keyed by schema fingerprint.
// Rendering is deterministic, so a cached entry is always byte-identical to a
// fresh render; the cache only saves the cost of re-rendering large schemas
// across processes. Cache failures degrade to rendering locally.
type Cache struct {
	rdb    *redis.Client
	config *CacheConfig
	logger *zap.Logger
}

// NewCache creates a rendered-prompt cache. A nil config uses
// DefaultCacheConfig; a nil logger defaults to zap.NewNop().
func NewCache(rdb *redis.Client, config *CacheConfig, logger *zap.Logger) *Cache {
	if config == nil {
		config = DefaultCacheConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{rdb: rdb, config: config, logger: logger}
}

// Rendered returns the schema's rendered prompt text, serving from Redis when
// possible and rendering (then caching) on a miss.
func (c *Cache) Rendered(ctx context.Context, s *schema.Schema) (string, error) {
	key := c.key(s)
	text, err := c.rdb.Get(ctx, key).Result()
	if err == nil {
		return text, nil
	}
	if !errors.Is(err, redis.Nil) {
		c.logger.Warn("render cache get failed, rendering locally",
			zap.String("schema", s.Name()), zap.Error(err))
	}

	text = Render(s)
	if err := c.rdb.Set(ctx, key, text, c.config.TTL).Err(); err != nil {
		c.logger.Warn("render cache set failed",
			zap.String("schema", s.Name()), zap.Error(err))
	}
	return text, nil
}

// Invalidate drops the cached rendering for a schema.
func (c *Cache) Invalidate(ctx context.Context, s *schema.Schema) error {
	return c.rdb.Del(ctx, c.key(s)).Err()
}

func (c *Cache) key(s *schema.Schema) string {
	return c.config.KeyPrefix + Fingerprint(s).String()
}
