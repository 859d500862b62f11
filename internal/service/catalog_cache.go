package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	cacheKeyPublished = "cache:catalog:published"
	cacheKeyPick2     = "cache:catalog:pick2"
)

// CatalogCache is the Redis read-through cache for public catalog queries.
// A nil client disables caching; every miss path falls through to the store.
// It satisfies mirror.CacheInvalidator so publishes drop stale entries.
type CatalogCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCatalogCache(rdb *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{rdb: rdb, ttl: ttl}
}

func (c *CatalogCache) GetPublished(ctx context.Context) ([]model.CatalogOption, bool) {
	return c.get(ctx, cacheKeyPublished)
}

func (c *CatalogCache) SetPublished(ctx context.Context, opts []model.CatalogOption) {
	c.set(ctx, cacheKeyPublished, opts)
}

func (c *CatalogCache) GetPick2(ctx context.Context) ([]model.CatalogOption, bool) {
	return c.get(ctx, cacheKeyPick2)
}

func (c *CatalogCache) SetPick2(ctx context.Context, opts []model.CatalogOption) {
	c.set(ctx, cacheKeyPick2, opts)
}

// InvalidateCatalog drops every cached public view after a mirror write.
func (c *CatalogCache) InvalidateCatalog(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, cacheKeyPublished, cacheKeyPick2).Err(); err != nil {
		log.Warn().Err(err).Msg("catalog cache: invalidation failed")
	}
}

func (c *CatalogCache) get(ctx context.Context, key string) ([]model.CatalogOption, bool) {
	if c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var opts []model.CatalogOption
	if err := json.Unmarshal(raw, &opts); err != nil {
		return nil, false
	}
	return opts, true
}

func (c *CatalogCache) set(ctx context.Context, key string, opts []model.CatalogOption) {
	if c.rdb == nil {
		return
	}
	raw, err := json.Marshal(opts)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("catalog cache: set failed")
	}
}
