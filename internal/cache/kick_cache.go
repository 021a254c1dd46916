package cache

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/eko/gocache/lib/v4/codec"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/kickit-app/kickit/internal/config"
	"github.com/kickit-app/kickit/pkg/kickit"
)

// KickListCachePrefix prefixes the per-user kick list keys.
const KickListCachePrefix = "kicks:user:"

// KickCache caches the kick list of each user. A nil *KickCache is a valid
// disabled cache.
type KickCache struct {
	lists *PrefixedCache[[]kickit.Kick]
	ttl   time.Duration
}

// NewKickCache creates the kick list cache for cfg. It returns nil when
// caching is disabled.
func NewKickCache(cfg *config.CacheConfig) (*KickCache, error) {
	if cfg == nil || cfg.Type == config.CacheTypeNone {
		return nil, nil
	}

	ttl := cfg.CacheTTL()
	var c *KickCache
	switch cfg.Type {
	case config.CacheTypeRedis:
		rc, err := newRedisCache(cfg)
		if err != nil {
			return nil, err
		}
		c = &KickCache{lists: NewPrefixedCache[[]kickit.Kick](rc, KickListCachePrefix), ttl: ttl}
	default:
		c = &KickCache{lists: NewPrefixedCache[[]kickit.Kick](newMemoryCache(ttl), KickListCachePrefix), ttl: ttl}
	}

	log.Debug("kick list cache enabled", "type", c.lists.GetType(), "ttl", ttl)
	return c, nil
}

// List returns the cached list for userID. Misses and backend errors both
// report false; backend errors are logged.
func (c *KickCache) List(ctx context.Context, userID string) ([]kickit.Kick, bool) {
	if c == nil || userID == "" {
		return nil, false
	}
	kicks, err := c.lists.Get(ctx, userID)
	if err != nil {
		if !isNotFound(err) {
			log.Warn("failed to read kick list from cache", "user_id", userID, "error", err)
		}
		return nil, false
	}
	return kicks, true
}

// SetList stores the list for userID.
func (c *KickCache) SetList(ctx context.Context, userID string, kicks []kickit.Kick) {
	if c == nil || userID == "" {
		return
	}
	if err := c.lists.Set(ctx, userID, kicks, store.WithExpiration(c.ttl)); err != nil {
		log.Warn("failed to write kick list to cache", "user_id", userID, "error", err)
	}
}

// Invalidate drops the cached list of userID so the next read reloads it.
func (c *KickCache) Invalidate(ctx context.Context, userID string) {
	if c == nil || userID == "" {
		return
	}
	if err := c.lists.Delete(ctx, userID); err != nil && !isNotFound(err) {
		log.Warn("failed to invalidate kick list cache", "user_id", userID, "error", err)
	}
}

// Clear drops every cached list.
func (c *KickCache) Clear(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.lists.Clear(ctx)
}

// Stats returns hit and miss counters of the cache.
func (c *KickCache) Stats() *codec.Stats {
	if c == nil {
		return &codec.Stats{}
	}
	return c.lists.GetStats()
}

func isNotFound(err error) bool {
	return errors.Is(err, store.NotFound{})
}
