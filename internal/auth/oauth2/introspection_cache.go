// Package oauth2 provides the outbound client for the external authorization
// server: client-credentials token acquisition, token introspection and
// user-info lookup.
package oauth2

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/Recipe-Web-App/recipe-management-service/internal/auth/domain"
)

// IntrospectionCache stores introspection results keyed by the raw token
// string. Both active and inactive results are cached so repeated probes with
// a revoked token do not hit the authorization server. Results are never
// cached when the remote call itself failed.
type IntrospectionCache struct {
	cache      *gocache.Cache
	maxEntries int
}

// NewIntrospectionCache creates a cache with the given entry TTL, cleanup
// interval and maximum entry count.
func NewIntrospectionCache(ttl, cleanupInterval time.Duration, maxEntries int) *IntrospectionCache {
	return &IntrospectionCache{
		cache:      gocache.New(ttl, cleanupInterval),
		maxEntries: maxEntries,
	}
}

// Get returns the cached result for the token, if present and unexpired.
func (c *IntrospectionCache) Get(token string) (*domain.IntrospectionResult, bool) {
	v, ok := c.cache.Get(token)
	if !ok {
		return nil, false
	}
	result, ok := v.(*domain.IntrospectionResult)
	return result, ok
}

// Put stores a result. When the cache is full, expired entries are purged
// first; if it is still full the cache is reset, which only costs re-running
// introspection for live tokens.
func (c *IntrospectionCache) Put(token string, result *domain.IntrospectionResult) {
	if _, exists := c.cache.Get(token); !exists && c.cache.ItemCount() >= c.maxEntries {
		c.cache.DeleteExpired()
		if c.cache.ItemCount() >= c.maxEntries {
			c.cache.Flush()
		}
	}
	c.cache.SetDefault(token, result)
}

// Len returns the number of cached entries, including expired ones not yet
// purged.
func (c *IntrospectionCache) Len() int {
	return c.cache.ItemCount()
}
