package cache

import (
	"context"
	"sync"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"

	"github.com/goliatone/go-appkit/internal/registry"
	"github.com/goliatone/go-appkit/pkg/interfaces"
)

// TypeName is the descriptor type key for the cache component.
const TypeName = "appkit.cache"

// Component provides two cache surfaces: a go-repository-cache service plus
// key serializer for decorating repositories, and a small TTL map for the
// generic key/value contract the kernel exposes to components.
type Component struct {
	service    repocache.CacheService
	serializer repocache.KeySerializer

	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]entry
}

type entry struct {
	value   any
	expires time.Time
}

var (
	_ interfaces.Cache      = (*Component)(nil)
	_ registry.Configurable = (*Component)(nil)
)

// New constructs a cache component with the given default TTL.
func New(ttl time.Duration) (*Component, error) {
	if ttl <= 0 {
		ttl = time.Minute
	}

	cfg := repocache.DefaultConfig()
	cfg.TTL = ttl
	service, err := repocache.NewCacheService(cfg)
	if err != nil {
		return nil, err
	}

	return &Component{
		service:    service,
		serializer: repocache.NewDefaultKeySerializer(),
		ttl:        ttl,
		entries:    map[string]entry{},
	}, nil
}

// Factory builds the cache component from its descriptor. Properties:
// ttl (duration string).
func Factory(_ context.Context, _ interfaces.AppContext, cfg registry.Config) (interfaces.Component, error) {
	ttl := time.Duration(0)
	if v, ok := cfg.Properties["ttl"].(string); ok && v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, err
		}
		ttl = parsed
	}
	return New(ttl)
}

// ApplyProperties implements registry.Configurable. TTL applied through the
// factory already; this only tolerates re-application.
func (c *Component) ApplyProperties(map[string]any) error { return nil }

// Service exposes the repository cache service for decorating repositories.
func (c *Component) Service() repocache.CacheService {
	return c.service
}

// Serializer exposes the cache key serializer paired with Service.
func (c *Component) Serializer() repocache.KeySerializer {
	return c.serializer
}

// Get reads a value, honoring entry expiry.
func (c *Component) Get(_ context.Context, key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expires) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set stores a value under the default TTL.
func (c *Component) Set(_ context.Context, key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, expires: time.Now().Add(c.ttl)}
	return nil
}

// Delete removes a value.
func (c *Component) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}
