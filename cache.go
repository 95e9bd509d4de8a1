package pagesmith

import (
	"sync"
	"time"
)

// SiteCache keeps the loaded site model and layouts in memory for the
// preview server, with a TTL so stale content eventually reloads even if
// the watcher misses an event.
type SiteCache struct {
	mu      sync.RWMutex
	site    *Site
	layouts *Layouts
	fetched time.Time
	ttl     time.Duration
	cfg     SiteConfig
}

// NewSiteCache creates a SiteCache for the given configuration.
func NewSiteCache(cfg SiteConfig, ttl time.Duration) *SiteCache {
	return &SiteCache{cfg: cfg, ttl: ttl}
}

func (c *SiteCache) valid() bool {
	return c.site != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read reloads from disk.
func (c *SiteCache) Invalidate() {
	c.mu.Lock()
	c.site = nil
	c.layouts = nil
	c.mu.Unlock()
}

// Get returns the cached site and layouts, reloading when stale. It
// tries a read lock first and only takes a write lock to reload.
func (c *SiteCache) Get() (*Site, *Layouts, error) {
	c.mu.RLock()
	if c.valid() {
		site, layouts := c.site, c.layouts
		c.mu.RUnlock()
		return site, layouts, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.site, c.layouts, nil
	}
	site, err := BuildSite(c.cfg)
	if err != nil {
		return nil, nil, err
	}
	layouts, err := LoadLayouts(c.cfg.LayoutsDir, c.cfg)
	if err != nil {
		return nil, nil, err
	}
	c.site = site
	c.layouts = layouts
	c.fetched = time.Now()
	return c.site, c.layouts, nil
}
