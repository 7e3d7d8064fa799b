package catalog

import (
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// configEntry is one cached configuration view.
type configEntry struct {
	cfg   *ProductConfiguration
	built time.Time
}

// configCache is a TTL cache of configuration views keyed by product ID,
// with singleflight protection so concurrent storefront reads of a cold
// product trigger a single rebuild.
type configCache struct {
	mu      sync.RWMutex
	entries map[uint]*configEntry
	sf      singleflight.Group
	ttl     time.Duration
}

func newConfigCache(ttl time.Duration) *configCache {
	return &configCache{
		entries: make(map[uint]*configEntry),
		ttl:     ttl,
	}
}

func (c *configCache) expired(e *configEntry) bool {
	if c.ttl == 0 {
		return true // caching disabled
	}
	return time.Since(e.built) > c.ttl
}

// GetOrBuild returns a fresh cached view or builds one via the supplied
// function, storing the result.
func (c *configCache) GetOrBuild(productID uint, build func() (*ProductConfiguration, error)) (*ProductConfiguration, error) {
	if c.ttl == 0 {
		return build()
	}

	// Fast path
	c.mu.RLock()
	entry, exists := c.entries[productID]
	c.mu.RUnlock()

	if exists && !c.expired(entry) {
		return entry.cfg, nil
	}

	// Slow path: singleflight prevents rebuild stampedes.
	result, err, _ := c.sf.Do(strconv.FormatUint(uint64(productID), 10), func() (interface{}, error) {
		// Double-check after acquiring singleflight lock
		c.mu.RLock()
		entry, exists := c.entries[productID]
		c.mu.RUnlock()

		if exists && !c.expired(entry) {
			return entry.cfg, nil
		}

		cfg, err := build()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[productID] = &configEntry{cfg: cfg, built: time.Now()}
		c.mu.Unlock()

		return cfg, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*ProductConfiguration), nil
}

// Invalidate drops the cached view for a product. Called after every
// successful reconciliation or image attachment.
func (c *configCache) Invalidate(productID uint) {
	c.mu.Lock()
	delete(c.entries, productID)
	c.mu.Unlock()
}
