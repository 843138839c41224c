package cache

import (
	"sync"
	"time"
)

type Option func(c *Cache)

func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// Cache is a lock-guarded set of keys, each living until its expiration time.
// Expired keys stay in memory until the next Sweep.
type Cache struct {
	store map[string]time.Time
	lock  *sync.Mutex
	now   func() time.Time
}

func New(opts ...Option) *Cache {
	c := &Cache{
		store: map[string]time.Time{},
		lock:  &sync.Mutex{},
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetIfAbsent stores key only if it holds no live entry and reports whether it did.
func (c *Cache) SetIfAbsent(key string, lifeTime time.Duration) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	now := c.now()
	expiredAt, ok := c.store[key]
	if ok && !expired(expiredAt, now) {
		return false
	}

	c.store[key] = now.Add(lifeTime)
	return true
}

// Sweep drops expired keys and returns how many were removed.
func (c *Cache) Sweep() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	now := c.now()
	removed := 0
	for key, expiredAt := range c.store {
		if expired(expiredAt, now) {
			delete(c.store, key)
			removed++
		}
	}
	return removed
}

func (c *Cache) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return len(c.store)
}

func expired(expiredAt time.Time, now time.Time) bool {
	return !now.Before(expiredAt)
}
