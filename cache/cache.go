package cache

import (
	"sync"
	"time"
)

type item struct {
	data      []byte
	expiredAt time.Time
}

// Cache is a byte value store with per-key lifetime and lazy expiry.
type Cache struct {
	store map[string]item
	lock  *sync.Mutex
}

func New() *Cache {
	return &Cache{
		store: map[string]item{},
		lock:  &sync.Mutex{},
	}
}

func (c *Cache) Get(key string) ([]byte, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	value, ok := c.store[key]
	if !ok {
		return nil, false
	}

	if c.now().After(value.expiredAt) {
		delete(c.store, key)
		return nil, false
	}

	return value.data, true
}

func (c *Cache) Set(key string, data []byte, lifeTime time.Duration) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.store[key] = item{
		data:      data,
		expiredAt: c.now().Add(lifeTime),
	}
}

func (c *Cache) now() time.Time {
	return time.Now()
}
