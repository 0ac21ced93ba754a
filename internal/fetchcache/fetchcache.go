// Package fetchcache remembers which requests were already made in a session
// so that views can be revisited without fetching again.
package fetchcache

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache holds fetched values by key. Concurrent fetches of the same key
// share one call. Failed fetches are not remembered, and a fetch that was
// started before its key was invalidated or the cache reset is not stored.
type Cache[V any] struct {
	mu     sync.Mutex
	values map[string]V
	gens   map[string]uint64
	epoch  uint64
	group  *singleflight.Group
}

// stamp records the state of a key when a fetch starts.
type stamp struct {
	epoch uint64
	gen   uint64
}

// New creates an empty cache.
func New[V any]() *Cache[V] {
	return &Cache[V]{
		values: make(map[string]V),
		gens:   make(map[string]uint64),
		group:  &singleflight.Group{},
	}
}

// Fetch returns the value for key, calling fn only if key has not been
// fetched successfully yet. The boolean reports whether the value came from
// the cache.
func (c *Cache[V]) Fetch(ctx context.Context, key string, fn func(context.Context) (V, error)) (V, bool, error) {
	if v, ok := c.Lookup(key); ok {
		return v, true, nil
	}

	c.mu.Lock()
	group := c.group
	c.mu.Unlock()

	res, err, _ := group.Do(key, func() (any, error) {
		c.mu.Lock()
		if v, ok := c.values[key]; ok {
			c.mu.Unlock()
			return v, nil
		}
		started := c.stampLocked(key)
		c.mu.Unlock()

		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.stampLocked(key) == started {
			c.values[key] = v
		}
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, false, err
	}
	return res.(V), false, nil
}

func (c *Cache[V]) stampLocked(key string) stamp {
	return stamp{epoch: c.epoch, gen: c.gens[key]}
}

// Lookup returns the cached value for key without fetching.
func (c *Cache[V]) Lookup(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	return v, ok
}

// Has reports whether key has been fetched.
func (c *Cache[V]) Has(key string) bool {
	_, ok := c.Lookup(key)
	return ok
}

// Set stores v under key, replacing any earlier value. A fetch of key
// already in flight will not overwrite it.
func (c *Cache[V]) Set(key string, v V) {
	c.mu.Lock()
	c.values[key] = v
	c.gens[key]++
	c.mu.Unlock()
}

// Invalidate forgets key so the next Fetch calls through.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.values, key)
	c.gens[key]++
	group := c.group
	c.mu.Unlock()
	group.Forget(key)
}

// Reset forgets every key, including fetches still in flight.
func (c *Cache[V]) Reset() {
	c.mu.Lock()
	c.values = make(map[string]V)
	c.gens = make(map[string]uint64)
	c.epoch++
	c.group = &singleflight.Group{}
	c.mu.Unlock()
}

// Len returns the number of cached keys.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.values)
}

// ListReviewsKey identifies the reviews of a list as seen by userID.
// A zero userID is a guest.
func ListReviewsKey(listID, userID int) string {
	if userID == 0 {
		return fmt.Sprintf("list-%d-guest", listID)
	}
	return fmt.Sprintf("list-%d-%d", listID, userID)
}

// UserReviewsKey identifies the reviews written by userID.
func UserReviewsKey(userID int) string {
	return fmt.Sprintf("user-%d", userID)
}
