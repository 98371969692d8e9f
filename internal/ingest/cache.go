package ingest

import (
	"context"
	"sync"
	"sync/atomic"
)

// Cache holds the last built Result, keyed by the combined checksum of its
// source tables and the pipeline settings that built it. Readers get the current snapshot without locking; Refresh
// builds a new Result off to the side and swaps it in. A Result is never
// modified after it is stored.
type Cache struct {
	mu      sync.Mutex // serializes Refresh
	current atomic.Pointer[Result]
}

// Get returns the current snapshot, or nil before the first Refresh.
func (c *Cache) Get() *Result {
	return c.current.Load()
}

// Refresh reloads every source. When the checksum and settings match the
// current snapshot, that snapshot is returned and built is false. On error the
// current snapshot stays in place.
func (c *Cache) Refresh(ctx context.Context, p *Pipeline) (res *Result, built bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tables, err := p.Load(ctx)
	if err != nil {
		return nil, false, err
	}
	if cur := c.current.Load(); cur != nil && cur.key == p.cacheKey(tables.Checksum) {
		return cur, false, nil
	}

	res, err = p.Build(tables)
	if err != nil {
		return nil, false, err
	}
	c.current.Store(res)
	return res, true, nil
}

// Invalidate drops the snapshot so the next Refresh rebuilds.
func (c *Cache) Invalidate() {
	c.current.Store(nil)
}
