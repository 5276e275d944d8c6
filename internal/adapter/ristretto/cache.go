// Package ristretto keeps encoded repository snapshots in process memory.
// It is the L1 tier of the snapshot cache and serves on its own when no
// NATS server is configured.
package ristretto

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// snapshotSizeHint is the smallest encoded snapshot worth counting for
// admission; a repository with a README and a shallow tree is about this big.
const snapshotSizeHint = 1 << 10

// Cache holds encoded snapshots keyed by cache.Key. Entries are weighted by
// their encoded size, so the bound is in bytes rather than repositories.
type Cache struct {
	snapshots *ristretto.Cache[string, []byte]
}

// New creates a snapshot cache holding at most maxBytes of encoded snapshots.
func New(maxBytes int64) (*Cache, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: max(maxBytes/snapshotSizeHint*10, 1000),
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{snapshots: c}, nil
}

// NewMB creates a snapshot cache bounded to sizeMB megabytes, the unit of
// cache.l1_max_size_mb.
func NewMB(sizeMB int) (*Cache, error) {
	return New(int64(sizeMB) << 20)
}

// Get returns the encoded snapshot stored under key.
func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	snap, ok := c.snapshots.Get(key)
	if !ok {
		return nil, false, nil
	}
	return snap, true, nil
}

// Set stores an encoded snapshot until ttl expires. The write is flushed
// before returning, so a repeated extraction right after it is a hit.
// ristretto may still reject an entry larger than the whole budget.
func (c *Cache) Set(_ context.Context, key string, snap []byte, ttl time.Duration) error {
	c.snapshots.SetWithTTL(key, snap, int64(len(snap)), ttl)
	c.snapshots.Wait()
	return nil
}

// Delete evicts a snapshot, e.g. one that no longer decodes.
func (c *Cache) Delete(_ context.Context, key string) error {
	c.snapshots.Del(key)
	return nil
}

// Close stops ristretto's background goroutines.
func (c *Cache) Close() {
	c.snapshots.Close()
}
