package modgraph

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// metadataCache deduplicates and bounds metadata lookups against the source.
// Prefetches run on a size-limited errgroup so registering a large candidate
// pool does not serialize on the source; per-component errors are stored in
// the entry rather than failing the group.
type metadataCache struct {
	source MetadataSource
	group  *errgroup.Group

	mu      sync.Mutex
	entries map[ComponentID]*metadataEntry
}

type metadataEntry struct {
	done chan struct{}
	md   *ComponentMetadata
	err  error
}

func newMetadataCache(source MetadataSource, concurrency int) *metadataCache {
	g := &errgroup.Group{}
	g.SetLimit(concurrency)
	return &metadataCache{
		source:  source,
		group:   g,
		entries: make(map[ComponentID]*metadataEntry),
	}
}

// prefetch starts an asynchronous lookup if none is in flight for id.
func (c *metadataCache) prefetch(ctx context.Context, id ComponentID) {
	c.entry(ctx, id)
}

// get returns the metadata for id, waiting for an in-flight lookup when
// necessary.
func (c *metadataCache) get(ctx context.Context, id ComponentID) (*ComponentMetadata, error) {
	e := c.entry(ctx, id)
	select {
	case <-e.done:
		return e.md, e.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *metadataCache) entry(ctx context.Context, id ComponentID) *metadataEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[id]; ok {
		return e
	}
	e := &metadataEntry{done: make(chan struct{})}
	c.entries[id] = e
	c.group.Go(func() error {
		defer close(e.done)
		md, err := c.source.Lookup(ctx, id)
		if err != nil {
			e.err = err
			return nil
		}
		e.md = md.normalized()
		return nil
	})
	return e
}

// wait blocks until all in-flight lookups finish. Workers store their
// errors in the entries, so the group itself never fails.
func (c *metadataCache) wait() {
	_ = c.group.Wait()
}
