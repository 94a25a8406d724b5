package sidecar

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/heartmarshall/slide-atlas/internal/domain"
)

// bundleCache memoizes resolved bundles by descriptor name. An entry is served
// only while the descriptor and narrative modification times are unchanged.
// Concurrent misses for one name share a single load.
type bundleCache struct {
	mu      sync.RWMutex
	entries map[string]*loadedBundle
	group   singleflight.Group
}

func newBundleCache() *bundleCache {
	return &bundleCache{entries: make(map[string]*loadedBundle)}
}

func (c *bundleCache) resolve(ctx context.Context, s *Service, ref, name string) (*domain.SidecarBundle, error) {
	if b, ok := c.fresh(ctx, s, ref, name); ok {
		return b, nil
	}

	ch := c.group.DoChan(name, func() (any, error) {
		// A flight may start right after another filled the entry.
		if b, ok := c.fresh(ctx, s, ref, name); ok {
			return b, nil
		}

		loaded, err := s.load(context.WithoutCancel(ctx), ref, name, true)
		if err != nil {
			c.forget(name)
			return nil, err
		}

		c.mu.Lock()
		c.entries[name] = loaded
		c.mu.Unlock()

		s.log.DebugContext(ctx, "bundle cached", slog.String("bundle", ref))
		b := loaded.bundle
		return &b, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		b := *res.Val.(*domain.SidecarBundle)
		b.Ref = ref
		return &b, nil
	}
}

// fresh returns a copy of the cached bundle when both files still carry the
// recorded modification times.
func (c *bundleCache) fresh(ctx context.Context, s *Service, ref, name string) (*domain.SidecarBundle, bool) {
	c.mu.RLock()
	entry, ok := c.entries[name]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	info, err := s.assets.Stat(ctx, name)
	if err != nil || !info.ModTime.Equal(entry.bundleMod) {
		return nil, false
	}
	info, err = s.assets.Stat(ctx, entry.narrative)
	if err != nil || !info.ModTime.Equal(entry.narrativeMod) {
		return nil, false
	}

	b := entry.bundle
	b.Ref = ref
	return &b, true
}

func (c *bundleCache) forget(name string) {
	c.mu.Lock()
	delete(c.entries, name)
	c.mu.Unlock()
}
