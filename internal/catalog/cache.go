package catalog

import (
	"fmt"
	"log"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/maypok86/otter"
)

// metadataCache memoizes the parsed metadata document for one storage
// root, invalidated either explicitly (after a local mutation) or by a
// filesystem event from another process writing the same metadata.json.
type metadataCache struct {
	storageRoot string
	cache       otter.Cache[string, *Metadata]
	watcher     *fsnotify.Watcher
	stopCh      chan struct{}
	mu          sync.Mutex
}

const cacheKey = "metadata"

func newMetadataCache(storageRoot string) (*metadataCache, error) {
	c, err := otter.MustBuilder[string, *Metadata](1).
		CollectStats().
		Build()
	if err != nil {
		return nil, fmt.Errorf("catalog: create metadata cache: %w", err)
	}

	mc := &metadataCache{
		storageRoot: storageRoot,
		cache:       c,
		stopCh:      make(chan struct{}),
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		// Caching is a performance optimization, not a correctness
		// requirement (every mutating path still reloads from disk), so
		// a platform without inotify support degrades to always-miss
		// instead of failing catalog initialization.
		log.Printf("catalog: fsnotify unavailable, running without cache invalidation: %v", err)
		return mc, nil
	}
	if err := watcher.Add(storageRoot); err != nil {
		watcher.Close()
		log.Printf("catalog: watch %s: %v", storageRoot, err)
		return mc, nil
	}
	mc.watcher = watcher

	go mc.watch()
	return mc, nil
}

func (mc *metadataCache) watch() {
	for {
		select {
		case event, ok := <-mc.watcher.Events:
			if !ok {
				return
			}
			if event.Name == metadataPath(mc.storageRoot) {
				mc.invalidate()
			}
		case err, ok := <-mc.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("catalog: watcher error: %v", err)
		case <-mc.stopCh:
			return
		}
	}
}

func (mc *metadataCache) get() (*Metadata, bool) {
	return mc.cache.Get(cacheKey)
}

func (mc *metadataCache) set(m *Metadata) {
	mc.cache.Set(cacheKey, m)
}

func (mc *metadataCache) invalidate() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.cache.Delete(cacheKey)
}

func (mc *metadataCache) close() {
	if mc.watcher != nil {
		close(mc.stopCh)
		mc.watcher.Close()
	}
	mc.cache.Close()
}
