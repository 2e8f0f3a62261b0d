package service

import (
	"sync"

	"github.com/rs/zerolog/log"
)

type origin struct {
	remoteID string
	cacheKey string
}

// BuildContext maps origin content node IDs to RemoteFile IDs for one build run.
type BuildContext struct {
	origins map[string]origin
	mutex   *sync.RWMutex
}

func NewBuildContext() *BuildContext {
	return &BuildContext{
		origins: make(map[string]origin),
		mutex:   &sync.RWMutex{},
	}
}

func (b *BuildContext) Set(originID, remoteID, cacheKey string) {
	b.mutex.Lock()
	b.origins[originID] = origin{remoteID: remoteID, cacheKey: cacheKey}
	b.mutex.Unlock()
}

// Lookup returns the RemoteFile ID recorded for an origin node.
func (b *BuildContext) Lookup(originID string) (string, bool) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	o, ok := b.origins[originID]
	return o.remoteID, ok
}

// Unchanged reports whether originID was already recorded with the same cache key.
func (b *BuildContext) Unchanged(originID, cacheKey string) bool {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	o, ok := b.origins[originID]
	return ok && cacheKey != "" && o.cacheKey == cacheKey
}

func (b *BuildContext) Len() int {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	return len(b.origins)
}

// Reset drops all mappings. Long-lived processes call it between builds.
func (b *BuildContext) Reset() {
	b.mutex.Lock()
	n := len(b.origins)
	b.origins = make(map[string]origin)
	b.mutex.Unlock()

	log.Debug().Int("mappings", n).Msg("reset build context")
}
