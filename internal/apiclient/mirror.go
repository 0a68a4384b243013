package apiclient

import (
	"strings"
	"sync"
	"time"

	"hostelhub/internal/cache"
)

type mirrorEntry struct {
	payload []byte
	expires time.Time
}

// Mirror is the per-tab response cache: normalized path + query → payload
// with an absolute expiry.
type Mirror struct {
	mu      sync.Mutex
	entries map[string]mirrorEntry
}

func NewMirror() *Mirror {
	return &Mirror{entries: make(map[string]mirrorEntry)}
}

func (m *Mirror) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expires) {
		delete(m.entries, key)
		return nil, false
	}
	return entry.payload, true
}

func (m *Mirror) Set(key string, payload []byte, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = mirrorEntry{payload: payload, expires: time.Now().Add(ttl)}
}

// InvalidateGroup drops every entry whose path matches any route pattern in
// the group.
func (m *Mirror) InvalidateGroup(group *cache.Group) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.entries {
		path := key
		if i := strings.IndexByte(key, '?'); i >= 0 {
			path = key[:i]
		}
		for _, pattern := range group.RoutePatterns {
			if pattern.MatchString(path) {
				delete(m.entries, key)
				break
			}
		}
	}
}

func (m *Mirror) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
