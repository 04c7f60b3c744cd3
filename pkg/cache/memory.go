package cache

import (
	"context"
	"sort"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
)

type entry struct {
	value   []byte
	expires time.Time
}

// Memory is a process-local cache. When full it drops the tenth of its
// entries closest to expiry before inserting.
type Memory struct {
	entries    *xsync.Map[string, entry]
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

func NewMemory(ttl time.Duration, maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &Memory{
		entries:    xsync.NewMap[string, entry](),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	e, ok := m.entries.Load(key)
	if !ok {
		return nil, false
	}
	if !m.now().Before(e.expires) {
		m.entries.Delete(key)
		return nil, false
	}
	return e.value, true
}

func (m *Memory) Set(_ context.Context, key string, value []byte) {
	if m.ttl <= 0 {
		return
	}
	if _, exists := m.entries.Load(key); !exists && m.entries.Size() >= m.maxEntries {
		m.evict()
	}
	m.entries.Store(key, entry{value: value, expires: m.now().Add(m.ttl)})
}

// Len reports the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	return m.entries.Size()
}

func (m *Memory) Close() error {
	m.entries.Clear()
	return nil
}

// evict removes expired entries, then the oldest 10% if still at capacity.
func (m *Memory) evict() {
	now := m.now()
	type aged struct {
		key     string
		expires time.Time
	}
	var live []aged
	m.entries.Range(func(k string, e entry) bool {
		if !now.Before(e.expires) {
			m.entries.Delete(k)
			return true
		}
		live = append(live, aged{key: k, expires: e.expires})
		return true
	})
	if len(live) < m.maxEntries {
		return
	}

	sort.Slice(live, func(i, j int) bool { return live[i].expires.Before(live[j].expires) })
	n := max(len(live)/10, 1)
	for _, a := range live[:n] {
		m.entries.Delete(a.key)
	}
}
