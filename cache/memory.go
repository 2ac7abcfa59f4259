package cache

import (
	"container/list"
	"context"
	"sync"
)

// Memory is a least-recently-used cache bounded by the total size of its
// values.
type Memory struct {
	mu      sync.Mutex
	limit   int
	size    int
	order   *list.List
	entries map[string]*list.Element
}

type entry struct {
	key string
	val []byte
}

// NewMemory returns a cache holding at most limit bytes.
func NewMemory(limit int) *Memory {
	return &Memory{
		limit:   limit,
		order:   list.New(),
		entries: make(map[string]*list.Element),
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, ErrMiss
	}
	m.order.MoveToFront(e)
	return e.Value.(*entry).val, nil
}

// Set stores val. Values larger than the limit are not stored.
func (m *Memory) Set(_ context.Context, key string, val []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[key]; ok {
		m.remove(e)
	}
	if len(val) > m.limit {
		return nil
	}
	m.entries[key] = m.order.PushFront(&entry{key: key, val: val})
	m.size += len(val)
	for m.size > m.limit {
		m.remove(m.order.Back())
	}
	return nil
}

func (m *Memory) remove(e *list.Element) {
	ent := m.order.Remove(e).(*entry)
	delete(m.entries, ent.key)
	m.size -= len(ent.val)
}

// Len returns the number of cached values.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

// Size returns the total size of the cached values.
func (m *Memory) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.size
}
