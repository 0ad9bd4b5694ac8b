package sessions

import (
	"context"
	"sync"
	"time"

	"zone-matrix-service/internal/domain"
)

type memoryItem struct {
	session domain.Session
	expires time.Time
}

// MemoryStore keeps serving sessions in process memory. Sessions expire
// after the idle TTL; reads and writes both refresh it. Expired entries are
// evicted lazily on access and swept on every Put.
type MemoryStore struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.Mutex
	items map[string]memoryItem
}

// NewMemoryStore builds a store with the given idle TTL. A TTL of zero or
// less means sessions never expire.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]memoryItem),
	}
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if m.expired(item) {
		delete(m.items, id)
		return nil, domain.ErrSessionNotFound
	}

	if m.ttl > 0 {
		item.expires = m.now().Add(m.ttl)
		m.items[id] = item
	}

	s := item.session
	return &s, nil
}

func (m *MemoryStore) Put(ctx context.Context, s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, item := range m.items {
		if m.expired(item) {
			delete(m.items, id)
		}
	}

	var expires time.Time
	if m.ttl > 0 {
		expires = m.now().Add(m.ttl)
	}
	m.items[s.ID] = memoryItem{session: *s, expires: expires}
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

func (m *MemoryStore) expired(item memoryItem) bool {
	return m.ttl > 0 && m.now().After(item.expires)
}
