package ban

import (
	"context"
	"sync"
	"time"
)

type strikeEntry struct {
	count   int
	expires time.Time
}

type MemoryStore struct {
	mu      sync.Mutex
	strikes map[string]strikeEntry
	bans    map[string]time.Time
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		strikes: map[string]strikeEntry{},
		bans:    map[string]time.Time{},
		now:     time.Now,
	}
}

func (m *MemoryStore) AddStrike(_ context.Context, key string, window time.Duration) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	e, ok := m.strikes[key]
	if !ok || !now.Before(e.expires) {
		e = strikeEntry{expires: now.Add(window)}
	}
	e.count++
	m.strikes[key] = e
	return e.count, nil
}

func (m *MemoryStore) ClearStrikes(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.strikes, key)
	return nil
}

func (m *MemoryStore) Ban(_ context.Context, key string, d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bans[key] = m.now().Add(d)
	return nil
}

func (m *MemoryStore) BannedFor(_ context.Context, key string) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	until, ok := m.bans[key]
	if !ok {
		return 0, nil
	}
	remaining := until.Sub(m.now())
	if remaining <= 0 {
		delete(m.bans, key)
		return 0, nil
	}
	return remaining, nil
}
