package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix is the storage key every session slot lives under.
const DefaultKeyPrefix = "aida_corp_client_session"

// Slot holds the serialized account of one session. Get returns nil, nil
// for an empty slot.
type Slot interface {
	Get(ctx context.Context) ([]byte, error)
	Set(ctx context.Context, value []byte) error
	Clear(ctx context.Context) error
}

// SlotStore hands out the slot for a session id.
type SlotStore interface {
	Slot(sessionID string) Slot
}

// MemorySlots keeps slots in process memory. Expired slots read as empty.
type MemorySlots struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

func NewMemorySlots(ttl time.Duration) *MemorySlots {
	return NewMemorySlotsWithClock(ttl, time.Now)
}

func NewMemorySlotsWithClock(ttl time.Duration, now func() time.Time) *MemorySlots {
	return &MemorySlots{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]memoryEntry),
	}
}

func (m *MemorySlots) Slot(sessionID string) Slot {
	return &memorySlot{store: m, id: sessionID}
}

// Len reports the number of live slots.
func (m *MemorySlots) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictLocked()
	return len(m.entries)
}

func (m *MemorySlots) evictLocked() {
	now := m.now()
	for id, e := range m.entries {
		if m.ttl > 0 && !now.Before(e.expires) {
			delete(m.entries, id)
		}
	}
}

type memorySlot struct {
	store *MemorySlots
	id    string
}

func (s *memorySlot) Get(_ context.Context) ([]byte, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	e, ok := s.store.entries[s.id]
	if !ok {
		return nil, nil
	}
	if s.store.ttl > 0 && !s.store.now().Before(e.expires) {
		delete(s.store.entries, s.id)
		return nil, nil
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

func (s *memorySlot) Set(_ context.Context, value []byte) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	s.store.evictLocked()
	v := make([]byte, len(value))
	copy(v, value)
	s.store.entries[s.id] = memoryEntry{value: v, expires: s.store.now().Add(s.store.ttl)}
	return nil
}

func (s *memorySlot) Clear(_ context.Context) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	delete(s.store.entries, s.id)
	return nil
}

// RedisSlots keeps slots in Redis so sessions survive a restart and are
// shared across replicas.
type RedisSlots struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisSlots(rdb *redis.Client, prefix string, ttl time.Duration) *RedisSlots {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisSlots{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (r *RedisSlots) Slot(sessionID string) Slot {
	return &redisSlot{rdb: r.rdb, key: r.prefix + ":" + sessionID, ttl: r.ttl}
}

type redisSlot struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

func (s *redisSlot) Get(ctx context.Context) ([]byte, error) {
	val, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

func (s *redisSlot) Set(ctx context.Context, value []byte) error {
	return s.rdb.Set(ctx, s.key, value, s.ttl).Err()
}

func (s *redisSlot) Clear(ctx context.Context) error {
	return s.rdb.Del(ctx, s.key).Err()
}
