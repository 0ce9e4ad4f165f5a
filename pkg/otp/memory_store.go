package otp

import (
	"context"
	"strings"
	"sync"
	"time"
)

// ExpiryGrace is how long an expired record is kept before a store may drop it,
// so that a late submission still reports Expired rather than NoPendingOtp.
const ExpiryGrace = time.Minute

// MemoryStore implements Store with a mutex-guarded map.
// It suits single-instance deployments and tests.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
	ticker  *time.Ticker
	done    chan struct{}
	once    sync.Once
}

// NewMemoryStore creates an in-memory store. A positive cleanupInterval starts
// a goroutine that drops records older than their validity plus ExpiryGrace;
// stop it with Close.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	m := &MemoryStore{
		records: make(map[string]Record),
		done:    make(chan struct{}),
	}
	if cleanupInterval > 0 {
		m.ticker = time.NewTicker(cleanupInterval)
		go m.cleanupLoop()
	}
	return m
}

func (m *MemoryStore) Put(_ context.Context, sessionID string, rec Record) error {
	if strings.TrimSpace(sessionID) == "" || rec.ValidityMinutes <= 0 {
		return ErrInvalidRecord
	}
	m.mu.Lock()
	m.records[sessionID] = rec
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) GetAndClear(_ context.Context, sessionID string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[sessionID]
	if !ok {
		return Record{}, ErrNotFound
	}
	delete(m.records, sessionID)
	return rec, nil
}

func (m *MemoryStore) Get(_ context.Context, sessionID string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[sessionID]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

// Len returns the number of stored records.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (m *MemoryStore) Close() error {
	m.once.Do(func() {
		if m.ticker != nil {
			m.ticker.Stop()
		}
		close(m.done)
	})
	return nil
}

func (m *MemoryStore) cleanupLoop() {
	for {
		select {
		case <-m.ticker.C:
			m.sweep(time.Now())
		case <-m.done:
			return
		}
	}
}

func (m *MemoryStore) sweep(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, rec := range m.records {
		if now.After(rec.ExpiresAt().Add(ExpiryGrace)) {
			delete(m.records, id)
		}
	}
}
