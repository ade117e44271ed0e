package store

import (
	"context"
	"sync"
	"time"

	"aidengine/internal/eligibility"
)

// InMemoryStore keeps snapshots in process memory with TTL expiration.
// Expired entries are dropped lazily on access.
type InMemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]*Snapshot
	ttl       time.Duration
	now       func() time.Time
}

// MemoryOption configures an InMemoryStore.
type MemoryOption func(*InMemoryStore)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *InMemoryStore) {
		s.now = now
	}
}

// NewInMemoryStore creates an in-memory store whose snapshots live for ttl
// after their last update.
func NewInMemoryStore(ttl time.Duration, opts ...MemoryOption) *InMemoryStore {
	s := &InMemoryStore{
		snapshots: make(map[string]*Snapshot),
		ttl:       ttl,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) SaveQuick(_ context.Context, sessionID string, summary *eligibility.EstimationSummary) error {
	if err := validateSave(sessionID, summary); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[sessionID] = &Snapshot{
		SessionID: sessionID,
		Quick:     cloneSummary(summary),
		UpdatedAt: s.now(),
	}
	return nil
}

func (s *InMemoryStore) SaveFull(_ context.Context, sessionID string, summary *eligibility.EstimationSummary) error {
	if err := validateSave(sessionID, summary); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.live(sessionID)
	if snap == nil {
		snap = &Snapshot{SessionID: sessionID}
		s.snapshots[sessionID] = snap
	}
	snap.Full = cloneSummary(summary)
	snap.UpdatedAt = s.now()
	return nil
}

// Find returns a copy of the session's snapshot, or ErrNotFound when it is
// missing or expired.
func (s *InMemoryStore) Find(_ context.Context, sessionID string) (*Snapshot, error) {
	s.mu.RLock()
	snap, ok := s.snapshots[sessionID]
	expired := ok && s.expired(snap)
	var found *Snapshot
	if ok && !expired {
		found = snap.clone()
	}
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if expired {
		s.mu.Lock()
		// Re-check: a save may have refreshed it meanwhile.
		if cur, ok := s.snapshots[sessionID]; ok && s.expired(cur) {
			delete(s.snapshots, sessionID)
		}
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	return found, nil
}

// live returns the unexpired snapshot of sessionID. Callers hold mu.
func (s *InMemoryStore) live(sessionID string) *Snapshot {
	snap, ok := s.snapshots[sessionID]
	if !ok || s.expired(snap) {
		return nil
	}
	return snap
}

func (s *InMemoryStore) expired(snap *Snapshot) bool {
	return s.now().Sub(snap.UpdatedAt) >= s.ttl
}

var _ Store = (*InMemoryStore)(nil)
