package store

import (
	"context"
	"log/slog"

	"aidengine/internal/eligibility"
	dErrors "aidengine/pkg/domain-errors"
	"aidengine/pkg/platform/circuit"
)

// ResilientStore wraps a remote primary store with a circuit breaker and a
// local fallback. While the primary is failing, snapshots are written to and
// read from the fallback so sessions on this instance can still resume.
type ResilientStore struct {
	primary  Store
	fallback Store
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

// NewResilientStore creates a circuit-breaker-protected store.
func NewResilientStore(primary, fallback Store, breaker *circuit.Breaker, logger *slog.Logger) *ResilientStore {
	if primary == nil || fallback == nil {
		panic("store: resilient store requires primary and fallback")
	}
	if breaker == nil {
		breaker = circuit.New("snapshot_store")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ResilientStore{
		primary:  primary,
		fallback: fallback,
		breaker:  breaker,
		logger:   logger,
	}
}

func (s *ResilientStore) SaveQuick(ctx context.Context, sessionID string, summary *eligibility.EstimationSummary) error {
	if err := validateSave(sessionID, summary); err != nil {
		return err
	}
	return s.write(ctx, func(st Store) error { return st.SaveQuick(ctx, sessionID, summary) })
}

func (s *ResilientStore) SaveFull(ctx context.Context, sessionID string, summary *eligibility.EstimationSummary) error {
	if err := validateSave(sessionID, summary); err != nil {
		return err
	}
	return s.write(ctx, func(st Store) error { return st.SaveFull(ctx, sessionID, summary) })
}

// Find prefers the primary. A session the primary does not know may have
// been saved locally during an outage, so the fallback is consulted too.
func (s *ResilientStore) Find(ctx context.Context, sessionID string) (*Snapshot, error) {
	if !s.breaker.Allow() {
		return s.fallback.Find(ctx, sessionID)
	}

	snap, err := s.primary.Find(ctx, sessionID)
	switch {
	case err == nil:
		s.succeeded(ctx)
		return snap, nil
	case dErrors.HasCode(err, dErrors.CodeNotFound):
		s.succeeded(ctx)
		return s.fallback.Find(ctx, sessionID)
	}

	s.failed(ctx, err)
	local, localErr := s.fallback.Find(ctx, sessionID)
	if localErr != nil {
		return nil, err
	}
	return local, nil
}

func (s *ResilientStore) write(ctx context.Context, save func(Store) error) error {
	if !s.breaker.Allow() {
		return save(s.fallback)
	}
	if err := save(s.primary); err != nil {
		s.failed(ctx, err)
		return save(s.fallback)
	}
	s.succeeded(ctx)
	return nil
}

func (s *ResilientStore) failed(ctx context.Context, err error) {
	if change := s.breaker.RecordFailure(); change.Opened {
		s.logger.ErrorContext(ctx, "circuit breaker opened",
			"circuit", s.breaker.Name(),
			"error", err,
		)
		return
	}
	s.logger.WarnContext(ctx, "snapshot store unavailable, using local fallback",
		"circuit", s.breaker.Name(),
		"error", err,
	)
}

func (s *ResilientStore) succeeded(ctx context.Context) {
	if change := s.breaker.RecordSuccess(); change.Closed {
		s.logger.InfoContext(ctx, "circuit breaker closed",
			"circuit", s.breaker.Name(),
		)
	}
}

var _ Store = (*ResilientStore)(nil)
