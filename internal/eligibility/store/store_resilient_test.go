package store

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"aidengine/internal/eligibility"
	dErrors "aidengine/pkg/domain-errors"
	"aidengine/pkg/platform/circuit"
)

func TestResilientStoreSuite(t *testing.T) {
	mr, client := newMiniredisClient(t)

	suite.Run(t, &StoreSuite{newStore: func() Store {
		mr.FlushAll()
		return NewResilientStore(NewRedisStore(client, snapshotTTL), NewInMemoryStore(snapshotTTL), nil, nil)
	}})
}

var errUnavailable = errors.New("connection refused")

// flakyStore is an in-memory store that can be switched off.
type flakyStore struct {
	*InMemoryStore
	down  bool
	calls int
}

func (f *flakyStore) SaveQuick(ctx context.Context, id string, s *eligibility.EstimationSummary) error {
	f.calls++
	if f.down {
		return errUnavailable
	}
	return f.InMemoryStore.SaveQuick(ctx, id, s)
}

func (f *flakyStore) SaveFull(ctx context.Context, id string, s *eligibility.EstimationSummary) error {
	f.calls++
	if f.down {
		return errUnavailable
	}
	return f.InMemoryStore.SaveFull(ctx, id, s)
}

func (f *flakyStore) Find(ctx context.Context, id string) (*Snapshot, error) {
	f.calls++
	if f.down {
		return nil, errUnavailable
	}
	return f.InMemoryStore.Find(ctx, id)
}

type resilientFixture struct {
	primary  *flakyStore
	fallback *InMemoryStore
	breaker  *circuit.Breaker
	store    *ResilientStore
	logs     *bytes.Buffer
	now      time.Time
}

func newResilientFixture() *resilientFixture {
	f := &resilientFixture{
		primary:  &flakyStore{InMemoryStore: NewInMemoryStore(time.Hour)},
		fallback: NewInMemoryStore(time.Hour),
		logs:     &bytes.Buffer{},
		now:      time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}
	f.breaker = circuit.New("snapshot_store",
		circuit.WithFailureThreshold(2),
		circuit.WithSuccessThreshold(1),
		circuit.WithCooldown(time.Minute),
		circuit.WithClock(func() time.Time { return f.now }),
	)
	f.store = NewResilientStore(f.primary, f.fallback, f.breaker, slog.New(slog.NewTextHandler(f.logs, nil)))
	return f
}

func TestResilientStoreFallsBackDuringOutage(t *testing.T) {
	ctx := context.Background()
	f := newResilientFixture()
	f.primary.down = true

	require.NoError(t, f.store.SaveQuick(ctx, "famille-1", summary(100, item("pass-sport", 70, false))))
	require.NoError(t, f.store.SaveFull(ctx, "famille-1", summary(100, item("pass-sport", 70, true))))

	assert.Equal(t, circuit.StateOpen, f.breaker.State())
	assert.Contains(t, f.logs.String(), "circuit breaker opened")

	calls := f.primary.calls
	snap, err := f.store.Find(ctx, "famille-1")
	require.NoError(t, err)
	assert.Equal(t, calls, f.primary.calls, "open circuit skips the primary")
	require.NotNil(t, snap.Quick)
	require.NotNil(t, snap.Full)
}

func TestResilientStoreRecovers(t *testing.T) {
	ctx := context.Background()
	f := newResilientFixture()
	f.primary.down = true
	_ = f.store.SaveQuick(ctx, "famille-1", summary(100))
	_ = f.store.SaveQuick(ctx, "famille-1", summary(100))
	require.Equal(t, circuit.StateOpen, f.breaker.State())

	f.primary.down = false
	f.now = f.now.Add(time.Minute)

	require.NoError(t, f.store.SaveQuick(ctx, "famille-2", summary(50)))
	assert.Equal(t, circuit.StateClosed, f.breaker.State())
	assert.Contains(t, f.logs.String(), "circuit breaker closed")

	_, err := f.primary.InMemoryStore.Find(ctx, "famille-2")
	assert.NoError(t, err, "writes reach the primary again")

	// Sessions saved during the outage remain readable.
	_, err = f.store.Find(ctx, "famille-1")
	assert.NoError(t, err)
}

func TestResilientStoreFindSurfacesOutage(t *testing.T) {
	f := newResilientFixture()
	f.primary.down = true

	_, err := f.store.Find(context.Background(), "famille-inconnue")
	require.Error(t, err)
	assert.ErrorIs(t, err, errUnavailable)
	assert.False(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestResilientStoreValidatesBeforeCallingPrimary(t *testing.T) {
	f := newResilientFixture()

	err := f.store.SaveQuick(context.Background(), "", summary(10))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	assert.Zero(t, f.primary.calls)
	assert.Equal(t, circuit.StateClosed, f.breaker.State())
}

func TestNewResilientStorePanicsWithoutBackends(t *testing.T) {
	assert.Panics(t, func() { NewResilientStore(nil, NewInMemoryStore(time.Hour), nil, nil) })
}
