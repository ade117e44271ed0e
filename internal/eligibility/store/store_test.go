package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"aidengine/internal/eligibility"
	dErrors "aidengine/pkg/domain-errors"
	"aidengine/pkg/testutil"
)

const snapshotTTL = time.Hour

// StoreSuite holds the behaviour both implementations must share.
type StoreSuite struct {
	suite.Suite
	newStore func() Store
	store    Store
}

func (s *StoreSuite) SetupTest() {
	s.store = s.newStore()
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, &StoreSuite{newStore: func() Store { return NewInMemoryStore(snapshotTTL) }})
}

func TestRedisStoreSuite(t *testing.T) {
	mr, client := newMiniredisClient(t)

	suite.Run(t, &StoreSuite{newStore: func() Store {
		mr.FlushAll()
		return NewRedisStore(client, snapshotTTL)
	}})
}

func summary(price int64, items ...eligibility.AidResult) *eligibility.EstimationSummary {
	confirmed := decimal.Zero
	for _, it := range items {
		if it.Confirmed {
			confirmed = confirmed.Add(it.Amount)
		}
	}
	p := decimal.NewFromInt(price)
	return &eligibility.EstimationSummary{
		Items:          append([]eligibility.AidResult{}, items...),
		ConfirmedTotal: decimal.Min(p, confirmed),
		PotentialTotal: decimal.Zero,
		RemainingPrice: decimal.Max(decimal.Zero, p.Sub(confirmed)),
		Capped:         confirmed.GreaterThan(p),
	}
}

func item(id string, euros int64, confirmed bool) eligibility.AidResult {
	return eligibility.AidResult{
		ProgramID: id,
		Name:      id,
		Amount:    decimal.NewFromInt(euros),
		Level:     eligibility.LevelNational,
		Confirmed: confirmed,
	}
}

func (s *StoreSuite) TestFindMissing() {
	_, err := s.store.Find(context.Background(), "famille-absente")
	s.Require().Error(err)
	s.ErrorIs(err, ErrNotFound)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *StoreSuite) TestSaveQuickThenFind() {
	ctx := context.Background()
	quick := summary(150, item("pass-sport", 70, false), item("saint-etienne-loisirs", 30, true))

	s.Require().NoError(s.store.SaveQuick(ctx, "famille-1", quick))

	snap, err := s.store.Find(ctx, "famille-1")
	s.Require().NoError(err)
	s.Equal("famille-1", snap.SessionID)
	s.Nil(snap.Full)
	s.Require().NotNil(snap.Quick)
	s.Require().Len(snap.Quick.Items, 2)
	s.Equal("pass-sport", snap.Quick.Items[0].ProgramID)
	s.False(snap.Quick.Items[0].Confirmed)
	s.True(snap.Quick.Items[1].Amount.Equal(decimal.NewFromInt(30)))
	s.True(snap.Quick.RemainingPrice.Equal(decimal.NewFromInt(120)))
	s.False(snap.UpdatedAt.IsZero())
}

func (s *StoreSuite) TestSaveFullKeepsQuick() {
	ctx := context.Background()
	quick := summary(150, item("pass-sport", 70, false))
	full := summary(150, item("pass-sport", 50, true))

	s.Require().NoError(s.store.SaveQuick(ctx, "famille-1", quick))
	s.Require().NoError(s.store.SaveFull(ctx, "famille-1", full))

	snap, err := s.store.Find(ctx, "famille-1")
	s.Require().NoError(err)
	s.Require().NotNil(snap.Quick)
	s.Require().NotNil(snap.Full)
	s.False(snap.Quick.Items[0].Confirmed)
	s.True(snap.Full.Items[0].Confirmed)
	s.True(snap.Full.ConfirmedTotal.Equal(decimal.NewFromInt(50)))
}

func (s *StoreSuite) TestSaveQuickDropsStaleFull() {
	ctx := context.Background()

	s.Require().NoError(s.store.SaveQuick(ctx, "famille-1", summary(150, item("pass-sport", 70, false))))
	s.Require().NoError(s.store.SaveFull(ctx, "famille-1", summary(150, item("pass-sport", 50, true))))
	s.Require().NoError(s.store.SaveQuick(ctx, "famille-1", summary(300)))

	snap, err := s.store.Find(ctx, "famille-1")
	s.Require().NoError(err)
	s.Nil(snap.Full)
	s.Empty(snap.Quick.Items)
}

func (s *StoreSuite) TestSaveFullWithoutQuick() {
	ctx := context.Background()

	s.Require().NoError(s.store.SaveFull(ctx, "famille-2", summary(80, item("pass-culture", 30, true))))

	snap, err := s.store.Find(ctx, "famille-2")
	s.Require().NoError(err)
	s.Nil(snap.Quick)
	s.Require().NotNil(snap.Full)
}

func (s *StoreSuite) TestSessionsAreIsolated() {
	ctx := context.Background()

	s.Require().NoError(s.store.SaveQuick(ctx, "famille-1", summary(100, item("pass-sport", 70, false))))
	s.Require().NoError(s.store.SaveQuick(ctx, "famille-2", summary(100)))

	snap, err := s.store.Find(ctx, "famille-2")
	s.Require().NoError(err)
	s.Empty(snap.Quick.Items)
}

func (s *StoreSuite) TestRejectsIncompleteSaves() {
	ctx := context.Background()

	s.Error(s.store.SaveQuick(ctx, "", summary(10)))
	s.Error(s.store.SaveQuick(ctx, "famille-1", nil))
	s.Error(s.store.SaveFull(ctx, "", summary(10)))
	s.Error(s.store.SaveFull(ctx, "famille-1", nil))
}

func (s *StoreSuite) TestConcurrentSaves() {
	ctx := context.Background()
	res := testutil.RunConcurrent(20, func(i int) error {
		sum := summary(100, item("pass-sport", 70, true))
		if i%2 == 0 {
			return s.store.SaveQuick(ctx, "famille-1", sum)
		}
		return s.store.SaveFull(ctx, "famille-1", sum)
	})
	// Racing full saves may exhaust their optimistic retries; none is a
	// client error.
	s.Equal(int32(20), res.Total())
	s.Zero(res.Rejected)
	s.Positive(res.Successes)

	_, err := s.store.Find(ctx, "famille-1")
	s.NoError(err)
}

func TestInMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	st := NewInMemoryStore(time.Hour, WithClock(func() time.Time { return now }))

	require.NoError(t, st.SaveQuick(ctx, "famille-1", summary(100)))

	now = now.Add(59 * time.Minute)
	_, err := st.Find(ctx, "famille-1")
	require.NoError(t, err, "snapshot should still be live")

	now = now.Add(time.Minute)
	_, err = st.Find(ctx, "famille-1")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	// A full save after expiry starts over without the old quick estimate.
	require.NoError(t, st.SaveFull(ctx, "famille-1", summary(100)))
	snap, err := st.Find(ctx, "famille-1")
	require.NoError(t, err)
	assert.Nil(t, snap.Quick)
}

func TestInMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	st := NewInMemoryStore(time.Hour)
	quick := summary(100, item("pass-sport", 70, false))
	require.NoError(t, st.SaveQuick(ctx, "famille-1", quick))
	quick.Items[0].ProgramID = "mutated"

	snap, err := st.Find(ctx, "famille-1")
	require.NoError(t, err)
	snap.Quick.Items[0].Name = "mutated too"

	again, err := st.Find(ctx, "famille-1")
	require.NoError(t, err)
	assert.Equal(t, "pass-sport", again.Quick.Items[0].ProgramID)
	assert.Equal(t, "pass-sport", again.Quick.Items[0].Name)
}

func newMiniredisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStoreExpiry(t *testing.T) {
	ctx := context.Background()
	mr, client := newMiniredisClient(t)
	st := NewRedisStore(client, time.Hour)

	require.NoError(t, st.SaveQuick(ctx, "famille-1", summary(100)))
	assert.Equal(t, time.Hour, mr.TTL(redisSnapshotKeyPrefix+"famille-1"))

	mr.FastForward(time.Hour)
	_, err := st.Find(ctx, "famille-1")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestRedisStoreCorruptPayload(t *testing.T) {
	mr, client := newMiniredisClient(t)
	require.NoError(t, mr.Set(redisSnapshotKeyPrefix+"famille-1", "{not json"))

	_, err := NewRedisStore(client, time.Hour).Find(context.Background(), "famille-1")
	require.Error(t, err)
	assert.False(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestRedisStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	mr, client := newMiniredisClient(t)
	mr.Close()

	st := NewRedisStore(client, time.Hour)
	assert.Error(t, st.SaveQuick(ctx, "famille-1", summary(100)))
	assert.Error(t, st.SaveFull(ctx, "famille-1", summary(100)))
	_, err := st.Find(ctx, "famille-1")
	assert.Error(t, err)
	assert.False(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
