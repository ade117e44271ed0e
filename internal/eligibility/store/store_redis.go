package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"aidengine/internal/eligibility"
)

const (
	redisSnapshotKeyPrefix = "aidengine:snapshot:"
	// maxTxRetries bounds optimistic retries when two saves race on one session.
	maxTxRetries = 3
)

// RedisStore persists snapshots in Redis with TTL-based eviction.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisStore constructs a Redis-backed snapshot store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		now:    time.Now,
	}
}

// SaveQuick overwrites the session's snapshot with a quick-only one.
//
// Side effects: performs a Redis SET and resets the TTL.
func (s *RedisStore) SaveQuick(ctx context.Context, sessionID string, summary *eligibility.EstimationSummary) error {
	if err := validateSave(sessionID, summary); err != nil {
		return err
	}
	payload, err := json.Marshal(toRecord(&Snapshot{
		SessionID: sessionID,
		Quick:     summary,
		UpdatedAt: s.now().UTC(),
	}))
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.client.Set(ctx, snapshotKey(sessionID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save quick snapshot: %w", err)
	}
	return nil
}

// SaveFull merges a full estimation into the session's snapshot.
//
// Side effects: WATCH/GET/MULTI/SET on the session key; retried when a
// concurrent save wins the race.
func (s *RedisStore) SaveFull(ctx context.Context, sessionID string, summary *eligibility.EstimationSummary) error {
	if err := validateSave(sessionID, summary); err != nil {
		return err
	}
	key := snapshotKey(sessionID)

	txf := func(tx *redis.Tx) error {
		snap, err := decodeSnapshot(tx.Get(ctx, key).Bytes())
		switch {
		case errors.Is(err, ErrNotFound):
			snap = &Snapshot{SessionID: sessionID}
		case err != nil:
			return err
		}
		snap.Full = summary
		snap.UpdatedAt = s.now().UTC()

		payload, err := json.Marshal(toRecord(snap))
		if err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.ttl)
			return nil
		})
		return err
	}

	for range maxTxRetries {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("save full snapshot: %w", err)
		}
		return nil
	}
	return fmt.Errorf("save full snapshot: %w", redis.TxFailedErr)
}

// Find loads the session's snapshot.
//
// Errors: returns ErrNotFound on miss or expiry; wraps Redis or JSON decode errors.
func (s *RedisStore) Find(ctx context.Context, sessionID string) (*Snapshot, error) {
	snap, err := decodeSnapshot(s.client.Get(ctx, snapshotKey(sessionID)).Bytes())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find snapshot: %w", err)
	}
	return snap, nil
}

func decodeSnapshot(data []byte, err error) (*Snapshot, error) {
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var record snapshotRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return record.toSnapshot(), nil
}

func snapshotKey(sessionID string) string {
	return redisSnapshotKeyPrefix + sessionID
}

var _ Store = (*RedisStore)(nil)
