// Package store keeps the last estimation of each family session so a form
// can be resumed. Snapshots are caches: they expire and losing one is never
// an error for the estimation itself.
package store

import (
	"context"
	"time"

	"aidengine/internal/eligibility"
	dErrors "aidengine/pkg/domain-errors"
)

// ErrNotFound is returned when a session has no live snapshot.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "no saved estimate for this session")

// Snapshot is the last quick and full estimation of a session.
// Full is nil until a full estimation succeeded since the last quick one.
type Snapshot struct {
	SessionID string
	Quick     *eligibility.EstimationSummary
	Full      *eligibility.EstimationSummary
	UpdatedAt time.Time
}

// Store persists snapshots keyed by session ID.
//
// SaveQuick replaces the quick estimation and drops any full estimation,
// which was computed from older answers. SaveFull sets the full estimation
// and keeps the quick one.
type Store interface {
	SaveQuick(ctx context.Context, sessionID string, summary *eligibility.EstimationSummary) error
	SaveFull(ctx context.Context, sessionID string, summary *eligibility.EstimationSummary) error
	Find(ctx context.Context, sessionID string) (*Snapshot, error)
}

func validateSave(sessionID string, summary *eligibility.EstimationSummary) error {
	if sessionID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "session id is required")
	}
	if summary == nil {
		return dErrors.New(dErrors.CodeBadRequest, "estimation summary is required")
	}
	return nil
}

func cloneSummary(s *eligibility.EstimationSummary) *eligibility.EstimationSummary {
	if s == nil {
		return nil
	}
	out := *s
	out.Items = append([]eligibility.AidResult{}, s.Items...)
	return &out
}

func (s *Snapshot) clone() *Snapshot {
	out := *s
	out.Quick = cloneSummary(s.Quick)
	out.Full = cloneSummary(s.Full)
	return &out
}
