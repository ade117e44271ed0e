package store

import (
	"time"

	"github.com/shopspring/decimal"

	"aidengine/internal/eligibility"
)

// snapshotRecord is the persisted form of a Snapshot. Money is encoded as
// decimal strings.
type snapshotRecord struct {
	SessionID string         `json:"session_id"`
	Quick     *summaryRecord `json:"quick,omitempty"`
	Full      *summaryRecord `json:"full,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type summaryRecord struct {
	Items          []itemRecord    `json:"items"`
	ConfirmedTotal decimal.Decimal `json:"confirmed_total"`
	PotentialTotal decimal.Decimal `json:"potential_total"`
	RemainingPrice decimal.Decimal `json:"remaining_price"`
	Capped         bool            `json:"capped"`
}

type itemRecord struct {
	ProgramID    string          `json:"program_id"`
	Name         string          `json:"name"`
	Amount       decimal.Decimal `json:"amount"`
	Level        string          `json:"level"`
	Confirmed    bool            `json:"confirmed"`
	OfficialLink string          `json:"official_link,omitempty"`
}

func toRecord(s *Snapshot) snapshotRecord {
	return snapshotRecord{
		SessionID: s.SessionID,
		Quick:     toSummaryRecord(s.Quick),
		Full:      toSummaryRecord(s.Full),
		UpdatedAt: s.UpdatedAt,
	}
}

func (r snapshotRecord) toSnapshot() *Snapshot {
	return &Snapshot{
		SessionID: r.SessionID,
		Quick:     r.Quick.toSummary(),
		Full:      r.Full.toSummary(),
		UpdatedAt: r.UpdatedAt,
	}
}

func toSummaryRecord(s *eligibility.EstimationSummary) *summaryRecord {
	if s == nil {
		return nil
	}
	items := make([]itemRecord, len(s.Items))
	for i, it := range s.Items {
		items[i] = itemRecord{
			ProgramID:    it.ProgramID,
			Name:         it.Name,
			Amount:       it.Amount,
			Level:        string(it.Level),
			Confirmed:    it.Confirmed,
			OfficialLink: it.OfficialLink,
		}
	}
	return &summaryRecord{
		Items:          items,
		ConfirmedTotal: s.ConfirmedTotal,
		PotentialTotal: s.PotentialTotal,
		RemainingPrice: s.RemainingPrice,
		Capped:         s.Capped,
	}
}

func (r *summaryRecord) toSummary() *eligibility.EstimationSummary {
	if r == nil {
		return nil
	}
	items := make([]eligibility.AidResult, len(r.Items))
	for i, it := range r.Items {
		items[i] = eligibility.AidResult{
			ProgramID:    it.ProgramID,
			Name:         it.Name,
			Amount:       it.Amount,
			Level:        eligibility.TerritoryLevel(it.Level),
			Confirmed:    it.Confirmed,
			OfficialLink: it.OfficialLink,
		}
	}
	return &eligibility.EstimationSummary{
		Items:          items,
		ConfirmedTotal: r.ConfirmedTotal,
		PotentialTotal: r.PotentialTotal,
		RemainingPrice: r.RemainingPrice,
		Capped:         r.Capped,
	}
}
