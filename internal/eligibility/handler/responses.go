package handler

import (
	"time"

	"aidengine/internal/eligibility"
	"aidengine/internal/eligibility/store"
)

// AidItemResponse is one aid in an estimate. Amounts are euro strings with
// two decimals.
type AidItemResponse struct {
	ProgramID    string `json:"program_id"`
	Name         string `json:"name"`
	Amount       string `json:"amount"`
	Level        string `json:"level"`
	Confirmed    bool   `json:"confirmed"`
	OfficialLink string `json:"official_link,omitempty"`
}

// EstimateResponse is the body of a successful estimate.
type EstimateResponse struct {
	Items          []AidItemResponse `json:"items"`
	ConfirmedTotal string            `json:"confirmed_total"`
	PotentialTotal string            `json:"potential_total"`
	RemainingPrice string            `json:"remaining_price"`
	Capped         bool              `json:"capped"`
	ConfirmedCount int               `json:"confirmed_count"`
	PotentialCount int               `json:"potential_count"`
}

// NewEstimateResponse renders a summary the way the API returns it.
func NewEstimateResponse(s *eligibility.EstimationSummary) EstimateResponse {
	items := make([]AidItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, AidItemResponse{
			ProgramID:    it.ProgramID,
			Name:         it.Name,
			Amount:       it.Amount.StringFixed(2),
			Level:        string(it.Level),
			Confirmed:    it.Confirmed,
			OfficialLink: it.OfficialLink,
		})
	}
	return EstimateResponse{
		Items:          items,
		ConfirmedTotal: s.ConfirmedTotal.StringFixed(2),
		PotentialTotal: s.PotentialTotal.StringFixed(2),
		RemainingPrice: s.RemainingPrice.StringFixed(2),
		Capped:         s.Capped,
		ConfirmedCount: s.ConfirmedCount(),
		PotentialCount: s.PotentialCount(),
	}
}

// BatchEstimateResponse lists estimates in the order activities were sent.
type BatchEstimateResponse struct {
	Results []EstimateResponse `json:"results"`
}

// SnapshotResponse is the last estimation of a session.
type SnapshotResponse struct {
	SessionID string            `json:"session_id"`
	Quick     *EstimateResponse `json:"quick,omitempty"`
	Full      *EstimateResponse `json:"full,omitempty"`
	UpdatedAt string            `json:"updated_at"`
}

func toSnapshotResponse(snap *store.Snapshot) SnapshotResponse {
	resp := SnapshotResponse{
		SessionID: snap.SessionID,
		UpdatedAt: snap.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if snap.Quick != nil {
		quick := NewEstimateResponse(snap.Quick)
		resp.Quick = &quick
	}
	if snap.Full != nil {
		full := NewEstimateResponse(snap.Full)
		resp.Full = &full
	}
	return resp
}

// VisibilityResponse tells a form which optional fields to show.
type VisibilityResponse struct {
	IncomeQuotient   bool `json:"income_quotient"`
	SocialConditions bool `json:"social_conditions"`
	CafAllocataire   bool `json:"caf_allocataire"`
	StudentStatus    bool `json:"student_status"`
	SiblingCount     bool `json:"sibling_count"`
	Duration         bool `json:"duration"`
}

// NewVisibilityResponse renders the fields a form should show.
func NewVisibilityResponse(f eligibility.VisibleFields) VisibilityResponse {
	return VisibilityResponse{
		IncomeQuotient:   f.IncomeQuotient,
		SocialConditions: f.SocialConditions,
		CafAllocataire:   f.CafAllocataire,
		StudentStatus:    f.StudentStatus,
		SiblingCount:     f.SiblingCount,
		Duration:         f.Duration,
	}
}

// ProgramResponse summarizes one catalog entry.
type ProgramResponse struct {
	ID                     string `json:"id"`
	Name                   string `json:"name"`
	Level                  string `json:"level"`
	AmountKind             string `json:"amount_kind"`
	RequiresIncomeQuotient bool   `json:"requires_income_quotient"`
	OfficialLink           string `json:"official_link,omitempty"`
}

// ProgramsResponse is the body of GET /catalog/programs.
type ProgramsResponse struct {
	Programs []ProgramResponse `json:"programs"`
}

// IncomeBandResponse is one income quotient range. Max is omitted for the
// open top band.
type IncomeBandResponse struct {
	Label          string `json:"label"`
	Min            int    `json:"min"`
	Max            *int   `json:"max,omitempty"`
	Representative int    `json:"representative"`
}

// IncomeBandsResponse is the body of GET /catalog/income-bands.
type IncomeBandsResponse struct {
	Bands []IncomeBandResponse `json:"bands"`
}

// NewIncomeBandsResponse renders the income quotient bands.
func NewIncomeBandsResponse(bands []eligibility.IncomeBand) IncomeBandsResponse {
	resp := IncomeBandsResponse{Bands: make([]IncomeBandResponse, 0, len(bands))}
	for _, b := range bands {
		resp.Bands = append(resp.Bands, IncomeBandResponse{
			Label:          b.Label,
			Min:            b.Min,
			Max:            b.Max,
			Representative: b.Representative,
		})
	}
	return resp
}
