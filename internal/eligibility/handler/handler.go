package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"aidengine/internal/eligibility"
	"aidengine/internal/eligibility/service"
	"aidengine/internal/eligibility/store"
	"aidengine/internal/platform/middleware"
	dErrors "aidengine/pkg/domain-errors"
	"aidengine/pkg/platform/httputil"
	"aidengine/pkg/platform/validation"
)

// Service defines the estimation operations used by handlers.
type Service interface {
	Quick(ctx context.Context, sessionID string, in eligibility.QuickInput) (*eligibility.EstimationSummary, error)
	Full(ctx context.Context, sessionID string, evalCtx eligibility.EvaluationContext) (*eligibility.EstimationSummary, error)
	QuickBatch(ctx context.Context, child service.ChildProfile, activities []service.ActivityInput) ([]*eligibility.EstimationSummary, error)
	LastEstimate(ctx context.Context, sessionID string) (*store.Snapshot, error)
	Visibility(ctx context.Context, q eligibility.VisibilityQuery) eligibility.VisibleFields
	Bands() []eligibility.IncomeBand
	Programs() []eligibility.AidProgram
}

// Handler handles HTTP requests for aid estimations.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New creates a new estimation handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the handler routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/estimates/quick", h.HandleQuickEstimate)
	r.Post("/estimates/full", h.HandleFullEstimate)
	r.Post("/estimates/quick/batch", h.HandleQuickBatch)
	r.Get("/estimates/sessions/{session_id}", h.HandleLastEstimate)
	r.Post("/estimates/visibility", h.HandleVisibility)
	r.Get("/catalog/programs", h.HandleListPrograms)
	r.Get("/catalog/income-bands", h.HandleIncomeBands)
}

// HandleQuickEstimate handles POST /estimates/quick.
func (h *Handler) HandleQuickEstimate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[QuickEstimateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	summary, err := h.service.Quick(ctx, req.SessionID, req.toInput())
	if err != nil {
		h.logFailure(ctx, "quick estimate failed", err, requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, NewEstimateResponse(summary))
}

// HandleFullEstimate handles POST /estimates/full.
func (h *Handler) HandleFullEstimate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[FullEstimateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	summary, err := h.service.Full(ctx, req.SessionID, req.toContext())
	if err != nil {
		h.logFailure(ctx, "full estimate failed", err, requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, NewEstimateResponse(summary))
}

// HandleQuickBatch handles POST /estimates/quick/batch.
func (h *Handler) HandleQuickBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[BatchEstimateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	summaries, err := h.service.QuickBatch(ctx, req.toProfile(), req.toActivities())
	if err != nil {
		h.logFailure(ctx, "batch estimate failed", err, requestID)
		httputil.WriteError(w, err)
		return
	}

	resp := BatchEstimateResponse{Results: make([]EstimateResponse, 0, len(summaries))}
	for _, summary := range summaries {
		resp.Results = append(resp.Results, NewEstimateResponse(summary))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleLastEstimate handles GET /estimates/sessions/{session_id}.
func (h *Handler) HandleLastEstimate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	sessionID := strings.TrimSpace(chi.URLParam(r, "session_id"))
	if sessionID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "session_id is required"))
		return
	}
	if err := validation.CheckStringLength("session_id", sessionID, validation.MaxSessionIDLength); err != nil {
		httputil.WriteError(w, err)
		return
	}

	snap, err := h.service.LastEstimate(ctx, sessionID)
	if err != nil {
		h.logFailure(ctx, "failed to load last estimate", err, requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toSnapshotResponse(snap))
}

// HandleVisibility handles POST /estimates/visibility.
func (h *Handler) HandleVisibility(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[VisibilityRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	fields := h.service.Visibility(ctx, req.toQuery())
	httputil.WriteJSON(w, http.StatusOK, NewVisibilityResponse(fields))
}

// HandleListPrograms handles GET /catalog/programs.
func (h *Handler) HandleListPrograms(w http.ResponseWriter, _ *http.Request) {
	programs := h.service.Programs()
	resp := ProgramsResponse{Programs: make([]ProgramResponse, 0, len(programs))}
	for _, p := range programs {
		resp.Programs = append(resp.Programs, ProgramResponse{
			ID:                     p.ID,
			Name:                   p.Name,
			Level:                  string(p.Level),
			AmountKind:             string(p.Amount.Kind),
			RequiresIncomeQuotient: p.RequiresIncomeQuotient,
			OfficialLink:           p.OfficialLink,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleIncomeBands handles GET /catalog/income-bands.
func (h *Handler) HandleIncomeBands(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, NewIncomeBandsResponse(h.service.Bands()))
}

// logFailure logs client errors at Warn and everything else at Error.
func (h *Handler) logFailure(ctx context.Context, msg string, err error, requestID string) {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeInvalidInput, dErrors.CodeValidation, dErrors.CodeBadRequest, dErrors.CodeNotFound:
		h.logger.WarnContext(ctx, msg, "error", err, "request_id", requestID)
	default:
		h.logger.ErrorContext(ctx, msg, "error", err, "request_id", requestID)
	}
}
