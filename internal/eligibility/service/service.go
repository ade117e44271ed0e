// Package service exposes the estimation engine to transports. It adds what
// the pure engine leaves to callers: per-session snapshots, batch fan-out,
// logging, metrics and tracing.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"aidengine/internal/eligibility"
	"aidengine/internal/eligibility/metrics"
	"aidengine/internal/eligibility/store"
	"aidengine/internal/platform/privacy"
	"aidengine/internal/platform/tracer"
	dErrors "aidengine/pkg/domain-errors"
)

// DefaultBatchLimit bounds concurrent evaluations of one batch call.
const DefaultBatchLimit = 8

// Service coordinates estimations with optional snapshot persistence.
type Service struct {
	engine     *eligibility.Engine
	store      store.Store
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     tracer.Tracer
	batchLimit int
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer sets the span tracer. The default tracer records nothing.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithStore enables per-session snapshots. Without a store, estimations are
// not remembered and LastEstimate always reports not found.
func WithStore(st store.Store) Option {
	return func(s *Service) {
		s.store = st
	}
}

// WithBatchLimit bounds how many activities of a batch are evaluated at once.
// Values below 1 are ignored.
func WithBatchLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchLimit = n
		}
	}
}

// New creates the estimation service.
// Panics if engine is nil.
func New(engine *eligibility.Engine, opts ...Option) *Service {
	if engine == nil {
		panic("service.New: engine is required")
	}
	s := &Service{
		engine:     engine,
		logger:     slog.Default(),
		tracer:     tracer.NewNoop(),
		batchLimit: DefaultBatchLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ChildProfile holds what a batch shares across activities: the child.
type ChildProfile struct {
	Age        int
	PostalCode string
}

// ActivityInput describes one activity of a batch.
type ActivityInput struct {
	ActivityType eligibility.ActivityType
	Price        decimal.Decimal
	Period       eligibility.Period
	DurationDays int
}

func (a ActivityInput) quickInput(child ChildProfile) eligibility.QuickInput {
	return eligibility.QuickInput{
		Age:          child.Age,
		ActivityType: a.ActivityType,
		Price:        a.Price,
		PostalCode:   child.PostalCode,
		Period:       a.Period,
		DurationDays: a.DurationDays,
	}
}

// Quick runs a quick estimate and, when sessionID is set, remembers it as the
// session's latest answers. Any previously saved full estimate is dropped.
func (s *Service) Quick(ctx context.Context, sessionID string, in eligibility.QuickInput) (summary *eligibility.EstimationSummary, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanEstimateQuick,
		tracer.String(tracer.AttrActivityType, string(in.ActivityType)),
		tracer.String(tracer.AttrPeriod, string(in.Period)),
		tracer.String(tracer.AttrDepartment, privacy.MaskPostalCode(in.PostalCode)),
		tracer.String(tracer.AttrSessionHash, privacy.HashSessionID(sessionID)),
	)
	defer func() { span.End(err) }()

	summary, err = s.estimate(ctx, metrics.ModeQuick, func() (*eligibility.EstimationSummary, error) {
		return s.engine.QuickEstimate(in)
	})
	if err != nil {
		return nil, err
	}
	annotate(span, summary)

	s.remember(ctx, span, "save_quick", sessionID, func(ctx context.Context, st store.Store) error {
		return st.SaveQuick(ctx, sessionID, summary)
	})
	return summary, nil
}

// Full runs a full estimate. Only a successful result reaches the session
// snapshot, so a rejected full request leaves the saved quick estimate intact.
func (s *Service) Full(ctx context.Context, sessionID string, evalCtx eligibility.EvaluationContext) (summary *eligibility.EstimationSummary, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanEstimateFull,
		tracer.String(tracer.AttrActivityType, string(evalCtx.ActivityType)),
		tracer.String(tracer.AttrPeriod, string(evalCtx.Period)),
		tracer.String(tracer.AttrDepartment, privacy.MaskPostalCode(evalCtx.PostalCode)),
		tracer.String(tracer.AttrSessionHash, privacy.HashSessionID(sessionID)),
	)
	defer func() { span.End(err) }()

	summary, err = s.estimate(ctx, metrics.ModeFull, func() (*eligibility.EstimationSummary, error) {
		return s.engine.FullEstimate(evalCtx)
	})
	if err != nil {
		return nil, err
	}
	annotate(span, summary)

	s.remember(ctx, span, "save_full", sessionID, func(ctx context.Context, st store.Store) error {
		return st.SaveFull(ctx, sessionID, summary)
	})
	return summary, nil
}

// QuickBatch runs one quick estimate per activity for the same child.
// Results keep the order of activities. The first invalid activity fails the
// whole batch and its position is named in the error.
func (s *Service) QuickBatch(ctx context.Context, child ChildProfile, activities []ActivityInput) (results []*eligibility.EstimationSummary, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanEstimateBatch, tracer.Int(tracer.AttrBatchSize, len(activities)))
	defer func() { span.End(err) }()

	if s.metrics != nil {
		s.metrics.ObserveBatch(len(activities))
	}

	results = make([]*eligibility.EstimationSummary, len(activities))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchLimit)
	for i, activity := range activities {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			summary, err := s.estimate(gctx, metrics.ModeQuick, func() (*eligibility.EstimationSummary, error) {
				return s.engine.QuickEstimate(activity.quickInput(child))
			})
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInvalidInput, fmt.Sprintf("activity %d: %v", i, err))
			}
			results[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if dErrors.CodeOf(err) == "" && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			return nil, &dErrors.Error{Code: dErrors.CodeTimeout, Message: "batch estimation interrupted", Err: err}
		}
		return nil, err
	}
	return results, nil
}

// LastEstimate returns the session's latest snapshot.
func (s *Service) LastEstimate(ctx context.Context, sessionID string) (*store.Snapshot, error) {
	if s.store == nil {
		return nil, store.ErrNotFound
	}
	ctx, span := s.tracer.Start(ctx, tracer.SpanSnapshotFind, tracer.String(tracer.AttrSessionHash, privacy.HashSessionID(sessionID)))
	snap, err := s.store.Find(ctx, sessionID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			span.End(nil)
			return nil, err
		}
		span.End(err)
		s.logger.ErrorContext(ctx, "failed to load snapshot", "error", err)
		if s.metrics != nil {
			s.metrics.IncrementSnapshotFailure("find")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "saved estimate unavailable")
	}
	span.End(nil)
	return snap, nil
}

// Visibility reports which optional form fields can still change an estimate.
func (s *Service) Visibility(_ context.Context, q eligibility.VisibilityQuery) eligibility.VisibleFields {
	return s.engine.FieldsToAsk(q)
}

// Bands returns the income quotient ranges offered to families who do not
// know their exact quotient.
func (s *Service) Bands() []eligibility.IncomeBand {
	return eligibility.IncomeQuotientBands()
}

// Programs returns the catalog in evaluation order.
func (s *Service) Programs() []eligibility.AidProgram {
	return s.engine.Catalog().Programs()
}

func (s *Service) estimate(ctx context.Context, mode string, run func() (*eligibility.EstimationSummary, error)) (*eligibility.EstimationSummary, error) {
	start := time.Now()
	summary, err := run()
	elapsed := time.Since(start).Seconds()

	if err != nil {
		s.logger.DebugContext(ctx, "estimation rejected", "mode", mode, "error", err)
		if s.metrics != nil {
			s.metrics.RecordEstimate(mode, metrics.OutcomeRejected, elapsed)
		}
		return nil, err
	}

	s.logger.DebugContext(ctx, "estimation computed",
		"mode", mode,
		"confirmed", summary.ConfirmedCount(),
		"potential", summary.PotentialCount(),
		"confirmed_total", summary.ConfirmedTotal.StringFixed(2),
		"capped", summary.Capped,
	)
	if s.metrics != nil {
		outcome := metrics.OutcomeMatched
		if len(summary.Items) == 0 {
			outcome = metrics.OutcomeEmpty
		}
		s.metrics.RecordEstimate(mode, outcome, elapsed)
		s.metrics.RecordItems(summary.ConfirmedCount(), summary.PotentialCount(), summary.Capped)
	}
	return summary, nil
}

// remember saves a snapshot when the call belongs to a session. Failures are
// logged and counted but never returned: the estimate itself succeeded.
func (s *Service) remember(ctx context.Context, span tracer.Span, op, sessionID string, save func(context.Context, store.Store) error) {
	if sessionID == "" || s.store == nil {
		span.AddEvent(tracer.EventSnapshotSkipped)
		return
	}
	ctx, saveSpan := s.tracer.Start(ctx, tracer.SpanSnapshotSave, tracer.String("op", op))
	err := save(ctx, s.store)
	saveSpan.End(err)
	if err == nil {
		return
	}
	s.logger.WarnContext(ctx, "failed to save snapshot",
		"op", op,
		"session", privacy.HashSessionID(sessionID),
		"error", err,
	)
	if s.metrics != nil {
		s.metrics.IncrementSnapshotFailure(op)
	}
}

func annotate(span tracer.Span, summary *eligibility.EstimationSummary) {
	if summary == nil {
		return
	}
	span.SetAttributes(
		tracer.Int(tracer.AttrConfirmedCount, summary.ConfirmedCount()),
		tracer.Int(tracer.AttrPotentialCount, summary.PotentialCount()),
		tracer.Bool(tracer.AttrCapped, summary.Capped),
	)
}
