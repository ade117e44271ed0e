package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"aidengine/internal/eligibility"
	"aidengine/internal/eligibility/metrics"
	"aidengine/internal/eligibility/store"
	"aidengine/internal/platform/tracer"
	dErrors "aidengine/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite
	store   *store.InMemoryStore
	metrics *metrics.Metrics
	tracer  *recordingTracer
	logs    *bytes.Buffer
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = store.NewInMemoryStore(time.Hour)
	s.metrics = metrics.NewWith(prometheus.NewRegistry())
	s.tracer = &recordingTracer{}
	s.logs = &bytes.Buffer{}
	s.service = New(eligibility.DefaultEngine(),
		WithStore(s.store),
		WithMetrics(s.metrics),
		WithTracer(s.tracer),
		WithLogger(slog.New(slog.NewTextHandler(s.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))),
	)
}

func euros(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func qf(v int) *int { return &v }

func sportInSaintEtienne() eligibility.QuickInput {
	return eligibility.QuickInput{
		Age:          8,
		ActivityType: eligibility.TypeSport,
		Price:        euros("100"),
		PostalCode:   "42000",
		Period:       eligibility.PeriodSchoolTerm,
	}
}

func sportInSaintEtienneWithIncome(v int) eligibility.EvaluationContext {
	ctx := sportInSaintEtienne().Context()
	ctx.IncomeQuotient = qf(v)
	return ctx
}

func (s *ServiceSuite) TestNewPanicsWithoutEngine() {
	s.Panics(func() { New(nil) })
}

func (s *ServiceSuite) TestQuick() {
	ctx := context.Background()

	s.Run("returns the engine summary and saves it", func() {
		summary, err := s.service.Quick(ctx, "famille-1", sportInSaintEtienne())
		s.Require().NoError(err)
		s.Len(summary.Items, 3)
		s.True(summary.ConfirmedTotal.Equal(euros("20")))

		snap, err := s.store.Find(ctx, "famille-1")
		s.Require().NoError(err)
		s.Require().NotNil(snap.Quick)
		s.Len(snap.Quick.Items, 3)
		s.Nil(snap.Full)
	})

	s.Run("spans carry no raw identifiers", func() {
		_, err := s.service.Quick(ctx, "famille-1", sportInSaintEtienne())
		s.Require().NoError(err)
		s.Equal("42***", s.tracer.attribute(tracer.AttrDepartment))
		s.NotEqual("famille-1", s.tracer.attribute(tracer.AttrSessionHash))
		s.Len(s.tracer.attribute(tracer.AttrSessionHash), 16)
	})

	s.Run("without a session nothing is saved", func() {
		_, err := s.service.Quick(ctx, "", sportInSaintEtienne())
		s.Require().NoError(err)
		s.Contains(s.tracer.events(), tracer.EventSnapshotSkipped)
	})

	s.Run("invalid input is rejected and counted", func() {
		in := sportInSaintEtienne()
		in.Age = 19
		_, err := s.service.Quick(ctx, "famille-9", in)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

		_, err = s.store.Find(ctx, "famille-9")
		s.ErrorIs(err, store.ErrNotFound)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.EstimatesTotal.WithLabelValues(metrics.ModeQuick, metrics.OutcomeRejected)))
	})

	s.Equal(2.0, testutil.ToFloat64(s.metrics.EstimatesTotal.WithLabelValues(metrics.ModeQuick, metrics.OutcomeMatched)))
	s.Contains(s.tracer.spans(), tracer.SpanEstimateQuick)
	s.Contains(s.logs.String(), "estimation computed")
}

func (s *ServiceSuite) TestFullKeepsQuickSnapshot() {
	ctx := context.Background()
	_, err := s.service.Quick(ctx, "famille-1", sportInSaintEtienne())
	s.Require().NoError(err)

	summary, err := s.service.Full(ctx, "famille-1", sportInSaintEtienneWithIncome(400))
	s.Require().NoError(err)
	s.True(summary.Capped)

	snap, err := s.service.LastEstimate(ctx, "famille-1")
	s.Require().NoError(err)
	s.Require().NotNil(snap.Quick)
	s.Require().NotNil(snap.Full)
	s.Equal(1, snap.Quick.ConfirmedCount())
	s.Equal(3, snap.Full.ConfirmedCount())
	s.Equal(1.0, testutil.ToFloat64(s.metrics.CappedTotal))
}

func (s *ServiceSuite) TestFailedFullLeavesSnapshotUntouched() {
	ctx := context.Background()
	_, err := s.service.Quick(ctx, "famille-1", sportInSaintEtienne())
	s.Require().NoError(err)

	missingIncome := sportInSaintEtienne().Context()
	_, err = s.service.Full(ctx, "famille-1", missingIncome)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

	snap, err := s.service.LastEstimate(ctx, "famille-1")
	s.Require().NoError(err)
	s.NotNil(snap.Quick)
	s.Nil(snap.Full)
}

func (s *ServiceSuite) TestNewQuickDropsOlderFull() {
	ctx := context.Background()
	_, err := s.service.Quick(ctx, "famille-1", sportInSaintEtienne())
	s.Require().NoError(err)
	_, err = s.service.Full(ctx, "famille-1", sportInSaintEtienneWithIncome(400))
	s.Require().NoError(err)

	changed := sportInSaintEtienne()
	changed.ActivityType = eligibility.TypeCulture
	_, err = s.service.Quick(ctx, "famille-1", changed)
	s.Require().NoError(err)

	snap, err := s.service.LastEstimate(ctx, "famille-1")
	s.Require().NoError(err)
	s.Nil(snap.Full)
}

func (s *ServiceSuite) TestSnapshotFailuresAreBestEffort() {
	svc := New(eligibility.DefaultEngine(),
		WithStore(failingStore{}),
		WithMetrics(s.metrics),
		WithLogger(slog.New(slog.NewTextHandler(s.logs, nil))),
	)
	ctx := context.Background()

	summary, err := svc.Quick(ctx, "famille-1", sportInSaintEtienne())
	s.Require().NoError(err)
	s.NotNil(summary)

	_, err = svc.Full(ctx, "famille-1", sportInSaintEtienneWithIncome(400))
	s.Require().NoError(err)

	s.Contains(s.logs.String(), "failed to save snapshot")
	s.Equal(1.0, testutil.ToFloat64(s.metrics.SnapshotFailures.WithLabelValues("save_quick")))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.SnapshotFailures.WithLabelValues("save_full")))

	s.Run("load failures surface as internal errors", func() {
		_, err := svc.LastEstimate(ctx, "famille-1")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestLastEstimate() {
	ctx := context.Background()

	s.Run("unknown session", func() {
		_, err := s.service.LastEstimate(ctx, "inconnue")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("no store configured", func() {
		_, err := New(eligibility.DefaultEngine()).LastEstimate(ctx, "famille-1")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestQuickBatch() {
	ctx := context.Background()
	child := ChildProfile{Age: 8, PostalCode: "42000"}

	s.Run("keeps activity order", func() {
		activities := []ActivityInput{
			{ActivityType: eligibility.TypeSport, Price: euros("100")},
			{ActivityType: eligibility.TypeCulture, Price: euros("50")},
			{ActivityType: eligibility.TypeVacation, Price: euros("600"), Period: eligibility.PeriodVacation, DurationDays: 7},
		}
		results, err := s.service.QuickBatch(ctx, child, activities)
		s.Require().NoError(err)
		s.Require().Len(results, 3)

		for i, activity := range activities {
			in := activity.quickInput(child)
			expected, err := eligibility.DefaultEngine().QuickEstimate(in)
			s.Require().NoError(err)
			s.Equal(len(expected.Items), len(results[i].Items), "activity %d", i)
			s.True(expected.ConfirmedTotal.Equal(results[i].ConfirmedTotal), "activity %d", i)
			s.True(expected.PotentialTotal.Equal(results[i].PotentialTotal), "activity %d", i)
		}
		s.Equal(1, testutil.CollectAndCount(s.metrics.BatchSize))
	})

	s.Run("names the invalid activity", func() {
		_, err := s.service.QuickBatch(ctx, child, []ActivityInput{
			{ActivityType: eligibility.TypeSport, Price: euros("100")},
			{ActivityType: eligibility.TypeSport, Price: euros("-1")},
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
		s.Contains(err.Error(), "activity 1")
	})

	s.Run("empty batch", func() {
		results, err := s.service.QuickBatch(ctx, child, nil)
		s.Require().NoError(err)
		s.Empty(results)
	})

	s.Run("cancelled context", func() {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := s.service.QuickBatch(cancelled, child, []ActivityInput{
			{ActivityType: eligibility.TypeSport, Price: euros("100")},
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
		s.ErrorIs(err, context.Canceled)
	})

	s.Run("respects the concurrency limit", func() {
		svc := New(eligibility.DefaultEngine(), WithBatchLimit(1))
		activities := make([]ActivityInput, 25)
		for i := range activities {
			activities[i] = ActivityInput{ActivityType: eligibility.TypeLeisure, Price: decimal.NewFromInt(int64(10 + i))}
		}
		results, err := svc.QuickBatch(ctx, child, activities)
		s.Require().NoError(err)
		for i, r := range results {
			s.True(r.RemainingPrice.LessThanOrEqual(decimal.NewFromInt(int64(10+i))), "activity %d", i)
		}
	})
}

func (s *ServiceSuite) TestReadOnlyAccessors() {
	s.Len(s.service.Programs(), eligibility.DefaultCatalog().Len())
	s.NotEmpty(s.service.Bands())

	fields := s.service.Visibility(context.Background(), eligibility.VisibilityQuery{ActivityType: eligibility.TypeSport})
	s.True(fields.IncomeQuotient)
}

// failingStore fails every operation.
type failingStore struct{}

var errStoreDown = errors.New("connection refused")

func (failingStore) SaveQuick(context.Context, string, *eligibility.EstimationSummary) error {
	return errStoreDown
}

func (failingStore) SaveFull(context.Context, string, *eligibility.EstimationSummary) error {
	return errStoreDown
}

func (failingStore) Find(context.Context, string) (*store.Snapshot, error) {
	return nil, errStoreDown
}

// recordingTracer remembers span names, start attributes and events.
type recordingTracer struct {
	mu         sync.Mutex
	spanNames  []string
	attributes map[string]any
	eventNames []string
}

func (t *recordingTracer) Start(ctx context.Context, name string, attrs ...tracer.Attribute) (context.Context, tracer.Span) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.spanNames = append(t.spanNames, name)
	if t.attributes == nil {
		t.attributes = make(map[string]any)
	}
	for _, a := range attrs {
		t.attributes[a.Key] = a.Value
	}
	return ctx, &recordingSpan{tracer: t}
}

func (t *recordingTracer) attribute(key string) any {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.attributes[key]
}

func (t *recordingTracer) spans() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string{}, t.spanNames...)
}

func (t *recordingTracer) events() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string{}, t.eventNames...)
}

type recordingSpan struct {
	tracer *recordingTracer
}

func (s *recordingSpan) End(error)                         {}
func (s *recordingSpan) SetAttributes(...tracer.Attribute) {}
func (s *recordingSpan) AddEvent(name string, _ ...tracer.Attribute) {
	s.tracer.mu.Lock()
	defer s.tracer.mu.Unlock()
	s.tracer.eventNames = append(s.tracer.eventNames, name)
}
