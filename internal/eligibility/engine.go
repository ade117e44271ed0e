package eligibility

import (
	"github.com/shopspring/decimal"

	dErrors "aidengine/pkg/domain-errors"
)

// Engine is the public estimation API over a catalog. It holds no mutable
// state; a single Engine may serve any number of goroutines.
type Engine struct {
	catalog *Catalog
}

// NewEngine creates an engine over the given catalog.
// Panics if catalog is nil.
func NewEngine(catalog *Catalog) *Engine {
	if catalog == nil {
		panic("eligibility.NewEngine: catalog is required")
	}
	return &Engine{catalog: catalog}
}

// DefaultEngine returns an engine over the built-in catalog.
func DefaultEngine() *Engine {
	return NewEngine(DefaultCatalog())
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// QuickInput is the reduced input of a quick estimate: no income data.
type QuickInput struct {
	Age          int
	ActivityType ActivityType
	Price        decimal.Decimal
	PostalCode   string
	// Period defaults to PeriodSchoolTerm when empty.
	Period Period
	// DurationDays is an attribute of the activity, 0 when unknown.
	DurationDays int
}

// Context expands the quick input into an evaluation context with an
// unknown income quotient.
func (in QuickInput) Context() EvaluationContext {
	return EvaluationContext{
		Age:          in.Age,
		PostalCode:   in.PostalCode,
		Price:        in.Price,
		ActivityType: in.ActivityType,
		Period:       in.Period,
		DurationDays: in.DurationDays,
	}
}

// QuickEstimate evaluates with the income quotient forced unknown.
// Every program that requires the quotient is reported as potential aid.
func (e *Engine) QuickEstimate(in QuickInput) (*EstimationSummary, error) {
	return e.Estimate(in.Context())
}

// FullEstimate evaluates with every criterion known. The income quotient is
// required, so every included item is confirmed.
func (e *Engine) FullEstimate(ctx EvaluationContext) (*EstimationSummary, error) {
	if ctx.IncomeQuotient == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "income quotient is required for a full estimate")
	}
	return e.Estimate(ctx)
}

// Estimate is the shared evaluation behind QuickEstimate and FullEstimate.
// The income quotient may be known or not.
func (e *Engine) Estimate(ctx EvaluationContext) (*EstimationSummary, error) {
	evaluations, err := e.Explain(ctx)
	if err != nil {
		return nil, err
	}
	return Summarize(ctx.Price, evaluations), nil
}

// Explain validates ctx and returns the per-program verdicts, excluded
// programs included, with the reason each was excluded.
func (e *Engine) Explain(ctx EvaluationContext) ([]Evaluation, error) {
	ctx, err := normalizeContext(ctx)
	if err != nil {
		return nil, err
	}
	return e.catalog.Evaluate(ctx), nil
}

// Summarize folds evaluations into a summary, keeping catalog order.
// Confirmed aid is capped at the price; potential aid is not.
func Summarize(price decimal.Decimal, evaluations []Evaluation) *EstimationSummary {
	summary := &EstimationSummary{
		Items:          []AidResult{},
		ConfirmedTotal: decimal.Zero,
		PotentialTotal: decimal.Zero,
		RemainingPrice: price,
	}

	confirmed := decimal.Zero
	for _, ev := range evaluations {
		if ev.Status == MatchExcluded {
			continue
		}
		isConfirmed := ev.Status == MatchConfirmed
		summary.Items = append(summary.Items, AidResult{
			ProgramID:    ev.Program.ID,
			Name:         ev.Program.Name,
			Amount:       ev.Amount,
			Level:        ev.Program.Level,
			Confirmed:    isConfirmed,
			OfficialLink: ev.Program.OfficialLink,
		})
		if isConfirmed {
			confirmed = confirmed.Add(ev.Amount)
		} else {
			summary.PotentialTotal = summary.PotentialTotal.Add(ev.Amount)
		}
	}

	summary.ConfirmedTotal = decimal.Min(price, confirmed)
	summary.Capped = confirmed.GreaterThan(price)
	summary.RemainingPrice = decimal.Max(decimal.Zero, price.Sub(summary.ConfirmedTotal))
	return summary
}

// normalizeContext fills defaults and rejects malformed input before any
// program is looked at.
func normalizeContext(ctx EvaluationContext) (EvaluationContext, error) {
	if ctx.Period == "" {
		ctx.Period = PeriodSchoolTerm
	}
	if err := ValidateContext(ctx); err != nil {
		return ctx, err
	}
	return ctx, nil
}

// ValidateContext reports the first malformed field of ctx as InvalidInput.
// An empty period is accepted and means school term.
func ValidateContext(ctx EvaluationContext) error {
	if ctx.Age < 0 || ctx.Age > MaxAge {
		return dErrors.Newf(dErrors.CodeInvalidInput, "age must be between 0 and %d, got %d", MaxAge, ctx.Age)
	}
	if ctx.Price.IsNegative() {
		return dErrors.New(dErrors.CodeInvalidInput, "activity price must not be negative")
	}
	if !ctx.ActivityType.IsValid() {
		return dErrors.Newf(dErrors.CodeInvalidInput, "unknown activity type %q", ctx.ActivityType)
	}
	if ctx.Period != "" && !ctx.Period.IsValid() {
		return dErrors.Newf(dErrors.CodeInvalidInput, "unknown period %q", ctx.Period)
	}
	if ctx.IncomeQuotient != nil && *ctx.IncomeQuotient < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "income quotient must not be negative")
	}
	if ctx.DurationDays < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "duration must not be negative")
	}
	if ctx.SiblingCount < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "sibling count must not be negative")
	}
	if ctx.StudentStatus != StudentUnknown && !ctx.StudentStatus.IsValid() {
		return dErrors.Newf(dErrors.CodeInvalidInput, "unknown student status %q", ctx.StudentStatus)
	}
	for _, f := range ctx.SocialFlags {
		if !f.IsValid() {
			return dErrors.Newf(dErrors.CodeInvalidInput, "unknown social flag %q", f)
		}
	}
	return nil
}
