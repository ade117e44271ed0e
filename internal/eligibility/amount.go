package eligibility

import (
	"github.com/shopspring/decimal"

	dErrors "aidengine/pkg/domain-errors"
)

// AmountKind selects how a program's amount is computed.
type AmountKind string

const (
	AmountFixed      AmountKind = "fixed"
	AmountPercentage AmountKind = "percentage"
	AmountBracket    AmountKind = "bracket"
)

// BoundPolicy decides what happens to an income quotient that falls outside
// a bracket table.
type BoundPolicy string

const (
	// BoundExclude makes the program not apply.
	BoundExclude BoundPolicy = "exclude"
	// BoundNearest grants the amount of the closest bracket (open-ended table).
	BoundNearest BoundPolicy = "nearest"
)

func (p BoundPolicy) IsValid() bool {
	return p == BoundExclude || p == BoundNearest
}

var hundred = decimal.NewFromInt(100)

// Bracket grants Amount to income quotients in [Min, Max).
type Bracket struct {
	Min    int
	Max    int
	Amount decimal.Decimal
}

func (b Bracket) contains(qf int) bool {
	return qf >= b.Min && qf < b.Max
}

// AmountRule describes how much a matched program grants.
type AmountRule struct {
	Kind AmountKind

	// Value is the constant of a fixed rule.
	Value decimal.Decimal

	// Percent of the activity price (50 means half) and an optional cap.
	Percent decimal.Decimal
	Cap     decimal.NullDecimal

	// Brackets are contiguous and ascending. Below and Above are the explicit
	// policies for quotients outside the table.
	Brackets []Bracket
	Below    BoundPolicy
	Above    BoundPolicy
}

// Fixed returns a rule granting a constant amount in euros.
func Fixed(euros int64) AmountRule {
	return AmountRule{Kind: AmountFixed, Value: decimal.NewFromInt(euros)}
}

// Percentage returns a rule granting percent of the price, capped at capEuros.
// A negative capEuros means no cap.
func Percentage(percent int64, capEuros int64) AmountRule {
	rule := AmountRule{Kind: AmountPercentage, Percent: decimal.NewFromInt(percent)}
	if capEuros >= 0 {
		rule.Cap = decimal.NewNullDecimal(decimal.NewFromInt(capEuros))
	}
	return rule
}

// BracketTable returns a bracket rule with explicit out-of-range policies.
func BracketTable(below, above BoundPolicy, brackets ...Bracket) AmountRule {
	return AmountRule{Kind: AmountBracket, Brackets: brackets, Below: below, Above: above}
}

// Band is shorthand for a Bracket in whole euros.
func Band(minQF, maxQF int, euros int64) Bracket {
	return Bracket{Min: minQF, Max: maxQF, Amount: decimal.NewFromInt(euros)}
}

// Compute returns the amount granted for the given price and income quotient.
// It reports false when a bracket rule's policy excludes the quotient, or when
// a bracket rule is asked without a quotient.
func (r AmountRule) Compute(price decimal.Decimal, qf *int) (decimal.Decimal, bool) {
	switch r.Kind {
	case AmountFixed:
		return r.Value, true
	case AmountPercentage:
		return r.percentageOf(price), true
	case AmountBracket:
		if qf == nil {
			return decimal.Zero, false
		}
		return r.lookup(*qf)
	}
	return decimal.Zero, false
}

// Max is the largest amount the rule can grant for the given price. It is the
// upper bound reported for potential aid.
func (r AmountRule) Max(price decimal.Decimal) decimal.Decimal {
	switch r.Kind {
	case AmountFixed:
		return r.Value
	case AmountPercentage:
		return r.percentageOf(price)
	case AmountBracket:
		highest := decimal.Zero
		for _, b := range r.Brackets {
			if b.Amount.GreaterThan(highest) {
				highest = b.Amount
			}
		}
		return highest
	}
	return decimal.Zero
}

// percentageOf computes min(cap, round2(price * percent / 100)), half-up.
func (r AmountRule) percentageOf(price decimal.Decimal) decimal.Decimal {
	amount := price.Mul(r.Percent).Div(hundred).Round(2)
	if r.Cap.Valid && amount.GreaterThan(r.Cap.Decimal) {
		return r.Cap.Decimal
	}
	return amount
}

func (r AmountRule) lookup(qf int) (decimal.Decimal, bool) {
	if len(r.Brackets) == 0 {
		return decimal.Zero, false
	}
	first, last := r.Brackets[0], r.Brackets[len(r.Brackets)-1]
	if qf < first.Min {
		if r.Below == BoundNearest {
			return first.Amount, true
		}
		return decimal.Zero, false
	}
	if qf >= last.Max {
		if r.Above == BoundNearest {
			return last.Amount, true
		}
		return decimal.Zero, false
	}
	for _, b := range r.Brackets {
		if b.contains(qf) {
			return b.Amount, true
		}
	}
	return decimal.Zero, false
}

func (r AmountRule) validate() error {
	switch r.Kind {
	case AmountFixed:
		if r.Value.IsNegative() {
			return dErrors.New(dErrors.CodeValidation, "fixed amount must not be negative")
		}
	case AmountPercentage:
		if !r.Percent.IsPositive() || r.Percent.GreaterThan(hundred) {
			return dErrors.New(dErrors.CodeValidation, "percentage must be in (0, 100]")
		}
		if r.Cap.Valid && r.Cap.Decimal.IsNegative() {
			return dErrors.New(dErrors.CodeValidation, "percentage cap must not be negative")
		}
	case AmountBracket:
		return validateBrackets(r)
	default:
		return dErrors.Newf(dErrors.CodeValidation, "unknown amount kind %q", r.Kind)
	}
	return nil
}

func validateBrackets(r AmountRule) error {
	if len(r.Brackets) == 0 {
		return dErrors.New(dErrors.CodeValidation, "bracket rule needs at least one bracket")
	}
	if !r.Below.IsValid() || !r.Above.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "bracket rule needs explicit below and above policies")
	}
	for i, b := range r.Brackets {
		if b.Min < 0 || b.Min >= b.Max {
			return dErrors.Newf(dErrors.CodeValidation, "bracket %d: range [%d, %d) is empty or negative", i, b.Min, b.Max)
		}
		if b.Amount.IsNegative() {
			return dErrors.Newf(dErrors.CodeValidation, "bracket %d: amount must not be negative", i)
		}
		if i > 0 && r.Brackets[i-1].Max != b.Min {
			return dErrors.Newf(dErrors.CodeValidation, "bracket %d: must start where bracket %d ends", i, i-1)
		}
	}
	return nil
}
