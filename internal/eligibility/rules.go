package eligibility

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Field identifies a context input that predicate clauses read.
type Field uint16

const (
	FieldAge Field = 1 << iota
	FieldActivityType
	FieldPeriod
	FieldLocation
	FieldStudentStatus
	FieldSocialFlags
	FieldSiblingCount
	FieldDuration
	FieldCafAllocataire
	FieldIncomeQuotient
)

// FieldSet is a bitmask of fields whose values are known.
type FieldSet uint16

// AllFields is used when the whole context is known.
const AllFields = FieldSet(FieldAge | FieldActivityType | FieldPeriod | FieldLocation |
	FieldStudentStatus | FieldSocialFlags | FieldSiblingCount | FieldDuration |
	FieldCafAllocataire | FieldIncomeQuotient)

func Fields(fields ...Field) FieldSet {
	var set FieldSet
	for _, f := range fields {
		set |= FieldSet(f)
	}
	return set
}

func (s FieldSet) Has(f Field) bool { return s&FieldSet(f) != 0 }

func (s FieldSet) Without(f Field) FieldSet { return s &^ FieldSet(f) }

// facts is the normalized view of an EvaluationContext the clauses read.
type facts struct {
	age      int
	qf       *int
	location Location
	activity ActivityType
	period   Period
	duration int
	flags    []SocialFlag
	siblings int
	student  StudentStatus
	caf      *bool
}

func factsOf(ctx EvaluationContext) facts {
	return facts{
		age:      ctx.Age,
		qf:       ctx.IncomeQuotient,
		location: ctx.Location(),
		activity: ctx.ActivityType,
		period:   ctx.Period,
		duration: ctx.DurationDays,
		flags:    ctx.SocialFlags,
		siblings: ctx.SiblingCount,
		student:  ctx.StudentStatus,
		caf:      ctx.CafAllocataire,
	}
}

// clause is one conjunct of a Predicate. applies reports whether the
// predicate constrains the field at all; holds is only asked when it does.
type clause struct {
	field   Field
	reason  ExclusionReason
	applies func(p Predicate) bool
	holds   func(p Predicate, f facts) bool
}

// clauses are checked in this order; the first failure is the reported reason.
var clauses = []clause{
	{
		field:   FieldAge,
		reason:  ReasonAge,
		applies: func(Predicate) bool { return true },
		holds: func(p Predicate, f facts) bool {
			return f.age >= p.MinAge && f.age <= p.MaxAge
		},
	},
	{
		field:   FieldActivityType,
		reason:  ReasonActivityType,
		applies: func(p Predicate) bool { return len(p.ActivityTypes) > 0 },
		holds: func(p Predicate, f facts) bool {
			return slices.Contains(p.ActivityTypes, f.activity)
		},
	},
	{
		field:   FieldPeriod,
		reason:  ReasonPeriod,
		applies: func(p Predicate) bool { return len(p.Periods) > 0 },
		holds: func(p Predicate, f facts) bool {
			return slices.Contains(p.Periods, f.period)
		},
	},
	{
		field:   FieldLocation,
		reason:  ReasonLocation,
		applies: Predicate.LocationGated,
		holds: func(p Predicate, f facts) bool {
			if !f.location.Known {
				return false
			}
			return slices.Contains(p.Departments, f.location.Department) ||
				slices.Contains(p.PostalCodes, f.location.PostalCode)
		},
	},
	{
		field:   FieldStudentStatus,
		reason:  ReasonStudentStatus,
		applies: func(p Predicate) bool { return len(p.StudentStatuses) > 0 },
		holds: func(p Predicate, f facts) bool {
			return f.student != StudentUnknown && slices.Contains(p.StudentStatuses, f.student)
		},
	},
	{
		field:   FieldSocialFlags,
		reason:  ReasonSocialFlags,
		applies: func(p Predicate) bool { return len(p.RequiredFlags) > 0 },
		holds: func(p Predicate, f facts) bool {
			for _, flag := range f.flags {
				if slices.Contains(p.RequiredFlags, flag) {
					return true
				}
			}
			return false
		},
	},
	{
		field:   FieldSiblingCount,
		reason:  ReasonSiblingCount,
		applies: func(p Predicate) bool { return p.MinSiblingCount > 0 },
		holds: func(p Predicate, f facts) bool {
			return f.siblings >= p.MinSiblingCount
		},
	},
	{
		field:   FieldDuration,
		reason:  ReasonDuration,
		applies: func(p Predicate) bool { return p.MinDurationDays > 0 },
		holds: func(p Predicate, f facts) bool {
			return f.duration >= p.MinDurationDays
		},
	},
	{
		field:   FieldCafAllocataire,
		reason:  ReasonCafAllocataire,
		applies: func(p Predicate) bool { return p.RequiresCafAllocataire },
		holds: func(_ Predicate, f facts) bool {
			return f.caf == nil || *f.caf
		},
	},
	{
		field:   FieldIncomeQuotient,
		reason:  ReasonIncomeCeiling,
		applies: func(p Predicate) bool { return p.MaxIncomeQuotient != nil },
		holds: func(p Predicate, f facts) bool {
			return f.qf != nil && *f.qf <= *p.MaxIncomeQuotient
		},
	},
}

// failure returns the first constrained clause over a known field that does
// not hold, or ReasonNone.
func (p Predicate) failure(f facts, known FieldSet) ExclusionReason {
	for _, c := range clauses {
		if !known.Has(c.field) || !c.applies(p) {
			continue
		}
		if !c.holds(p, f) {
			return c.reason
		}
	}
	return ReasonNone
}

// Constrains reports whether the predicate reads the given field.
func (p Predicate) Constrains(field Field) bool {
	for _, c := range clauses {
		if c.field == field {
			return c.applies(p)
		}
	}
	return false
}

// dependsOn is Constrains widened by the program's own requirements: a
// program that requires the income quotient depends on it even without a
// ceiling, since its amount does.
func (p AidProgram) dependsOn(field Field) bool {
	if field == FieldIncomeQuotient && p.RequiresIncomeQuotient {
		return true
	}
	return p.Eligibility.Constrains(field)
}

// Evaluate judges every program against ctx, in catalog order.
//
// Programs that require the income quotient are potential, at their maximum
// amount, when the quotient is unknown and every other clause holds. All
// other programs are either confirmed with an exact amount or excluded.
// Evaluate performs no input validation; see Engine.
func (c *Catalog) Evaluate(ctx EvaluationContext) []Evaluation {
	f := factsOf(ctx)
	out := make([]Evaluation, 0, len(c.programs))
	for _, p := range c.programs {
		out = append(out, evaluateProgram(p, f, ctx.Price))
	}
	return out
}

func evaluateProgram(p AidProgram, f facts, price decimal.Decimal) Evaluation {
	ev := Evaluation{Program: p.clone(), Status: MatchExcluded, Amount: decimal.Zero}

	if p.RequiresIncomeQuotient && f.qf == nil {
		if reason := p.Eligibility.failure(f, AllFields.Without(FieldIncomeQuotient)); reason != ReasonNone {
			ev.Reason = reason
			return ev
		}
		ev.Status = MatchPotential
		ev.Amount = p.Amount.Max(price)
		return ev
	}

	if reason := p.Eligibility.failure(f, AllFields); reason != ReasonNone {
		ev.Reason = reason
		return ev
	}
	amount, ok := p.Amount.Compute(price, f.qf)
	if !ok {
		ev.Reason = ReasonOutOfBrackets
		return ev
	}
	ev.Status = MatchConfirmed
	ev.Amount = amount
	return ev
}
