package eligibility

import (
	"fmt"
	"slices"

	dErrors "aidengine/pkg/domain-errors"
)

// MaxAge is the oldest age the engine accepts.
const MaxAge = 18

// Predicate is the eligibility rule of a program, expressed as data.
// Every constrained clause must hold (AND). Empty lists and zero minimums
// leave the corresponding field unconstrained.
type Predicate struct {
	// MinAge and MaxAge are inclusive.
	MinAge int
	MaxAge int

	ActivityTypes []ActivityType
	Periods       []Period

	// Departments and PostalCodes gate by location; a location admitted by
	// either list passes. An unknown location never passes.
	Departments []int
	PostalCodes []string

	// RequiredFlags needs at least one of the listed flags.
	RequiredFlags []SocialFlag

	StudentStatuses []StudentStatus

	// MaxIncomeQuotient is an inclusive ceiling.
	MaxIncomeQuotient *int

	MinSiblingCount int
	MinDurationDays int

	RequiresCafAllocataire bool
}

// LocationGated reports whether the predicate restricts geography.
func (p Predicate) LocationGated() bool {
	return len(p.Departments) > 0 || len(p.PostalCodes) > 0
}

func (p Predicate) clone() Predicate {
	out := p
	out.ActivityTypes = slices.Clone(p.ActivityTypes)
	out.Periods = slices.Clone(p.Periods)
	out.Departments = slices.Clone(p.Departments)
	out.PostalCodes = slices.Clone(p.PostalCodes)
	out.RequiredFlags = slices.Clone(p.RequiredFlags)
	out.StudentStatuses = slices.Clone(p.StudentStatuses)
	if p.MaxIncomeQuotient != nil {
		ceiling := *p.MaxIncomeQuotient
		out.MaxIncomeQuotient = &ceiling
	}
	return out
}

// AidProgram is a static catalog entry.
type AidProgram struct {
	ID           string
	Name         string
	Level        TerritoryLevel
	Eligibility  Predicate
	Amount       AmountRule
	OfficialLink string

	// RequiresIncomeQuotient programs are reported as potential aid, at their
	// maximum amount, while the income quotient is unknown.
	RequiresIncomeQuotient bool
}

func (p AidProgram) clone() AidProgram {
	out := p
	out.Eligibility = p.Eligibility.clone()
	out.Amount.Brackets = slices.Clone(p.Amount.Brackets)
	return out
}

// Catalog is the immutable, ordered set of programs. Declaration order is the
// order of estimation items. A Catalog is safe for concurrent use.
type Catalog struct {
	programs []AidProgram
	index    map[string]int
}

// NewCatalog validates the programs and freezes them in the given order.
func NewCatalog(programs ...AidProgram) (*Catalog, error) {
	c := &Catalog{
		programs: make([]AidProgram, 0, len(programs)),
		index:    make(map[string]int, len(programs)),
	}
	for _, p := range programs {
		if err := validateProgram(p); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeValidation, fmt.Sprintf("program %q: %v", p.ID, err))
		}
		if _, dup := c.index[p.ID]; dup {
			return nil, dErrors.Newf(dErrors.CodeValidation, "duplicate program id %q", p.ID)
		}
		c.index[p.ID] = len(c.programs)
		c.programs = append(c.programs, p.clone())
	}
	return c, nil
}

// MustCatalog is NewCatalog for static definitions; it panics on error.
func MustCatalog(programs ...AidProgram) *Catalog {
	c, err := NewCatalog(programs...)
	if err != nil {
		panic("eligibility.MustCatalog: " + err.Error())
	}
	return c
}

// Programs returns a copy of the programs in declaration order.
func (c *Catalog) Programs() []AidProgram {
	out := make([]AidProgram, len(c.programs))
	for i, p := range c.programs {
		out[i] = p.clone()
	}
	return out
}

// Program looks a program up by id.
func (c *Catalog) Program(id string) (AidProgram, bool) {
	i, ok := c.index[id]
	if !ok {
		return AidProgram{}, false
	}
	return c.programs[i].clone(), true
}

// Len returns the number of programs.
func (c *Catalog) Len() int {
	return len(c.programs)
}

func validateProgram(p AidProgram) error {
	if p.ID == "" {
		return dErrors.New(dErrors.CodeValidation, "id is required")
	}
	if p.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if !p.Level.IsValid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown territory level %q", p.Level)
	}
	if err := validatePredicate(p.Eligibility); err != nil {
		return err
	}
	if err := p.Amount.validate(); err != nil {
		return err
	}
	needsQF := p.Amount.Kind == AmountBracket || p.Eligibility.MaxIncomeQuotient != nil
	if needsQF && !p.RequiresIncomeQuotient {
		return dErrors.New(dErrors.CodeValidation, "income-dependent program must require the income quotient")
	}
	return nil
}

func validatePredicate(p Predicate) error {
	if p.MinAge < 0 || p.MaxAge > MaxAge || p.MinAge > p.MaxAge {
		return dErrors.Newf(dErrors.CodeValidation, "age range [%d, %d] is invalid", p.MinAge, p.MaxAge)
	}
	for _, t := range p.ActivityTypes {
		if !t.IsValid() {
			return dErrors.Newf(dErrors.CodeValidation, "unknown activity type %q", t)
		}
	}
	for _, period := range p.Periods {
		if !period.IsValid() {
			return dErrors.Newf(dErrors.CodeValidation, "unknown period %q", period)
		}
	}
	for _, d := range p.Departments {
		if d <= UnknownDepartment || d > 99 {
			return dErrors.Newf(dErrors.CodeValidation, "department %d is invalid", d)
		}
	}
	for _, code := range p.PostalCodes {
		if !isPostalCode(code) {
			return dErrors.Newf(dErrors.CodeValidation, "postal code %q is invalid", code)
		}
	}
	for _, f := range p.RequiredFlags {
		if !f.IsValid() {
			return dErrors.Newf(dErrors.CodeValidation, "unknown social flag %q", f)
		}
	}
	for _, s := range p.StudentStatuses {
		if !s.IsValid() {
			return dErrors.Newf(dErrors.CodeValidation, "unknown student status %q", s)
		}
	}
	if p.MaxIncomeQuotient != nil && *p.MaxIncomeQuotient < 0 {
		return dErrors.New(dErrors.CodeValidation, "income ceiling must not be negative")
	}
	if p.MinSiblingCount < 0 || p.MinDurationDays < 0 {
		return dErrors.New(dErrors.CodeValidation, "minimum sibling count and duration must not be negative")
	}
	return nil
}
