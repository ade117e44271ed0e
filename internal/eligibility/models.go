package eligibility

import (
	"strings"

	"github.com/shopspring/decimal"

	dErrors "aidengine/pkg/domain-errors"
)

// TerritoryLevel is the administrative tier funding a program.
type TerritoryLevel string

const (
	LevelNational     TerritoryLevel = "national"
	LevelRegional     TerritoryLevel = "regional"
	LevelDepartmental TerritoryLevel = "departmental"
	LevelCommunal     TerritoryLevel = "communal"
	LevelCAF          TerritoryLevel = "caf"
)

func (l TerritoryLevel) IsValid() bool {
	switch l {
	case LevelNational, LevelRegional, LevelDepartmental, LevelCommunal, LevelCAF:
		return true
	}
	return false
}

// ActivityType is the closed set of activity kinds the predicates see.
// Free-text categories are mapped onto it by ClassifyCategories.
type ActivityType string

const (
	TypeSport    ActivityType = "sport"
	TypeCulture  ActivityType = "culture"
	TypeVacation ActivityType = "vacation"
	TypeLeisure  ActivityType = "leisure"
)

func (t ActivityType) IsValid() bool {
	switch t {
	case TypeSport, TypeCulture, TypeVacation, TypeLeisure:
		return true
	}
	return false
}

// ParseActivityType validates an activity type coming from outside the engine.
func ParseActivityType(s string) (ActivityType, error) {
	t := ActivityType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown activity type %q", s)
	}
	return t, nil
}

// Period tells whether the activity runs during school term or school holidays.
type Period string

const (
	PeriodSchoolTerm Period = "school_term"
	PeriodVacation   Period = "vacation"
)

func (p Period) IsValid() bool {
	return p == PeriodSchoolTerm || p == PeriodVacation
}

// ParsePeriod validates a period. The empty string yields PeriodSchoolTerm.
func ParsePeriod(s string) (Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PeriodSchoolTerm, nil
	}
	p := Period(s)
	if !p.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown period %q", s)
	}
	return p, nil
}

// SocialFlag is a welfare-program membership usable as an eligibility gate.
type SocialFlag string

const (
	FlagARS         SocialFlag = "ars"         // allocation de rentrée scolaire
	FlagAEEH        SocialFlag = "aeeh"        // allocation d'éducation de l'enfant handicapé
	FlagAESH        SocialFlag = "aesh"        // accompagnant d'élève en situation de handicap
	FlagScholarship SocialFlag = "scholarship" // bourse de collège / lycée
	FlagASE         SocialFlag = "ase"         // aide sociale à l'enfance
)

func (f SocialFlag) IsValid() bool {
	switch f {
	case FlagARS, FlagAEEH, FlagAESH, FlagScholarship, FlagASE:
		return true
	}
	return false
}

// ParseSocialFlag validates a social condition flag.
func ParseSocialFlag(s string) (SocialFlag, error) {
	f := SocialFlag(strings.ToLower(strings.TrimSpace(s)))
	if !f.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown social flag %q", s)
	}
	return f, nil
}

// StudentStatus is the child's schooling level. The zero value means unknown.
type StudentStatus string

const (
	StudentUnknown      StudentStatus = ""
	StudentPrimary      StudentStatus = "primary"
	StudentMiddleSchool StudentStatus = "middle_school"
	StudentHighSchool   StudentStatus = "high_school"
)

func (s StudentStatus) IsValid() bool {
	switch s {
	case StudentPrimary, StudentMiddleSchool, StudentHighSchool:
		return true
	}
	return false
}

// ParseStudentStatus validates a schooling level. The empty string is StudentUnknown.
func ParseStudentStatus(s string) (StudentStatus, error) {
	st := StudentStatus(strings.ToLower(strings.TrimSpace(s)))
	if st == StudentUnknown || st.IsValid() {
		return st, nil
	}
	return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown student status %q", s)
}

// EvaluationContext is everything known about one child and one activity
// at evaluation time. It is built fresh for every call and passed by value.
type EvaluationContext struct {
	Age int

	// IncomeQuotient is nil while the family has not supplied it. This is
	// the pivot between potential and confirmed aid.
	IncomeQuotient *int

	// PostalCode may be empty or malformed; both mean unknown location.
	PostalCode string

	Price        decimal.Decimal
	ActivityType ActivityType
	Period       Period

	// DurationDays is 0 when the caller does not know it.
	DurationDays int

	SocialFlags   []SocialFlag
	SiblingCount  int
	StudentStatus StudentStatus

	// CafAllocataire is nil when the caller has not asked. Only an explicit
	// false excludes CAF-funded programs.
	CafAllocataire *bool
}

// Location derives the department from the postal code.
func (c EvaluationContext) Location() Location {
	return ParseLocation(c.PostalCode)
}

// HasFlag reports whether the context carries the given social flag.
func (c EvaluationContext) HasFlag(flag SocialFlag) bool {
	for _, f := range c.SocialFlags {
		if f == flag {
			return true
		}
	}
	return false
}

// MatchStatus is the outcome of evaluating one program against a context.
type MatchStatus string

const (
	MatchConfirmed MatchStatus = "confirmed"
	MatchPotential MatchStatus = "potential"
	MatchExcluded  MatchStatus = "excluded"
)

// ExclusionReason names the first clause that ruled a program out.
type ExclusionReason string

const (
	ReasonNone           ExclusionReason = ""
	ReasonAge            ExclusionReason = "age"
	ReasonActivityType   ExclusionReason = "activity_type"
	ReasonPeriod         ExclusionReason = "period"
	ReasonLocation       ExclusionReason = "location"
	ReasonStudentStatus  ExclusionReason = "student_status"
	ReasonSocialFlags    ExclusionReason = "social_flags"
	ReasonSiblingCount   ExclusionReason = "sibling_count"
	ReasonDuration       ExclusionReason = "duration"
	ReasonCafAllocataire ExclusionReason = "caf_allocataire"
	ReasonIncomeCeiling  ExclusionReason = "income_ceiling"
	ReasonOutOfBrackets  ExclusionReason = "out_of_brackets"
)

// Evaluation is the per-program verdict produced by Catalog.Evaluate.
type Evaluation struct {
	Program AidProgram
	Status  MatchStatus
	// Amount is exact when confirmed and an upper bound when potential.
	Amount decimal.Decimal
	Reason ExclusionReason
}

// AidResult is one line of an estimation.
type AidResult struct {
	ProgramID    string
	Name         string
	Amount       decimal.Decimal
	Level        TerritoryLevel
	Confirmed    bool
	OfficialLink string
}

// EstimationSummary aggregates the aid found for one activity.
//
// ConfirmedTotal never exceeds the price and RemainingPrice is never negative.
// PotentialTotal is advisory and is not capped.
type EstimationSummary struct {
	Items          []AidResult
	ConfirmedTotal decimal.Decimal
	PotentialTotal decimal.Decimal
	RemainingPrice decimal.Decimal
	// Capped is set when confirmed aid summed above the price.
	Capped bool
}

// ConfirmedCount returns the number of confirmed items.
func (s *EstimationSummary) ConfirmedCount() int {
	n := 0
	for _, item := range s.Items {
		if item.Confirmed {
			n++
		}
	}
	return n
}

// PotentialCount returns the number of potential items.
func (s *EstimationSummary) PotentialCount() int {
	return len(s.Items) - s.ConfirmedCount()
}
