package eligibility

// VisibilityQuery carries the context already collected by a form. Zero
// values of ActivityType, Period and Age pointer mean "not collected yet";
// an empty PostalCode is judged as an unknown location, as in Evaluate.
type VisibilityQuery struct {
	ActivityType  ActivityType
	Period        Period
	Age           *int
	PostalCode    string
	includePostal bool
}

// VisibleFields tells a form which optional inputs are worth asking for.
type VisibleFields struct {
	IncomeQuotient   bool
	SocialConditions bool
	CafAllocataire   bool
	StudentStatus    bool
	SiblingCount     bool
	Duration         bool
}

// FieldsToAsk answers, for every optional input, whether at least one program
// depends on it and still passes every clause over the fields already known.
// Clauses are the same ones Evaluate runs, so what is asked never drifts from
// what is evaluated.
func (e *Engine) FieldsToAsk(q VisibilityQuery) VisibleFields {
	known, f := q.known()
	return VisibleFields{
		IncomeQuotient:   e.relevant(FieldIncomeQuotient, f, known),
		SocialConditions: e.relevant(FieldSocialFlags, f, known),
		CafAllocataire:   e.relevant(FieldCafAllocataire, f, known),
		StudentStatus:    e.relevant(FieldStudentStatus, f, known),
		SiblingCount:     e.relevant(FieldSiblingCount, f, known),
		Duration:         e.relevant(FieldDuration, f, known),
	}
}

// ShouldShowIncomeQuotientField reports whether asking for the income
// quotient can change the estimate for this activity, period, age and place.
func (e *Engine) ShouldShowIncomeQuotientField(activityType ActivityType, period Period, age int, postalCode string) bool {
	q := VisibilityQuery{ActivityType: activityType, Period: period, Age: &age, PostalCode: postalCode, includePostal: true}
	known, f := q.known()
	return e.relevant(FieldIncomeQuotient, f, known)
}

// ShouldShowSocialConditionFields reports whether any social-flag gated
// program fits this activity type and age.
func (e *Engine) ShouldShowSocialConditionFields(activityType ActivityType, age int) bool {
	q := VisibilityQuery{ActivityType: activityType, Age: &age}
	known, f := q.known()
	return e.relevant(FieldSocialFlags, f, known)
}

// ShouldShowCafAllocataireField reports whether a CAF-allocataire gated
// program fits this activity type and period.
func (e *Engine) ShouldShowCafAllocataireField(activityType ActivityType, period Period) bool {
	q := VisibilityQuery{ActivityType: activityType, Period: period}
	known, f := q.known()
	return e.relevant(FieldCafAllocataire, f, known)
}

// ShouldShowStudentStatusField reports whether a schooling-level gated program
// fits this activity type, age and place.
func (e *Engine) ShouldShowStudentStatusField(activityType ActivityType, age int, postalCode string) bool {
	q := VisibilityQuery{ActivityType: activityType, Age: &age, PostalCode: postalCode, includePostal: true}
	known, f := q.known()
	return e.relevant(FieldStudentStatus, f, known)
}

// WithPostalCode marks the postal code as collected, even when empty.
func (q VisibilityQuery) WithPostalCode(code string) VisibilityQuery {
	q.PostalCode = code
	q.includePostal = true
	return q
}

func (q VisibilityQuery) known() (FieldSet, facts) {
	var known FieldSet
	f := facts{activity: q.ActivityType, period: q.Period, location: ParseLocation(q.PostalCode)}
	if q.ActivityType != "" {
		known |= FieldSet(FieldActivityType)
	}
	if q.Period != "" {
		known |= FieldSet(FieldPeriod)
	}
	if q.Age != nil {
		known |= FieldSet(FieldAge)
		f.age = *q.Age
	}
	if q.includePostal || q.PostalCode != "" {
		known |= FieldSet(FieldLocation)
	}
	return known, f
}

func (e *Engine) relevant(field Field, f facts, known FieldSet) bool {
	for _, p := range e.catalog.programs {
		if !p.dependsOn(field) {
			continue
		}
		if p.Eligibility.failure(f, known) == ReasonNone {
			return true
		}
	}
	return false
}
