package handler

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"aidengine/internal/eligibility"
	"aidengine/internal/eligibility/service"
	dErrors "aidengine/pkg/domain-errors"
	strutil "aidengine/pkg/platform/strings"
	"aidengine/pkg/platform/validation"
)

// ActivityRequest describes one activity. Either activity_type or categories
// must be given; categories are classified when the type is absent.
type ActivityRequest struct {
	ActivityType string           `json:"activity_type" validate:"omitempty,oneof=sport culture vacation leisure"`
	Categories   []string         `json:"categories"`
	Price        *decimal.Decimal `json:"price" validate:"required"`
	Period       string           `json:"period" validate:"omitempty,oneof=school_term vacation"`
	DurationDays int              `json:"duration_days" validate:"min=0"`
}

func (r *ActivityRequest) normalize() {
	r.ActivityType = strutil.Lower(r.ActivityType)
	r.Period = strutil.Lower(r.Period)
	r.Categories = strutil.CleanList(r.Categories, nil)
	if r.ActivityType == "" && len(r.Categories) > 0 {
		r.ActivityType = string(eligibility.ClassifyCategories(r.Categories))
	}
}

func (r *ActivityRequest) check() error {
	if err := validation.CheckSliceCount("categories", len(r.Categories), validation.MaxCategories); err != nil {
		return err
	}
	if err := validation.CheckEachStringLength("category", r.Categories, validation.MaxCategoryLength); err != nil {
		return err
	}
	if r.ActivityType == "" {
		return dErrors.New(dErrors.CodeValidation, "activity_type or categories is required")
	}
	if r.Price != nil && r.Price.IsNegative() {
		return dErrors.New(dErrors.CodeValidation, "price must not be negative")
	}
	return nil
}

func (r *ActivityRequest) toActivity() service.ActivityInput {
	return service.ActivityInput{
		ActivityType: eligibility.ActivityType(r.ActivityType),
		Price:        *r.Price,
		Period:       eligibility.Period(r.Period),
		DurationDays: r.DurationDays,
	}
}

// ChildRequest identifies the child an estimate is for.
type ChildRequest struct {
	Age        *int   `json:"age" validate:"required,min=0,max=18"`
	PostalCode string `json:"postal_code" validate:"postalcode"`
}

func (r *ChildRequest) normalize() {
	r.PostalCode = strings.TrimSpace(r.PostalCode)
}

func (r *ChildRequest) toProfile() service.ChildProfile {
	return service.ChildProfile{Age: *r.Age, PostalCode: r.PostalCode}
}

// QuickEstimateRequest is the body of POST /estimates/quick.
type QuickEstimateRequest struct {
	SessionID string `json:"session_id" validate:"max=128"`
	ChildRequest
	ActivityRequest
}

func (r *QuickEstimateRequest) Normalize() {
	r.SessionID = strings.TrimSpace(r.SessionID)
	r.ChildRequest.normalize()
	r.ActivityRequest.normalize()
}

func (r *QuickEstimateRequest) Validate() error {
	if err := validation.Validate(r); err != nil {
		return err
	}
	return r.ActivityRequest.check()
}

func (r *QuickEstimateRequest) toInput() eligibility.QuickInput {
	child, activity := r.toProfile(), r.toActivity()
	return eligibility.QuickInput{
		Age:          child.Age,
		ActivityType: activity.ActivityType,
		Price:        activity.Price,
		PostalCode:   child.PostalCode,
		Period:       activity.Period,
		DurationDays: activity.DurationDays,
	}
}

// FullEstimateRequest is the body of POST /estimates/full.
type FullEstimateRequest struct {
	QuickEstimateRequest
	IncomeQuotient *int     `json:"income_quotient" validate:"required,min=0"`
	SocialFlags    []string `json:"social_flags" validate:"dive,oneof=ars aeeh aesh scholarship ase"`
	SiblingCount   int      `json:"sibling_count" validate:"min=0"`
	StudentStatus  string   `json:"student_status" validate:"omitempty,oneof=primary middle_school high_school"`
	CafAllocataire *bool    `json:"caf_allocataire"`
}

func (r *FullEstimateRequest) Normalize() {
	r.QuickEstimateRequest.Normalize()
	r.StudentStatus = strutil.Lower(r.StudentStatus)
	r.SocialFlags = strutil.CleanList(r.SocialFlags, strings.ToLower)
}

func (r *FullEstimateRequest) Validate() error {
	if err := validation.CheckSliceCount("social_flags", len(r.SocialFlags), validation.MaxSocialFlags); err != nil {
		return err
	}
	if err := validation.Validate(r); err != nil {
		return err
	}
	return r.ActivityRequest.check()
}

func (r *FullEstimateRequest) toContext() eligibility.EvaluationContext {
	ctx := r.toInput().Context()
	ctx.IncomeQuotient = r.IncomeQuotient
	ctx.SiblingCount = r.SiblingCount
	ctx.StudentStatus = eligibility.StudentStatus(r.StudentStatus)
	ctx.CafAllocataire = r.CafAllocataire
	for _, f := range r.SocialFlags {
		ctx.SocialFlags = append(ctx.SocialFlags, eligibility.SocialFlag(f))
	}
	return ctx
}

// BatchEstimateRequest is the body of POST /estimates/quick/batch: one
// child, several activities.
type BatchEstimateRequest struct {
	ChildRequest
	Activities []ActivityRequest `json:"activities" validate:"required,min=1,dive"`
}

func (r *BatchEstimateRequest) Normalize() {
	r.ChildRequest.normalize()
	for i := range r.Activities {
		r.Activities[i].normalize()
	}
}

func (r *BatchEstimateRequest) Validate() error {
	if err := validation.CheckSliceCount("activities", len(r.Activities), validation.MaxBatchSize); err != nil {
		return err
	}
	if err := validation.Validate(r); err != nil {
		return err
	}
	for i := range r.Activities {
		if err := r.Activities[i].check(); err != nil {
			return dErrors.Wrap(err, dErrors.CodeValidation, fmt.Sprintf("activities[%d]: %v", i, err))
		}
	}
	return nil
}

func (r *BatchEstimateRequest) toActivities() []service.ActivityInput {
	out := make([]service.ActivityInput, len(r.Activities))
	for i := range r.Activities {
		out[i] = r.Activities[i].toActivity()
	}
	return out
}

// VisibilityRequest is the body of POST /estimates/visibility. Every field is
// optional; a present postal_code, even empty, counts as collected.
type VisibilityRequest struct {
	ActivityType string   `json:"activity_type" validate:"omitempty,oneof=sport culture vacation leisure"`
	Categories   []string `json:"categories"`
	Period       string   `json:"period" validate:"omitempty,oneof=school_term vacation"`
	Age          *int     `json:"age" validate:"omitempty,min=0,max=18"`
	PostalCode   *string  `json:"postal_code" validate:"omitempty,postalcode"`
}

func (r *VisibilityRequest) Normalize() {
	r.ActivityType = strutil.Lower(r.ActivityType)
	r.Period = strutil.Lower(r.Period)
	r.Categories = strutil.CleanList(r.Categories, nil)
	if r.ActivityType == "" && len(r.Categories) > 0 {
		r.ActivityType = string(eligibility.ClassifyCategories(r.Categories))
	}
	r.PostalCode = strutil.TrimSpacePtr(r.PostalCode)
}

func (r *VisibilityRequest) Validate() error {
	if err := validation.CheckSliceCount("categories", len(r.Categories), validation.MaxCategories); err != nil {
		return err
	}
	return validation.Validate(r)
}

func (r *VisibilityRequest) toQuery() eligibility.VisibilityQuery {
	q := eligibility.VisibilityQuery{
		ActivityType: eligibility.ActivityType(r.ActivityType),
		Period:       eligibility.Period(r.Period),
		Age:          r.Age,
	}
	if r.PostalCode != nil {
		q = q.WithPostalCode(*r.PostalCode)
	}
	return q
}
