// Package eligibility estimates the financial aid a family can expect for a
// child's activity.
//
// A Catalog holds the aid programs as data: a Predicate deciding who is
// eligible and an AmountRule deciding how much. The Engine validates an
// EvaluationContext, runs every predicate and folds the verdicts into an
// EstimationSummary whose confirmed total never exceeds the activity price.
//
// Everything here is pure: no clock, no I/O, no shared mutable state.
package eligibility
