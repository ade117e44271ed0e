package validation

import (
	dErrors "aidengine/pkg/domain-errors"
)

// HTTP body limits
const (
	// MaxBodySize is the maximum allowed request body size (64 KB).
	// A batch of MaxBatchSize quick requests fits comfortably.
	MaxBodySize = 64 * 1024
)

// Slice element count limits
const (
	// MaxCategories is the maximum number of activity categories per request.
	MaxCategories = 20

	// MaxSocialFlags is the maximum number of social flags per family.
	MaxSocialFlags = 10

	// MaxBatchSize is the maximum number of quick estimates per batch call.
	MaxBatchSize = 100
)

// String element length limits
const (
	// MaxCategoryLength is the maximum length of a single category label.
	MaxCategoryLength = 100

	// MaxSessionIDLength is the maximum length of a family session identifier.
	MaxSessionIDLength = 128
)

// CheckSliceCount validates that a slice does not exceed the maximum count.
func CheckSliceCount(fieldName string, count, max int) error {
	if count > max {
		return dErrors.Newf(dErrors.CodeValidation, "too many %s: max %d allowed", fieldName, max)
	}
	return nil
}

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.Newf(dErrors.CodeValidation, "%s exceeds max length of %d", fieldName, max)
	}
	return nil
}

// CheckEachStringLength validates that each string in a slice does not exceed the maximum length.
func CheckEachStringLength(fieldName string, values []string, max int) error {
	for _, v := range values {
		if err := CheckStringLength(fieldName, v, max); err != nil {
			return err
		}
	}
	return nil
}
