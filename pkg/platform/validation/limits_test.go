package validation

import (
	"strings"
	"testing"

	dErrors "aidengine/pkg/domain-errors"

	"github.com/stretchr/testify/suite"
)

// LimitsSuite checks the boundary helpers: max must pass, max+1 must fail.
type LimitsSuite struct {
	suite.Suite
}

func TestLimitsSuite(t *testing.T) {
	suite.Run(t, new(LimitsSuite))
}

func (s *LimitsSuite) TestCheckSliceCount() {
	s.Run("passes when count equals max", func() {
		s.NoError(CheckSliceCount("categories", MaxCategories, MaxCategories))
	})

	s.Run("passes when count is zero", func() {
		s.NoError(CheckSliceCount("categories", 0, MaxCategories))
	})

	s.Run("fails when count exceeds max", func() {
		err := CheckSliceCount("categories", MaxCategories+1, MaxCategories)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(err.Error(), "too many categories")
		s.Contains(err.Error(), "max 20 allowed")
	})
}

func (s *LimitsSuite) TestCheckStringLength() {
	s.Run("passes when length equals max", func() {
		s.NoError(CheckStringLength("session_id", strings.Repeat("a", MaxSessionIDLength), MaxSessionIDLength))
	})

	s.Run("fails when length exceeds max", func() {
		err := CheckStringLength("session_id", strings.Repeat("a", MaxSessionIDLength+1), MaxSessionIDLength)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(err.Error(), "session_id exceeds max length of 128")
	})
}

func (s *LimitsSuite) TestCheckEachStringLength() {
	s.Run("passes when every element fits", func() {
		s.NoError(CheckEachStringLength("category", []string{"sport", "danse"}, MaxCategoryLength))
	})

	s.Run("fails on the first oversized element", func() {
		err := CheckEachStringLength("category", []string{"sport", strings.Repeat("x", MaxCategoryLength+1)}, MaxCategoryLength)
		s.Require().Error(err)
		s.Contains(err.Error(), "category exceeds max length")
	})
}
