package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

// DomainErrorsSuite covers the error primitives every layer relies on to
// carry a stable code from the engine out to the HTTP response.
type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorInterface() {
	s.Run("returns message when present", func() {
		err := &Error{Code: CodeInvalidInput, Message: "age must be between 0 and 18"}
		s.Equal("age must be between 0 and 18", err.Error())
	})

	s.Run("returns code when message is empty", func() {
		err := &Error{Code: CodeNotFound}
		s.Equal("not_found", err.Error())
	})
}

func (s *DomainErrorsSuite) TestIsMatching() {
	s.Run("matches by code only", func() {
		err1 := &Error{Code: CodeInvalidInput, Message: "negative price"}
		err2 := &Error{Code: CodeInvalidInput, Message: "unknown period"}
		s.True(err1.Is(err2))
	})

	s.Run("does not match different codes", func() {
		s.False((&Error{Code: CodeNotFound}).Is(&Error{Code: CodeInternal}))
	})

	s.Run("does not match plain errors", func() {
		s.False((&Error{Code: CodeNotFound}).Is(errors.New("not found")))
	})

	s.Run("works with errors.Is through a chain", func() {
		inner := &Error{Code: CodeNotFound, Message: "snapshot missing"}
		wrapped := fmt.Errorf("load session: %w", inner)
		s.True(errors.Is(wrapped, &Error{Code: CodeNotFound}))
	})
}

func (s *DomainErrorsSuite) TestConstructors() {
	s.Run("New sets code and message", func() {
		var domainErr *Error
		s.Require().True(errors.As(New(CodeBadRequest, "invalid request body"), &domainErr))
		s.Equal(CodeBadRequest, domainErr.Code)
		s.Equal("invalid request body", domainErr.Message)
	})

	s.Run("Newf formats the message", func() {
		err := Newf(CodeInvalidInput, "unknown activity type %q", "chess")
		s.Equal(`unknown activity type "chess"`, err.Error())
		s.True(HasCode(err, CodeInvalidInput))
	})
}

func (s *DomainErrorsSuite) TestWrap() {
	s.Run("preserves the original domain code", func() {
		wrapped := Wrap(New(CodeNotFound, "snapshot not found"), CodeInternal, "load last estimate")
		s.Equal(CodeNotFound, CodeOf(wrapped))
		s.Equal("load last estimate", wrapped.Error())
	})

	s.Run("uses the provided code for plain errors", func() {
		root := errors.New("connection refused")
		wrapped := Wrap(root, CodeInternal, "snapshot store unavailable")
		s.Equal(CodeInternal, CodeOf(wrapped))
		s.True(errors.Is(wrapped, root))
	})
}

func (s *DomainErrorsSuite) TestHasCode() {
	s.Run("matches code through wrapping", func() {
		err := fmt.Errorf("estimate: %w", New(CodeInvalidInput, "negative price"))
		s.True(HasCode(err, CodeInvalidInput))
		s.False(HasCode(err, CodeInternal))
	})

	s.Run("returns false for plain and nil errors", func() {
		s.False(HasCode(errors.New("boom"), CodeInternal))
		s.False(HasCode(nil, CodeNotFound))
		s.Equal(Code(""), CodeOf(nil))
	})
}
