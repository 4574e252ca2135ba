package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrIncorrectAnswer    = errors.New("incorrect security answer")
	ErrInvalidMode        = errors.New("mode must be include or exclude")
	ErrUnknownTag         = errors.New("unknown tag")
	ErrEmptyPlan          = errors.New("plan has no items")
	ErrNoPlanFound        = errors.New("no plan found in completion")
	ErrMalformedPlan      = errors.New("malformed plan in completion")
	ErrCompletionFailed   = errors.New("completion request failed")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidFilter      = errors.New("filter must be day, week or month")
)

// UserExistsError reports which unique field collided at signup
type UserExistsError struct {
	Field string // "id" or "email"
}

func (e *UserExistsError) Error() string {
	return fmt.Sprintf("user with this %s already exists", e.Field)
}

func (e *UserExistsError) Unwrap() error {
	return ErrUserExists
}

// IsGenerationError reports whether err came from the completion call or from parsing its reply
func IsGenerationError(err error) bool {
	return errors.Is(err, ErrCompletionFailed) ||
		errors.Is(err, ErrNoPlanFound) ||
		errors.Is(err, ErrMalformedPlan) ||
		errors.Is(err, ErrEmptyPlan)
}
