package services

import (
	"errors"
	"fmt"
)

// ErrNotFound covers both "does not exist" and "not owned by the caller";
// the two are deliberately indistinguishable so ownership probes leak nothing.
var ErrNotFound = errors.New("not found")

// ErrConsistency marks a detected atomicity failure during balance
// apply/reverse. It always aborts the surrounding transactional scope, so a
// partial posting never lands.
var ErrConsistency = errors.New("balance consistency violation")

type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

func validationErrorf(format string, args ...any) error {
	return ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError at any wrap depth.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
