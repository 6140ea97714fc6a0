package tabs

import (
	"errors"
	"fmt"
)

// ErrOutOfRange matches any *OutOfRangeError with errors.Is.
var ErrOutOfRange = errors.New("index out of range")

// OutOfRangeError reports a malformed move request. It is a caller bug and
// is never clamped.
type OutOfRangeError struct {
	// Field is "from", "to" or "section".
	Field string
	Index int
	Len   int
}

func (e *OutOfRangeError) Error() string {
	if e.Field == "section" {
		return "move outside the active tabs section"
	}
	return fmt.Sprintf("move %s index %d out of range [0, %d)", e.Field, e.Index, e.Len)
}

func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// ErrIdentityMismatch matches any *IdentityMismatchError with errors.Is.
var ErrIdentityMismatch = errors.New("identity does not match index")

// IdentityMismatchError reports a move whose source index holds a different
// tab than the one named in the request.
type IdentityMismatchError struct {
	Want  Identity
	Found Identity
	Index int
}

func (e *IdentityMismatchError) Error() string {
	return fmt.Sprintf("move from index %d names %s but %s is there", e.Index, e.Want, e.Found)
}

func (e *IdentityMismatchError) Is(target error) bool {
	return target == ErrIdentityMismatch
}
