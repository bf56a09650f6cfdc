package record

import (
	"errors"
	"fmt"
)

// ErrFormat is matched by every *FormatError via errors.Is.
var ErrFormat = errors.New("malformed record")

// FormatError reports a row that cannot be decoded: wrong arity, unknown kind
// or a non-integer where an integer is required.
type FormatError struct {
	Line   int
	Field  int // 0-based field index, -1 when the whole row is at fault
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	if e.Field >= 0 {
		msg = fmt.Sprintf("line %d, field %d: %s", e.Line, e.Field+1, e.Reason)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrFormat) hold for any FormatError.
func (e *FormatError) Is(target error) bool { return target == ErrFormat }

func rowError(line int, reason string) *FormatError {
	return &FormatError{Line: line, Field: -1, Reason: reason}
}

func fieldError(line, field int, reason string, err error) *FormatError {
	return &FormatError{Line: line, Field: field, Reason: reason, Err: err}
}
