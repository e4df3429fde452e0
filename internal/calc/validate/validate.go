// Package validate holds the input-error type shared by the calculation
// blocks. Its messages are returned to clients verbatim.
package validate

import (
	"errors"
	"fmt"
)

var ErrInvalid = errors.New("invalid input")

type inputError struct {
	msg string
}

func (e *inputError) Error() string { return e.msg }

func (e *inputError) Is(target error) bool { return target == ErrInvalid }

// Errorf formats a client-facing message that matches ErrInvalid.
func Errorf(format string, args ...any) error {
	return &inputError{msg: fmt.Sprintf(format, args...)}
}
