package mutualinfo

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors for the three classes of invalid input. Every error returned by
// Compute, Estimate and Entropy matches ErrInvalidInput and exactly one of the
// more specific sentinels via errors.Is.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidShape     = errors.New("invalid shape")
	ErrInvalidValue     = errors.New("invalid value")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// InvalidInputError describes why an input was rejected.
type InvalidInputError struct {
	// Kind is one of ErrInvalidShape, ErrInvalidValue or ErrInvalidParameter.
	Kind error

	// Detail is a human-readable description of the offending input.
	Detail string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Detail)
}

// Unwrap returns the kind sentinel.
func (e *InvalidInputError) Unwrap() error {
	return e.Kind
}

// Is reports true for ErrInvalidInput in addition to the wrapped kind.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func shapeErrorf(format string, args ...interface{}) error {
	return &InvalidInputError{Kind: ErrInvalidShape, Detail: fmt.Sprintf(format, args...)}
}

func valueErrorf(format string, args ...interface{}) error {
	return &InvalidInputError{Kind: ErrInvalidValue, Detail: fmt.Sprintf(format, args...)}
}

func parameterErrorf(format string, args ...interface{}) error {
	return &InvalidInputError{Kind: ErrInvalidParameter, Detail: fmt.Sprintf(format, args...)}
}
