package spec

import (
	"errors"
	"fmt"
)

// Fatal specification errors. Any of these aborts the run before a verdict:
// they indicate malformed input, not a failed litmus check.
var (
	// ErrNoSpecification: the stream contains no order-0 specification items.
	ErrNoSpecification = errors.New("no specification found")

	// ErrMissingItem: an order-i item has no open chain of length i to join.
	ErrMissingItem = errors.New("missing item in order specification")

	// ErrOrderGap: items remain at or above the level where clustering stopped.
	ErrOrderGap = errors.New("order gap in specification")
)

// DecodeError reports a carrier instruction that does not have the expected
// operand shape, or a decoded field outside its legal range.
type DecodeError struct {
	Ins    string // the offending instruction text
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode spec instruction %q: %s", e.Ins, e.Reason)
}
